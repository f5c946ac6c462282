package postgresql

import (
	"testing"
	"time"

	entity "relief-exchange/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=relief dbname=relief sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestOfferRowRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offer := &entity.ResourceOffer{
		ID:                uuid.New(),
		ProviderID:        uuid.New(),
		ResourceType:      entity.ResourceFood,
		Quantity:          10,
		QuantityRemaining: 4,
		Location:          entity.GeoPoint{Lat: 14.6, Lng: 121.0},
		Address:           "Depot 3",
		AvailableFrom:     now,
		AvailableUntil:    now.Add(48 * time.Hour),
		Status:            entity.OfferPartiallyMatched,
		Matches: []entity.MatchRef{{
			RequestID: uuid.New(),
			MatchedAt: now,
			Origin:    entity.OriginManual,
			Status:    entity.MatchPending,
			Allocated: 6,
		}},
		Version:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}
	offer.Matches[0].OfferID = offer.ID

	row, err := toOfferRow(offer)
	require.NoError(t, err)
	assert.Equal(t, "partially_matched", row.Status)
	assert.JSONEq(t, string(row.Matches), string(mustEncode(t, offer.Matches)))

	back, err := row.entity()
	require.NoError(t, err)
	assert.Equal(t, offer, back)
}

func TestRequestRowWithoutMatches(t *testing.T) {
	req := &entity.ResourceRequest{ID: uuid.New(), Status: entity.RequestPending, Quantity: 2}

	row, err := toRequestRow(req)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(row.Matches))

	back, err := row.entity()
	require.NoError(t, err)
	assert.Empty(t, back.Matches)
	assert.NotNil(t, back.Matches)
}

func TestDecodeMatchesRejectsGarbage(t *testing.T) {
	_, err := decodeMatches([]byte("{not json"))
	assert.Error(t, err)
}

func TestNotificationRowKeepsObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	row := notificationRow{ID: id.Hex(), RecipientID: uuid.New(), Priority: "urgent"}

	n, err := row.entity()
	require.NoError(t, err)
	assert.Equal(t, id, n.ID)
	assert.Equal(t, entity.PriorityUrgent, n.Priority)

	row.ID = "nope"
	_, err = row.entity()
	assert.Error(t, err)
}

func TestNearbyFiltersLongitudeUnlessBoxWraps(t *testing.T) {
	db := dryRunDB(t)

	var rows []offerHitRow
	stmt := nearby(db.Model(&offerRow{}), entity.GeoPoint{Lat: 14.6, Lng: 121.0}, 50_000).Find(&rows).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "AS distance")
	assert.Contains(t, sql, "lat BETWEEN")
	assert.Contains(t, sql, "lng BETWEEN")

	stmt = nearby(db.Model(&offerRow{}), entity.GeoPoint{Lat: 89.9, Lng: 0}, 50_000).Find(&rows).Statement
	sql = stmt.SQL.String()
	assert.Contains(t, sql, "lat BETWEEN")
	assert.NotContains(t, sql, "lng BETWEEN")
}

func mustEncode(t *testing.T, m []entity.MatchRef) []byte {
	t.Helper()
	raw, err := encodeMatches(m)
	require.NoError(t, err)
	return raw
}
