// Package memory is an in-process backend guarded by a single RWMutex. It
// serves local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/geo"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu            sync.RWMutex
	requests      map[uuid.UUID]*entity.ResourceRequest
	offers        map[uuid.UUID]*entity.ResourceOffer
	notifications []*entity.Notification
	history       []entity.HistoryStatus
}

func NewStore() *Store {
	return &Store{
		requests: make(map[uuid.UUID]*entity.ResourceRequest),
		offers:   make(map[uuid.UUID]*entity.ResourceOffer),
	}
}

// Bundle exposes the store through the repository contracts.
func (s *Store) Bundle() repository.Store {
	return repository.Store{
		Requests:      s,
		Offers:        s,
		Notifications: s,
		History:       s,
		Atomic:        s,
		Close:         func(context.Context) error { return nil },
	}
}

// --- requests ---

func (s *Store) CreateRequest(_ context.Context, r *entity.ResourceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[r.ID]; exists {
		return fmt.Errorf("request %s already exists", r.ID)
	}
	s.requests[r.ID] = r.Clone()
	return nil
}

func (s *Store) GetRequestByID(_ context.Context, id uuid.UUID) (*entity.ResourceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *Store) ListRequestsByRequester(_ context.Context, requesterID uuid.UUID) ([]entity.ResourceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.ResourceRequest
	for _, r := range s.requests {
		if r.RequesterID == requesterID {
			out = append(out, *r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateRequest(_ context.Context, r *entity.ResourceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRequest(r); err != nil {
		return err
	}
	s.putRequest(r)
	return nil
}

func (s *Store) DeleteRequest(_ context.Context, id uuid.UUID, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != version {
		return repository.ErrVersionConflict
	}
	delete(s.requests, id)
	return nil
}

func (s *Store) NearbyRequests(_ context.Context, q repository.RequestQuery) ([]repository.RequestHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	box := geo.Around(q.Near.Point(), q.RadiusMeters)
	var hits []geo.Hit[*entity.ResourceRequest]
	for _, r := range s.requests {
		if r.RequestType != q.RequestType || !containsStatus(q.Statuses, r.Status) {
			continue
		}
		if !r.RequiredBy.After(q.RequiredAfter) || !box.Contains(r.Location.Point()) {
			continue
		}
		d := q.Near.DistanceTo(r.Location)
		if d > q.RadiusMeters {
			continue
		}
		hits = append(hits, geo.Hit[*entity.ResourceRequest]{Item: r, Distance: d, CreatedAt: r.CreatedAt})
	}
	geo.SortNearest(hits)

	page := q.Page.Normalize()
	hits = geo.Window(hits, page.Offset, page.Limit)
	out := make([]repository.RequestHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, repository.RequestHit{Request: h.Item.Clone(), DistanceMeters: h.Distance})
	}
	return out, nil
}

// --- offers ---

func (s *Store) CreateOffer(_ context.Context, o *entity.ResourceOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.offers[o.ID]; exists {
		return fmt.Errorf("offer %s already exists", o.ID)
	}
	s.offers[o.ID] = o.Clone()
	return nil
}

func (s *Store) GetOfferByID(_ context.Context, id uuid.UUID) (*entity.ResourceOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o.Clone(), nil
}

func (s *Store) ListOffersByProvider(_ context.Context, providerID uuid.UUID) ([]entity.ResourceOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.ResourceOffer
	for _, o := range s.offers {
		if o.ProviderID == providerID {
			out = append(out, *o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateOffer(_ context.Context, o *entity.ResourceOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOffer(o); err != nil {
		return err
	}
	s.putOffer(o)
	return nil
}

func (s *Store) DeleteOffer(_ context.Context, id uuid.UUID, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.offers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != version {
		return repository.ErrVersionConflict
	}
	delete(s.offers, id)
	return nil
}

func (s *Store) NearbyOffers(_ context.Context, q repository.OfferQuery) ([]repository.OfferHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	box := geo.Around(q.Near.Point(), q.RadiusMeters)
	var hits []geo.Hit[*entity.ResourceOffer]
	for _, o := range s.offers {
		if o.ResourceType != q.ResourceType || !containsStatus(q.Statuses, o.Status) {
			continue
		}
		if o.QuantityRemaining < q.MinRemaining || !o.AvailableUntil.After(q.AvailableAfter) {
			continue
		}
		if !box.Contains(o.Location.Point()) {
			continue
		}
		d := q.Near.DistanceTo(o.Location)
		if d > q.RadiusMeters {
			continue
		}
		hits = append(hits, geo.Hit[*entity.ResourceOffer]{Item: o, Distance: d, CreatedAt: o.CreatedAt})
	}
	geo.SortNearest(hits)

	page := q.Page.Normalize()
	hits = geo.Window(hits, page.Offset, page.Limit)
	out := make([]repository.OfferHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, repository.OfferHit{Offer: h.Item.Clone(), DistanceMeters: h.Distance})
	}
	return out, nil
}

func (s *Store) ListExpirableOffers(_ context.Context, now time.Time, limit int) ([]entity.ResourceOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.ResourceOffer
	for _, o := range s.offers {
		if !o.Status.IsTerminal() && o.Elapsed(now) {
			out = append(out, *o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvailableUntil.Before(out[j].AvailableUntil) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateAggregates checks every version before writing anything.
func (s *Store) UpdateAggregates(_ context.Context, requests []*entity.ResourceRequest, offers []*entity.ResourceOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range requests {
		if err := s.checkRequest(r); err != nil {
			return err
		}
	}
	for _, o := range offers {
		if err := s.checkOffer(o); err != nil {
			return err
		}
	}
	for _, r := range requests {
		s.putRequest(r)
	}
	for _, o := range offers {
		s.putOffer(o)
	}
	return nil
}

func (s *Store) checkRequest(r *entity.ResourceRequest) error {
	cur, ok := s.requests[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != r.Version {
		return repository.ErrVersionConflict
	}
	return nil
}

func (s *Store) putRequest(r *entity.ResourceRequest) {
	r.Version++
	s.requests[r.ID] = r.Clone()
}

func (s *Store) checkOffer(o *entity.ResourceOffer) error {
	cur, ok := s.offers[o.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != o.Version {
		return repository.ErrVersionConflict
	}
	return nil
}

func (s *Store) putOffer(o *entity.ResourceOffer) {
	o.Version++
	s.offers[o.ID] = o.Clone()
}

// --- notifications ---

func (s *Store) SaveNotification(_ context.Context, n *entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	c := *n
	s.notifications = append(s.notifications, &c)
	return nil
}

func (s *Store) ListNotifications(_ context.Context, recipientID uuid.UUID, unreadOnly bool, page entity.Page) ([]entity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, *n)
	}
	page = page.Normalize()
	return geo.Window(out, page.Offset, page.Limit), nil
}

func (s *Store) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkRead(_ context.Context, recipientID uuid.UUID, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			if !n.IsRead {
				n.IsRead = true
				n.ReadAt = &at
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) MarkAllRead(_ context.Context, recipientID uuid.UUID, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

// --- history ---

func (s *Store) SaveHistoryStatus(_ context.Context, h *entity.HistoryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	s.history = append(s.history, *h)
	return nil
}

func (s *Store) ListHistoryByRequest(_ context.Context, requestID uuid.UUID) ([]entity.HistoryStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.HistoryStatus
	for _, h := range s.history {
		if h.RequestID == requestID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) ListHistoryByOffer(_ context.Context, offerID uuid.UUID) ([]entity.HistoryStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.HistoryStatus
	for _, h := range s.history {
		if h.OfferID == offerID {
			out = append(out, h)
		}
	}
	return out, nil
}

// containsStatus treats an empty set as "any status".
func containsStatus[S comparable](set []S, s S) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
