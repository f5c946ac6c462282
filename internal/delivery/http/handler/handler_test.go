package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/realtime"
	"relief-exchange/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad quantity", service.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: request x", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not yours", service.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: already paired", service.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: offer expired", service.ErrUnprocessable), http.StatusUnprocessableEntity},
		{fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, fmt.Errorf("pq: password authentication failed"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.Len(t, c.Errors, 1)
}

func TestWriteErrorPartialFailure(t *testing.T) {
	reqID, offerID := uuid.New(), uuid.New()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, &service.PartialFailureError{
		Op:              "accept",
		RequestID:       reqID,
		OfferID:         offerID,
		Cause:           fmt.Errorf("offer write failed"),
		CompensationErr: fmt.Errorf("request undo failed"),
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "partial_failure", body.Error)
	assert.Equal(t, "accept", body.Op)
	require.NotNil(t, body.RequestID)
	require.NotNil(t, body.OfferID)
	assert.Equal(t, reqID, *body.RequestID)
	assert.Equal(t, offerID, *body.OfferID)
}

type cannedSubscriber struct {
	channels []string
	messages []realtime.Message
}

func (s *cannedSubscriber) Subscribe(_ context.Context, channels ...string) (<-chan realtime.Message, error) {
	s.channels = channels
	ch := make(chan realtime.Message, len(s.messages))
	for _, m := range s.messages {
		ch <- m
	}
	close(ch)
	return ch, nil
}

func TestStreamWritesUserEvents(t *testing.T) {
	userID := uuid.New()
	ev := entity.Event{
		Type:       entity.EventMatchAccepted,
		RequestID:  uuid.New(),
		OfferID:    uuid.New(),
		Status:     entity.MatchAccepted,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	sub := &cannedSubscriber{messages: []realtime.Message{{Channel: realtime.UserChannel(userID), Event: ev}}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/events/stream", nil)
	c.Set("user_id", userID)
	c.Set("role_name", entity.RoleRequester)

	NewEventHandler(sub, context.Background()).Stream(c)

	assert.Equal(t, []string{realtime.UserChannel(userID)}, sub.channels)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event:match_accepted")
	assert.Contains(t, w.Body.String(), ev.RequestID.String())
}

// openSubscriber hands out a channel that never closes on its own.
type openSubscriber struct{}

func (openSubscriber) Subscribe(ctx context.Context, _ ...string) (<-chan realtime.Message, error) {
	ch := make(chan realtime.Message)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func TestStreamEndsWhenServerCloses(t *testing.T) {
	closing, shutdown := context.WithCancel(context.Background())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/events/stream", nil)
	c.Set("user_id", uuid.New())
	c.Set("role_name", entity.RoleRequester)

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewEventHandler(openSubscriber{}, closing).Stream(c)
	}()

	shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream still open after shutdown")
	}
	assert.Equal(t, http.StatusOK, w.Code)
}
