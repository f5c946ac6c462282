package handler

import (
	"context"
	"net/http"
	"time"

	"relief-exchange/internal/realtime"

	"github.com/gin-gonic/gin"
)

const heartbeatInterval = 25 * time.Second

type EventHandler struct {
	subscriber realtime.Subscriber
	closing    context.Context
}

// NewEventHandler ends every open stream once closing is done, so a server
// shutdown does not wait on long-lived clients.
func NewEventHandler(subscriber realtime.Subscriber, closing context.Context) *EventHandler {
	if closing == nil {
		closing = context.Background()
	}
	return &EventHandler{subscriber: subscriber, closing: closing}
}

// Stream godoc
// @Summary      Server-sent events for the caller's pairings
// @Description  Each message is named after the event type and carries an entity.Event as data.
// @Tags         events
// @Produce      text/event-stream
// @Success      200
// @Security     BearerAuth
// @Router       /events/stream [get]
func (h *EventHandler) Stream(c *gin.Context) {
	actor := actorFrom(c)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stop := context.AfterFunc(h.closing, cancel)
	defer stop()

	messages, err := h.subscriber.Subscribe(ctx, realtime.UserChannel(actor.UserID))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			c.SSEvent(string(msg.Event.Type), msg.Event)
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
		}
		c.Writer.Flush()
	}
}
