package handlers

import (
	"io"
	"time"

	"neoncut/middleware"
	"neoncut/services/booking"

	"github.com/gin-gonic/gin"
)

// EventsHandler streams booking lifecycle events as server-sent events.
type EventsHandler struct {
	Bus       *booking.EventBus
	Heartbeat time.Duration
}

func NewEventsHandler(bus *booking.EventBus) *EventsHandler {
	return &EventsHandler{Bus: bus, Heartbeat: 25 * time.Second}
}

// Stream handles GET /api/booking/events for the caller's session.
func (h *EventsHandler) Stream(c *gin.Context) {
	owner := middleware.Owner(c)
	events, unsubscribe := h.Bus.Subscribe(owner)
	defer unsubscribe()

	heartbeat := time.NewTicker(h.Heartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"owner": owner})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev)
			return true
		case t := <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": t.UTC()})
			return true
		}
	})
}
