package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"ebookstore/internal/admin-api/events"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	bus *events.Bus
}

func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

func (h *EventsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stream", h.Stream)
}

// Stream pushes entity-change events to the dashboard over SSE. The
// subscription is released as soon as the client goes away.
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	ch, unsubscribe := h.bus.Subscribe(ctx)
	defer unsubscribe()

	c.Status(http.StatusOK)
	c.Stream(func(w io.Writer) bool {
		select {
		case e, ok := <-ch:
			if !ok {
				return false
			}
			data, err := json.Marshal(e)
			if err != nil {
				return true
			}
			c.SSEvent("change", string(data))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
