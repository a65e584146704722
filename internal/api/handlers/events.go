package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/openlobby/registry/internal/service"
)

// EventsHandler streams registry events over WebSocket
type EventsHandler struct {
	events *service.Broadcaster
	logger *slog.Logger
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(events *service.Broadcaster, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		events: events,
		logger: logger,
	}
}

// Stream handles GET /v1/events. Every publish to the registry is pushed to
// the client as a JSON message until it disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// In production, configure InsecureSkipVerify: false and proper OriginPatterns
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to upgrade to WebSocket", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	h.logger.InfoContext(r.Context(), "Event stream client connected", "remote_addr", r.RemoteAddr)

	// No client messages are expected; CloseRead cancels the context when
	// the peer goes away.
	ctx := conn.CloseRead(r.Context())

	ch, cancel := h.events.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			h.logger.InfoContext(r.Context(), "Event stream client disconnected", "remote_addr", r.RemoteAddr)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, _ := json.Marshal(ev)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}
