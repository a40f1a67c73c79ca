package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tracker-console/internal/router"
	"tracker-console/internal/tracker"
)

// EventsHandler streams ProgressUpdates to the UI over a websocket. Each
// connection gets its own bus subscription; updates are delivered in
// publish order, and a slow socket misses updates rather than stalling
// the run.
type EventsHandler struct {
	bus    *tracker.ProgressBus
	logger *zap.SugaredLogger

	upgrader websocket.Upgrader
}

type NewEventsHandlerParams struct {
	fx.In

	Bus    *tracker.ProgressBus
	Logger *zap.SugaredLogger
}

func NewEventsHandler(p NewEventsHandlerParams) *EventsHandler {
	return &EventsHandler{
		bus:    p.Bus,
		logger: p.Logger,
		upgrader: websocket.Upgrader{
			// Origin is enforced by the CORS layer on the rest of the
			// API; the socket itself only serves loopback clients.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *EventsHandler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/search/events", h.Handle)
}

func (h *EventsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("events_upgrade_failed", "err", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.bus.Subscribe(64)
	defer cancel()

	// Drain the client side so closes are noticed; the feed is one-way.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(u); err != nil {
				h.logger.Debugw("events_write_failed", "err", err)
				return
			}
		}
	}
}

var _ router.Handler = (*EventsHandler)(nil)
