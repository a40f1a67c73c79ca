package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tracker-console/internal/pkg/render"
	"tracker-console/internal/router"
	"tracker-console/internal/tracker"
)

type StopHandler struct {
	supervisor *tracker.Supervisor
	logger     *zap.SugaredLogger
}

type NewStopHandlerParams struct {
	fx.In

	Supervisor *tracker.Supervisor
	Logger     *zap.SugaredLogger
}

func NewStopHandler(p NewStopHandlerParams) *StopHandler {
	return &StopHandler{
		supervisor: p.Supervisor,
		logger:     p.Logger,
	}
}

func (h *StopHandler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/search/stop", h.Handle)
}

// Handle is idempotent: stopping with no active run is still a 200.
func (h *StopHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.supervisor.Stop()
	h.logger.Infow("search_stop_requested")
	render.ChiJSON(w, http.StatusOK, map[string]bool{"stopped": true})
}

var _ router.Handler = (*StopHandler)(nil)
