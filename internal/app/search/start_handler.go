package search

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tracker-console/internal/pkg/render"
	"tracker-console/internal/router"
	"tracker-console/internal/tracker"
)

type StartHandler struct {
	supervisor *tracker.Supervisor
	logger     *zap.SugaredLogger
}

type NewStartHandlerParams struct {
	fx.In

	Supervisor *tracker.Supervisor
	Logger     *zap.SugaredLogger
}

func NewStartHandler(p NewStartHandlerParams) *StartHandler {
	return &StartHandler{
		supervisor: p.Supervisor,
		logger:     p.Logger,
	}
}

func (h *StartHandler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/search/start", h.Handle)
}

type startResponse struct {
	// Result is null when the run ended without a match or was stopped
	// before a result line arrived.
	Result *tracker.ResultRecord `json:"result"`
}

// Handle blocks for the whole run; progress arrives out-of-band on the
// events socket while this request is in flight.
func (h *StartHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var cfg tracker.RunConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid config payload: "+err.Error())
		return
	}

	result, err := h.supervisor.Start(cfg)
	if errors.Is(err, tracker.ErrAlreadyRunning) {
		render.ChiErr(w, http.StatusConflict, err.Error())
		return
	}
	var notFound *tracker.WorkerNotFoundError
	if errors.As(err, &notFound) {
		render.ChiErr(w, http.StatusInternalServerError, notFound.Error())
		return
	}
	if err != nil {
		h.logger.Errorw("search_start_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	render.ChiJSON(w, http.StatusOK, startResponse{Result: result})
}

var _ router.Handler = (*StartHandler)(nil)
