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

type TestConnectionHandler struct {
	prober *tracker.Prober
	logger *zap.SugaredLogger
}

type NewTestConnectionHandlerParams struct {
	fx.In

	Prober *tracker.Prober
	Logger *zap.SugaredLogger
}

func NewTestConnectionHandler(p NewTestConnectionHandlerParams) *TestConnectionHandler {
	return &TestConnectionHandler{
		prober: p.Prober,
		logger: p.Logger,
	}
}

func (h *TestConnectionHandler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/connection/test", h.Handle)
}

type testConnectionRequest struct {
	Token        string `json:"token"`
	ProxyEnabled bool   `json:"proxyEnabled"`
	ProxyHost    string `json:"proxyHost"`
	ProxyPort    int    `json:"proxyPort"`
}

type testConnectionResponse struct {
	Message string `json:"message"`
}

func (h *TestConnectionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req testConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	msg, err := h.prober.TestConnection(r.Context(), req.Token, req.ProxyEnabled, req.ProxyHost, req.ProxyPort)
	var connErr *tracker.ConnectionError
	if errors.As(err, &connErr) {
		render.ChiErr(w, http.StatusBadGateway, connErr.Detail)
		return
	}
	if err != nil {
		h.logger.Errorw("connection_test_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	render.ChiJSON(w, http.StatusOK, testConnectionResponse{Message: msg})
}

var _ router.Handler = (*TestConnectionHandler)(nil)
