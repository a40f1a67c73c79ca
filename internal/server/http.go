package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tracker-console/config"
)

func NewHTTPServer(cfg config.Config, mux *chi.Mux) *http.Server {
	return &http.Server{
		// Control surface for a local UI only; never bind externally.
		Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.AppPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		// No read/write timeouts: the start request blocks for the whole
		// run and the events socket stays open across runs.
		IdleTimeout: 60 * time.Second,
	}
}
