package service

import (
	"context"
	"net/http"

	"github.com/rs/cors"
)

// HealthzServer answers liveness probes while a burn-in run is in flight.
type HealthzServer struct {
	server *http.Server
}

// NewHealthzServer builds the server without binding it; Start listens.
func NewHealthzServer(addr string) *HealthzServer {
	h := &HealthzServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Handle)
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	h.server = &http.Server{
		Handler: c.Handler(mux),
		Addr:    addr,
	}
	return h
}

func (h *HealthzServer) Start() error {
	return h.server.ListenAndServe()
}

// Shutdown is safe to call on a server that was never started.
func (h *HealthzServer) Shutdown(ctx context.Context) error {
	if h == nil || h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

func (h *HealthzServer) Handle(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK")) //nolint:errcheck
}
