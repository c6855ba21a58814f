package service

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// MetricsServer exposes the prometheus scrape endpoint.
type MetricsServer struct {
	server *http.Server
}

// NewMetricsServer builds the server without binding it; Start listens.
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	return &MetricsServer{
		server: &http.Server{
			Handler: c.Handler(mux),
			Addr:    addr,
		},
	}
}

func (m *MetricsServer) Start() error {
	return m.server.ListenAndServe()
}

// Shutdown is safe to call on a server that was never started.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if m == nil || m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
