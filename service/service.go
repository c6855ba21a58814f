package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sysforge/burnin/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"

	shutdownTimeout = 5 * time.Second
)

// Service hosts the sidecar HTTP endpoints of a burn-in run: a healthz
// probe and the prometheus metrics scrape endpoint. Both servers are
// constructed before Start returns, so Shutdown never races Start.
type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer

	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{log: log}
}

func (s *Service) Start(metricsAddr string) {
	s.log.Info("service starting")

	healthzAddr := net.JoinHostPort(HealthzHost, HealthzPort)
	s.Healthz = NewHealthzServer(healthzAddr)
	go func() {
		s.log.WithField("addr", healthzAddr).Info("starting healthz server")
		if err := s.Healthz.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("error starting healthz server")
			metrics.RecordError("error_starting_healthz_server")
		}
	}()

	if metricsAddr == "" {
		metricsAddr = net.JoinHostPort(MetricsHost, MetricsPort)
	}
	s.Metrics = NewMetricsServer(metricsAddr)
	go func() {
		s.log.WithField("addr", metricsAddr).Info("starting metrics server")
		if err := s.Metrics.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("error starting metrics server")
			metrics.RecordError("error_starting_metrics_server")
		}
	}()

	s.log.Info("service started")
}

func (s *Service) Shutdown() {
	s.log.Info("service shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	_ = s.Healthz.Shutdown(ctx)
	s.log.Info("healthz stopped")

	_ = s.Metrics.Shutdown(ctx)
	s.log.Info("metrics stopped")

	s.log.Info("service stopped")
}
