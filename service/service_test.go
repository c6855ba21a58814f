package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShutdownBeforeStart covers the fast start/exit path: a run that ends
// before the servers bind must shut down cleanly, not dereference nil.
func TestShutdownBeforeStart(t *testing.T) {
	svc := New(nil)
	assert.NotPanics(t, func() { svc.Shutdown() })

	ctx := context.Background()
	var h *HealthzServer
	assert.NoError(t, h.Shutdown(ctx))
	var m *MetricsServer
	assert.NoError(t, m.Shutdown(ctx))
}

// TestHealthzHandle checks the liveness response body.
func TestHealthzHandle(t *testing.T) {
	h := NewHealthzServer("127.0.0.1:0")
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

// TestStartThenShutdown exercises the full lifecycle on ephemeral ports.
func TestStartThenShutdown(t *testing.T) {
	svc := New(nil)
	svc.Start("127.0.0.1:0")
	require.NotNil(t, svc.Healthz)
	require.NotNil(t, svc.Metrics)

	assert.NotPanics(t, func() { svc.Shutdown() })
}
