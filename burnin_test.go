package burnin

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysforge/burnin/reporters"
	"github.com/sysforge/burnin/types"
)

func TestErrorTypes(t *testing.T) {
	rt := NewRuntimeError(errors.New("bad config"))
	assert.True(t, IsRuntimeError(rt))
	assert.False(t, IsTestFailureError(rt))
	assert.Contains(t, rt.Error(), "bad config")

	wrapped := fmt.Errorf("outer: %w", rt)
	assert.True(t, IsRuntimeError(wrapped))

	tf := NewTestFailureError("2 of 5 tests failed")
	assert.True(t, IsTestFailureError(tf))
	assert.False(t, IsRuntimeError(tf))
	assert.Contains(t, tf.Error(), "2 of 5 tests failed")

	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsTestFailureError(nil))
}

func TestRegisterWorkloads_Order(t *testing.T) {
	log := logrus.StandardLogger()

	cfg := types.DefaultConfig()
	cfg.NetworkEnabled = true
	tests := registerWorkloads(cfg, log)
	require.Len(t, tests, 5)
	assert.Equal(t, "cpu_stress", tests[0].Name())
	assert.Equal(t, "memory_validation", tests[1].Name())
	assert.Equal(t, "storage_io", tests[2].Name())
	assert.Equal(t, "network", tests[3].Name())
	assert.Equal(t, "thermal_monitor", tests[4].Name())

	cfg = types.DefaultConfig()
	cfg.CPUEnabled = false
	cfg.NetworkEnabled = false
	tests = registerWorkloads(cfg, log)
	require.Len(t, tests, 3)
	assert.Equal(t, "memory_validation", tests[0].Name())
}

func TestBuildReporter(t *testing.T) {
	r, err := buildReporter(&Config{Format: "text"})
	require.NoError(t, err)
	assert.IsType(t, &reporters.TextReporter{}, r)

	r, err = buildReporter(&Config{Format: ""})
	require.NoError(t, err)
	assert.IsType(t, &reporters.TextReporter{}, r)

	r, err = buildReporter(&Config{Format: "JSON"})
	require.NoError(t, err)
	assert.IsType(t, &reporters.JSONReporter{}, r)

	r, err = buildReporter(&Config{Format: "csv"})
	require.NoError(t, err)
	assert.IsType(t, &reporters.CSVReporter{}, r)

	_, err = buildReporter(&Config{Format: "xml"})
	require.Error(t, err)
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))

	_, err = New(&Config{})
	require.Error(t, err)

	bad := types.DefaultConfig()
	bad.StressLevel = 99
	_, err = New(&Config{TestConfig: bad})
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
}
