package workloads

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysforge/burnin/types"
)

func TestNetworkTest_SkippedWhenDisabled(t *testing.T) {
	cfg := types.DefaultConfig()
	require.False(t, cfg.NetworkEnabled)

	test := NewNetworkTest(nil)
	result, err := test.Execute(cfg)
	require.NoError(t, err)

	assert.Equal(t, types.TestStatusSkipped, result.Status)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Issues)
}

func TestNetworkTest_ExecuteAgainstLocalListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	cfg := types.DefaultConfig()
	cfg.NetworkEnabled = true
	cfg.NetworkHosts = []string{ln.Addr().String()}

	test := NewNetworkTest(nil)
	result, err := test.Execute(cfg)
	require.NoError(t, err)

	assert.Equal(t, types.TestStatusCompleted, result.Status)
	assert.Equal(t, 0.0, result.Metrics["connect_failure_percent"])
	assert.Greater(t, result.Metrics["loopback_mbps"].(float64), 0.0)
	assert.NoError(t, test.Cleanup())
}

func TestProbeConnectLatency_AllHostsUnreachable(t *testing.T) {
	// A listener closed before probing guarantees connection refusal.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, _, err = probeConnectLatency([]string{addr})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindTestExecutionError))
}

func TestLoopbackThroughput(t *testing.T) {
	mbps, err := loopbackThroughput()
	require.NoError(t, err)
	assert.Greater(t, mbps, 0.0)
}

func TestNetworkTest_EstimateDurationCapped(t *testing.T) {
	cfg := types.DefaultConfig() // 2h default
	test := NewNetworkTest(nil)
	assert.Equal(t, 10*time.Minute, test.EstimateDuration(cfg))

	cfg.Duration = time.Minute
	assert.Equal(t, time.Minute, test.EstimateDuration(cfg))
}
