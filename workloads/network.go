package workloads

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sysforge/burnin/hardware"
	"github.com/sysforge/burnin/scoring"
	"github.com/sysforge/burnin/types"
)

// defaultProbeHosts are well-known anycast resolvers used for connect
// latency when no hosts are configured.
var defaultProbeHosts = []string{
	"8.8.8.8:443",
	"1.1.1.1:443",
	"9.9.9.9:443",
}

const (
	connectTimeout    = 5 * time.Second
	connectAttempts   = 3
	loopbackTransfer  = 64 << 20 // bytes pushed through the loopback pair
	loopbackChunkSize = 64 << 10
)

// NetworkTest measures TCP connect latency against the configured probe
// hosts and local stack throughput over a loopback socket pair. The test is
// opt-in: with networking disabled in the config it reports Skipped with a
// perfect score.
type NetworkTest struct {
	log logrus.FieldLogger
}

func NewNetworkTest(log logrus.FieldLogger) *NetworkTest {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NetworkTest{log: log}
}

func (t *NetworkTest) Name() string {
	return "network"
}

func (t *NetworkTest) DetectHardware() (*types.HardwareSnapshot, error) {
	return hardware.Probe()
}

func (t *NetworkTest) EstimateDuration(cfg *types.TestConfig) time.Duration {
	if cfg.Duration < 10*time.Minute {
		return cfg.Duration
	}
	return 10 * time.Minute
}

func (t *NetworkTest) Execute(cfg *types.TestConfig) (*types.TestResult, error) {
	start := time.Now()

	// The opt-in gate lives in the workload, not only in App registration:
	// a caller that hands NetworkTest straight to the runner still gets the
	// Skipped verdict instead of unwanted traffic.
	if !cfg.NetworkEnabled {
		return &types.TestResult{
			Name:     t.Name(),
			Status:   types.TestStatusSkipped,
			Score:    100,
			Duration: 0,
			Metrics:  map[string]any{},
		}, nil
	}

	hosts := cfg.NetworkHosts
	if len(hosts) == 0 {
		hosts = defaultProbeHosts
	}

	t.log.WithField("hosts", hosts).Info("starting network test")

	latencyMs, failurePercent, err := probeConnectLatency(hosts)
	if err != nil {
		return nil, err
	}

	throughputMbps, loopErr := loopbackThroughput()
	errorCount := 0
	if loopErr != nil {
		errorCount++
		t.log.WithError(loopErr).Warn("loopback throughput measurement failed")
	}

	card := scoring.NewScorecard()
	card.Penalize(scoring.LinearPenalty(latencyMs, 100.0, 300.0, 20), 20)
	if failurePercent > 1.0 {
		card.Penalize(int((failurePercent-1.0)*5.0), 30)
	}
	card.Penalize(errorCount*5, 20)

	if latencyMs > 200.0 {
		card.AddIssue("network", types.SeverityMedium,
			fmt.Sprintf("High network latency: %.1f ms", latencyMs),
			"Check network connection and routing")
	}
	if failurePercent > 2.0 {
		card.AddIssue("network", types.SeverityHigh,
			fmt.Sprintf("High connect failure rate: %.1f%%", failurePercent),
			"Check for network congestion or hardware issues")
	}

	return &types.TestResult{
		Name:     t.Name(),
		Status:   card.Status(),
		Score:    card.Score(),
		Duration: time.Since(start),
		Metrics: map[string]any{
			"latency_ms":              latencyMs,
			"loopback_mbps":           throughputMbps,
			"connect_failure_percent": failurePercent,
			"error_count":             errorCount,
		},
		Issues: card.Issues(),
	}, nil
}

func (t *NetworkTest) Cleanup() error {
	return nil
}

// probeConnectLatency dials each host a few times and reports the mean
// connect latency and the percentage of failed attempts. Every host failing
// every attempt is an execution error, not a scored result.
func probeConnectLatency(hosts []string) (latencyMs, failurePercent float64, err error) {
	var (
		total     float64
		succeeded int
		attempts  int
	)
	for _, host := range hosts {
		for i := 0; i < connectAttempts; i++ {
			attempts++
			start := time.Now()
			conn, derr := net.DialTimeout("tcp", host, connectTimeout)
			if derr != nil {
				continue
			}
			total += time.Since(start).Seconds() * 1000.0
			succeeded++
			conn.Close()
		}
	}

	if succeeded == 0 {
		return 0, 0, types.NewTestExecutionError("failed to connect to any hosts for latency test")
	}

	latencyMs = total / float64(succeeded)
	failurePercent = float64(attempts-succeeded) / float64(attempts) * 100.0
	return latencyMs, failurePercent, nil
}

// loopbackThroughput pushes a fixed volume through a 127.0.0.1 socket pair
// and reports megabits per second. This bounds the local stack, not the NIC,
// and mainly catches gross driver or buffer misbehavior.
func loopbackThroughput() (float64, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer ln.Close()

	errCh := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			errCh <- err
			return
		}
		defer conn.Close()
		_, err = io.Copy(io.Discard, conn)
		errCh <- err
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		return 0, err
	}

	chunk := make([]byte, loopbackChunkSize)
	start := time.Now()
	var sent int
	for sent < loopbackTransfer {
		n, werr := conn.Write(chunk)
		sent += n
		if werr != nil {
			conn.Close()
			return 0, werr
		}
	}
	conn.Close()

	if err := <-errCh; err != nil {
		return 0, err
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0, nil
	}
	return float64(sent) * 8 / 1e6 / elapsed, nil
}
