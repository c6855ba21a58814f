// Package workloads implements the built-in burn-in tests: CPU stress,
// memory validation, storage I/O, network checks and thermal monitoring.
// Each workload runs on the shared harness and scores itself with the
// deterministic scoring rules.
package workloads

import (
	"fmt"
	"math"
	"time"

	gocpu "github.com/shirou/gopsutil/v4/cpu"
	"github.com/sirupsen/logrus"

	"github.com/sysforge/burnin/hardware"
	"github.com/sysforge/burnin/harness"
	"github.com/sysforge/burnin/scoring"
	"github.com/sysforge/burnin/types"
)

// CPUStressTest saturates every requested core with rotating compute
// kernels and watches for sustained throughput regressions, which on
// healthy hardware indicate thermal throttling.
type CPUStressTest struct {
	log logrus.FieldLogger
}

func NewCPUStressTest(log logrus.FieldLogger) *CPUStressTest {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CPUStressTest{log: log}
}

func (t *CPUStressTest) Name() string {
	return "cpu_stress"
}

func (t *CPUStressTest) DetectHardware() (*types.HardwareSnapshot, error) {
	return hardware.Probe()
}

func (t *CPUStressTest) EstimateDuration(cfg *types.TestConfig) time.Duration {
	return cfg.Duration
}

// cpuWorkerState holds per-worker throughput tracking. Only the owning
// worker goroutine touches its slot.
type cpuWorkerState struct {
	ops       uint64
	lastFlush time.Time
	peakRate  float64
}

func (t *CPUStressTest) Execute(cfg *types.TestConfig) (*types.TestResult, error) {
	workers := harness.WorkerCount(cfg.Threads)
	t.log.WithFields(logrus.Fields{
		"workers":  workers,
		"duration": cfg.Duration,
	}).Info("starting CPU stress test")

	var (
		opsTotal    harness.Counter
		throttling  harness.Counter
		utilSamples harness.MinMaxAvg
	)
	states := make([]cpuWorkerState, workers)
	now := time.Now()
	for i := range states {
		states[i].lastFlush = now
	}

	// Prime the percentage baseline so later samples measure the interval
	// since the previous call rather than since boot.
	_, _ = gocpu.Percent(0, false)

	chunk := func(id int) {
		switch id % 6 {
		case 0:
			states[id].ops += primeCount(10000)
		case 1:
			matrixMultiply()
			states[id].ops += 1000
		case 2:
			floatChain()
			states[id].ops += 1000
		case 3:
			integerArithmetic()
			states[id].ops += 1000
		case 4:
			branchHeavy()
			states[id].ops += 1000
		default:
			mixedKernel()
			states[id].ops += 1000
		}
	}

	flush := func(id int) {
		st := &states[id]
		elapsed := time.Since(st.lastFlush).Seconds()
		if elapsed > 0 && st.ops > 0 {
			rate := float64(st.ops) / elapsed
			// A chunk rate more than 10% below this worker's own peak is
			// counted as a throttling event. Comparing against the worker's
			// peak rather than across workers keeps the heterogeneous
			// kernels from flagging each other.
			if st.peakRate > 0 && rate < st.peakRate*0.9 {
				throttling.Add(1)
			}
			if rate > st.peakRate {
				st.peakRate = rate
			}
		}
		opsTotal.Add(st.ops)
		st.ops = 0
		st.lastFlush = time.Now()

		if id == 0 {
			if pcts, err := gocpu.Percent(0, false); err == nil && len(pcts) > 0 {
				utilSamples.Observe(pcts[0])
			}
		}
	}

	elapsed := harness.Run(harness.Config{
		Duration: cfg.Duration,
		Workers:  workers,
		Limiter:  harness.StressLimiter(cfg.StressLevel),
	}, chunk, flush)

	utilization := utilSamples.Avg()
	throttleEvents := throttling.Value()
	opsPerSec := float64(0)
	if secs := elapsed.Seconds(); secs > 0 {
		opsPerSec = float64(opsTotal.Value()) / secs
	}

	card := scoring.NewScorecard()
	card.Penalize(int(throttleEvents), 20)
	if utilSamples.Count() > 0 && utilization < 90.0 {
		card.Penalize(int((90.0-utilization)/2.0), 45)
	}

	if throttleEvents > 5 {
		card.AddIssue("cpu", types.SeverityMedium,
			fmt.Sprintf("CPU thermal throttling detected (%d events)", throttleEvents),
			"Check cooling system and airflow")
	}
	if utilSamples.Count() > 0 && utilization < 80.0 {
		card.AddIssue("cpu", types.SeverityLow,
			fmt.Sprintf("CPU utilization lower than expected (%.1f%%)", utilization),
			"Check for CPU resource limits or contention")
	}

	return &types.TestResult{
		Name:     t.Name(),
		Status:   card.Status(),
		Score:    card.Score(),
		Duration: elapsed,
		Metrics: map[string]any{
			"avg_cpu_utilization":       utilization,
			"operations_per_second":     opsPerSec,
			"thermal_throttling_events": throttleEvents,
			"workers":                   workers,
		},
		Issues: card.Issues(),
	}, nil
}

func (t *CPUStressTest) Cleanup() error {
	return nil
}

// sink defeats dead-code elimination of the compute kernels.
var sink float64

func primeCount(limit uint32) uint64 {
	var found uint64
	for n := uint32(2); n < limit; n++ {
		if isPrime(n) {
			found++
		}
	}
	return found
}

func isPrime(n uint32) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := uint32(5); i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

func matrixMultiply() {
	const size = 100
	a := make([]float64, size*size)
	b := make([]float64, size*size)
	c := make([]float64, size*size)
	for i := range a {
		a[i] = 1.0
		b[i] = 2.0
	}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			var acc float64
			for k := 0; k < size; k++ {
				acc += a[i*size+k] * b[k*size+j]
			}
			c[i*size+j] = acc
		}
	}
	sink = c[size*size-1]
}

func floatChain() {
	x := 1.0
	for i := 0; i < 100000; i++ {
		x = math.Sqrt(math.Abs(math.Log(math.Exp(math.Tan(math.Cos(math.Sin(x)))))) + 1)
	}
	sink = x
}

func integerArithmetic() {
	x := uint64(1)
	for i := 0; i < 100000; i++ {
		x = (x*7 + 3) / 2
		x -= 1
		x |= 1
	}
	sink = float64(x)
}

func branchHeavy() {
	var sum int64
	v := make([]int, 10000)
	for i := range v {
		v[i] = (i * 17) % 2
	}
	for i, b := range v {
		if b == 1 {
			sum += int64(i)
		} else {
			sum -= int64(i)
		}
	}
	sink = float64(sum)
}

func mixedKernel() {
	isPrime(9973)
	floatChain()
	integerArithmetic()
}
