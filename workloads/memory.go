package workloads

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/sirupsen/logrus"

	"github.com/sysforge/burnin/hardware"
	"github.com/sysforge/burnin/harness"
	"github.com/sysforge/burnin/scoring"
	"github.com/sysforge/burnin/types"
)

// memoryPatterns are the classic alternating bit patterns swept across the
// test buffer: all-zeros, all-ones, 10101010 and 01010101.
var memoryPatterns = [4]byte{0x00, 0xFF, 0xAA, 0x55}

// randomAccessSamples bounds the index table used by the random access
// phase so a multi-gigabyte buffer does not double its footprint.
const randomAccessSamples = 1 << 20

// MemoryValidationTest exercises a configured fraction of available memory
// with pattern sweeps, random access, walking bits and a concurrent
// read/write phase. Any verified bit mismatch is an absolute failure.
type MemoryValidationTest struct {
	log logrus.FieldLogger

	// testSize overrides the probed size when nonzero. Used by tests.
	testSize int
}

func NewMemoryValidationTest(log logrus.FieldLogger) *MemoryValidationTest {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MemoryValidationTest{log: log}
}

func (t *MemoryValidationTest) Name() string {
	return "memory_validation"
}

func (t *MemoryValidationTest) DetectHardware() (*types.HardwareSnapshot, error) {
	return hardware.Probe()
}

func (t *MemoryValidationTest) EstimateDuration(cfg *types.TestConfig) time.Duration {
	return cfg.Duration
}

func (t *MemoryValidationTest) Execute(cfg *types.TestConfig) (*types.TestResult, error) {
	start := time.Now()

	size := t.testSize
	if size == 0 {
		vm, err := mem.VirtualMemory()
		if err != nil {
			return nil, types.NewHardwareFailure("unable to query memory information")
		}
		size = int(float64(vm.Available) * float64(cfg.MemoryTestPercent) / 100.0)
	}
	if size < 1<<20 {
		size = 1 << 20
	}

	t.log.WithField("bytes", size).Info("starting memory validation test")

	buf := make([]byte, size)

	var errorCount uint64

	seqOK, bandwidthMBps := sequentialSweep(buf)
	randOK, latencyNs := randomAccess(buf)
	walkErrors := walkingBits(buf)
	errorCount += walkErrors

	threadErrors := t.multithreadedPhase(buf, cfg)
	errorCount += threadErrors

	card := memoryScorecard(errorCount, bandwidthMBps, seqOK, randOK, walkErrors, threadErrors)

	return &types.TestResult{
		Name:     t.Name(),
		Status:   card.Status(),
		Score:    card.Score(),
		Duration: time.Since(start),
		Metrics: map[string]any{
			"memory_errors":   errorCount,
			"bandwidth_mbps":  bandwidthMBps,
			"latency_ns":      latencyNs,
			"test_size_bytes": size,
		},
		Issues: card.Issues(),
	}, nil
}

func (t *MemoryValidationTest) Cleanup() error {
	return nil
}

// memoryScorecard derives the verdict from the phase outcomes. Any verified
// error is an absolute failure: score 0, status Failed, critical issue.
func memoryScorecard(errorCount uint64, bandwidthMBps float64, seqOK, randOK bool, walkErrors, threadErrors uint64) *scoring.Scorecard {
	card := scoring.NewScorecard()
	if errorCount > 0 {
		card.ForceFail()
		card.AddIssue("memory", types.SeverityCritical,
			fmt.Sprintf("Memory errors detected (%d errors)", errorCount),
			"Run extended memory diagnostics and consider replacing memory modules")
	}
	if bandwidthMBps < 1000.0 {
		card.Penalize(int((1000.0-bandwidthMBps)/100.0), 20)
	}

	if !seqOK {
		card.AddIssue("memory", types.SeverityHigh,
			"Sequential memory access test failed",
			"Check for memory corruption or hardware issues")
	}
	if !randOK {
		card.AddIssue("memory", types.SeverityMedium,
			"Random memory access test failed",
			"Check for memory addressing issues")
	}
	if walkErrors > 0 {
		card.AddIssue("memory", types.SeverityHigh,
			"Walking bit pattern test failed",
			"Check for stuck bits in memory")
	}
	if threadErrors > 0 {
		card.AddIssue("memory", types.SeverityMedium,
			"Multi-threaded memory access test failed",
			"Check for memory contention issues")
	}
	return card
}

// sequentialSweep writes and verifies each pattern across the whole buffer,
// reporting the combined read+write bandwidth of the final sweep.
func sequentialSweep(buf []byte) (ok bool, bandwidthMBps float64) {
	ok = true
	for _, pattern := range memoryPatterns {
		writeStart := time.Now()
		for i := range buf {
			buf[i] = pattern
		}
		writeTime := time.Since(writeStart)

		readStart := time.Now()
		for i := range buf {
			if buf[i] != pattern {
				ok = false
				break
			}
		}
		readTime := time.Since(readStart)

		total := writeTime + readTime
		if total > 0 {
			bandwidthMBps = (float64(len(buf)) * 2 / 1e6) / total.Seconds()
		}
	}
	return ok, bandwidthMBps
}

// randomAccess writes and verifies each pattern at a fixed-seed random set
// of offsets, reporting the per-operation latency of the final sweep.
func randomAccess(buf []byte) (ok bool, latencyNs float64) {
	samples := len(buf)
	if samples > randomAccessSamples {
		samples = randomAccessSamples
	}

	rng := rand.New(rand.NewSource(42))
	indices := make([]int, samples)
	for i := range indices {
		indices[i] = rng.Intn(len(buf))
	}

	ok = true
	for _, pattern := range memoryPatterns {
		start := time.Now()
		for _, idx := range indices {
			buf[idx] = pattern
		}
		for _, idx := range indices {
			if buf[idx] != pattern {
				ok = false
				break
			}
		}
		elapsed := time.Since(start)
		latencyNs = float64(elapsed.Nanoseconds()) / float64(samples*2)
	}
	return ok, latencyNs
}

// walkingBits walks a single set bit, then a single clear bit, through every
// byte of the buffer and counts verification mismatches.
func walkingBits(buf []byte) uint64 {
	var errors uint64
	for bit := 0; bit < 8; bit++ {
		pattern := byte(1 << bit)
		for i := range buf {
			buf[i] = pattern
		}
		for i := range buf {
			if buf[i] != pattern {
				errors++
			}
		}
	}
	for bit := 0; bit < 8; bit++ {
		pattern := ^byte(1<<bit) & 0xFF
		for i := range buf {
			buf[i] = pattern
		}
		for i := range buf {
			if buf[i] != pattern {
				errors++
			}
		}
	}
	return errors
}

// multithreadedPhase has each worker repeatedly fill and verify its own
// disjoint slice of the buffer for a quarter of the configured duration.
// Slices never overlap, so workers share no state beyond the error counter.
func (t *MemoryValidationTest) multithreadedPhase(buf []byte, cfg *types.TestConfig) uint64 {
	workers := harness.WorkerCount(cfg.Threads)
	if workers > len(buf) {
		workers = 1
	}
	chunkSize := len(buf) / workers

	var errors harness.Counter

	chunk := func(id int) {
		lo := id * chunkSize
		hi := lo + chunkSize
		if id == workers-1 {
			hi = len(buf)
		}
		slice := buf[lo:hi]

		seed := byte(id*31 + 7)
		for i := range slice {
			slice[i] = byte(i)*seed + seed
		}
		for i := range slice {
			if slice[i] != byte(i)*seed+seed {
				errors.Add(1)
			}
		}
	}

	harness.Run(harness.Config{
		Duration: cfg.Duration / 4,
		Workers:  workers,
	}, chunk, nil)

	return errors.Value()
}
