// Package harness implements the duration-bounded concurrent execution
// skeleton shared by the stress workloads: a timer goroutine that flips a
// shared running flag after the configured duration, N worker goroutines
// that loop a workload chunk while the flag holds, and a full join before
// control returns to the caller.
//
// The deadline is soft. Workers observe the flag at chunk boundaries only,
// so a chunk blocked indefinitely (for example on I/O) stalls the join;
// the harness never kills a worker.
package harness

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultFlushInterval bounds how often workers fold their local counters
// into the shared metrics.
const DefaultFlushInterval = time.Second

// ChunkFunc performs one bounded unit of stress work. The worker ID is
// stable for the run and usable for work partitioning (rotating workload
// subtypes, disjoint buffer ranges).
type ChunkFunc func(workerID int)

// FlushFunc folds a worker's local counters into the shared metrics. It is
// called at the flush cadence and once more after the loop exits, from the
// worker's own goroutine.
type FlushFunc func(workerID int)

// Config parameterizes one harness run.
type Config struct {
	// Duration is the soft deadline after which workers stop at their next
	// chunk boundary.
	Duration time.Duration

	// Workers is the fan-out width. Zero means one worker per logical CPU.
	Workers int

	// FlushInterval overrides DefaultFlushInterval when positive.
	FlushInterval time.Duration

	// Limiter optionally paces chunk execution across all workers. Nil
	// runs unthrottled.
	Limiter *rate.Limiter
}

// WorkerCount resolves the configured fan-out width: the explicit thread
// count when nonzero, otherwise the logical core count, never below one.
func WorkerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes the harness and blocks until the timer goroutine and every
// worker have exited. The returned duration is the measured wall-clock time
// of the run.
func Run(cfg Config, chunk ChunkFunc, flush FlushFunc) time.Duration {
	workers := WorkerCount(cfg.Workers)
	flushEvery := cfg.FlushInterval
	if flushEvery <= 0 {
		flushEvery = DefaultFlushInterval
	}

	var running atomic.Bool
	running.Store(true)

	start := time.Now()

	// Local soft deadline, independent of any outer interrupt flag.
	var timerWG sync.WaitGroup
	timerWG.Add(1)
	go func() {
		defer timerWG.Done()
		time.Sleep(cfg.Duration)
		running.Store(false)
	}()

	var workerWG sync.WaitGroup
	for id := 0; id < workers; id++ {
		workerWG.Add(1)
		go func(id int) {
			defer workerWG.Done()

			lastFlush := time.Now()
			for running.Load() {
				if cfg.Limiter != nil {
					_ = cfg.Limiter.Wait(context.Background())
				}
				chunk(id)

				if time.Since(lastFlush) >= flushEvery {
					if flush != nil {
						flush(id)
					}
					lastFlush = time.Now()
				}
			}
			// Trailing flush so work done since the last cadence tick is
			// not lost.
			if flush != nil {
				flush(id)
			}
		}(id)
	}

	// The join is the synchronization barrier that makes final metric
	// reads deterministic with respect to the flag having gone false.
	workerWG.Wait()
	timerWG.Wait()

	return time.Since(start)
}

// StressLimiter builds a pacing limiter for the given stress level (1-10).
// Level 10 runs unthrottled and returns nil; lower levels bound the shared
// chunk rate so the workload leaves proportional headroom.
func StressLimiter(level int) *rate.Limiter {
	if level >= 10 || level < 1 {
		return nil
	}
	perSec := rate.Limit(20 * level)
	return rate.NewLimiter(perSec, level)
}
