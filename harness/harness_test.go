package harness

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 4, WorkerCount(4))
	assert.Equal(t, 1, WorkerCount(1))
	assert.Equal(t, runtime.NumCPU(), WorkerCount(0))
	assert.Equal(t, runtime.NumCPU(), WorkerCount(-3))
}

// TestRun_StopsAfterDuration verifies the soft deadline: workers stop at the
// next chunk boundary once the timer fires, and Run blocks for the full join.
func TestRun_StopsAfterDuration(t *testing.T) {
	var chunks Counter

	elapsed := Run(Config{
		Duration: 50 * time.Millisecond,
		Workers:  2,
	}, func(int) {
		chunks.Add(1)
		time.Sleep(time.Millisecond)
	}, nil)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Greater(t, chunks.Value(), uint64(0))

	// No goroutine may still be mutating the counter after Run returns.
	before := chunks.Value()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, chunks.Value())
}

// TestRun_WorkerIDsArePartitioned verifies each worker sees its own stable
// ID covering [0, workers).
func TestRun_WorkerIDsArePartitioned(t *testing.T) {
	const workers = 4
	var mu sync.Mutex
	seen := make(map[int]bool)

	Run(Config{
		Duration: 20 * time.Millisecond,
		Workers:  workers,
	}, func(id int) {
		mu.Lock()
		seen[id] = true
		mu.Unlock()
		time.Sleep(time.Millisecond)
	}, nil)

	require.Len(t, seen, workers)
	for id := 0; id < workers; id++ {
		assert.True(t, seen[id], "worker %d never ran", id)
	}
}

// TestRun_TrailingFlush verifies every worker flushes at least once even
// when the run is shorter than the flush cadence.
func TestRun_TrailingFlush(t *testing.T) {
	const workers = 3
	var flushes Counter

	Run(Config{
		Duration:      10 * time.Millisecond,
		Workers:       workers,
		FlushInterval: time.Hour, // cadence never fires; only the trailing flush can
	}, func(int) {
		time.Sleep(time.Millisecond)
	}, func(int) {
		flushes.Add(1)
	})

	assert.GreaterOrEqual(t, flushes.Value(), uint64(workers))
}

func TestStressLimiter(t *testing.T) {
	assert.Nil(t, StressLimiter(10))
	assert.Nil(t, StressLimiter(11))
	assert.Nil(t, StressLimiter(0))

	l := StressLimiter(5)
	require.NotNil(t, l)
	assert.Equal(t, float64(100), float64(l.Limit()))

	// Lower levels allow a lower chunk rate.
	low := StressLimiter(1)
	require.NotNil(t, low)
	assert.Less(t, float64(low.Limit()), float64(l.Limit()))
}

func TestCounter(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(1000), c.Value())
}

func TestMinMaxAvg(t *testing.T) {
	var m MinMaxAvg
	assert.Equal(t, 0.0, m.Min())
	assert.Equal(t, 0.0, m.Max())
	assert.Equal(t, 0.0, m.Avg())
	assert.Equal(t, uint64(0), m.Count())

	m.Observe(10)
	m.Observe(30)
	m.Observe(20)

	assert.Equal(t, 10.0, m.Min())
	assert.Equal(t, 30.0, m.Max())
	assert.Equal(t, 20.0, m.Avg())
	assert.Equal(t, uint64(3), m.Count())
}
