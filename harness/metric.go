package harness

import "sync"

// Each metric below guards its own state with its own mutex. Workers must
// acquire, mutate and release one metric at a time and never nest metric
// locks, which keeps lock ordering trivial and contention bounded by the
// flush cadence.

// Counter is a mutex-guarded monotonically increasing counter.
type Counter struct {
	mu sync.Mutex
	v  uint64
}

// Add increments the counter by n.
func (c *Counter) Add(n uint64) {
	c.mu.Lock()
	c.v += n
	c.mu.Unlock()
}

// Value returns the current count.
func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// MinMaxAvg tracks the minimum, maximum and running average of a sampled
// quantity such as temperature.
type MinMaxAvg struct {
	mu    sync.Mutex
	min   float64
	max   float64
	sum   float64
	count uint64
}

// Observe records one sample.
func (m *MinMaxAvg) Observe(v float64) {
	m.mu.Lock()
	if m.count == 0 || v < m.min {
		m.min = v
	}
	if m.count == 0 || v > m.max {
		m.max = v
	}
	m.sum += v
	m.count++
	m.mu.Unlock()
}

// Min returns the smallest observed sample, or 0 with no samples.
func (m *MinMaxAvg) Min() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.min
}

// Max returns the largest observed sample, or 0 with no samples.
func (m *MinMaxAvg) Max() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.max
}

// Avg returns the mean of all samples, or 0 with no samples.
func (m *MinMaxAvg) Avg() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Count returns the number of samples observed.
func (m *MinMaxAvg) Count() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}
