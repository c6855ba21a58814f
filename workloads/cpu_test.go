package workloads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysforge/burnin/types"
)

func TestIsPrime(t *testing.T) {
	primes := []uint32{2, 3, 5, 7, 11, 9973}
	for _, p := range primes {
		assert.True(t, isPrime(p), "%d should be prime", p)
	}
	composites := []uint32{0, 1, 4, 9, 100, 9999}
	for _, c := range composites {
		assert.False(t, isPrime(c), "%d should not be prime", c)
	}
}

func TestPrimeCount(t *testing.T) {
	// 25 primes below 100.
	assert.Equal(t, uint64(25), primeCount(100))
}

func TestComputeKernelsDoNotPanic(t *testing.T) {
	matrixMultiply()
	floatChain()
	integerArithmetic()
	branchHeavy()
	mixedKernel()
}

func TestCPUStressTest_Execute(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Duration = 100 * time.Millisecond
	cfg.Threads = 2
	cfg.StressLevel = 10

	test := NewCPUStressTest(nil)
	assert.Equal(t, "cpu_stress", test.Name())

	result, err := test.Execute(cfg)
	require.NoError(t, err)

	assert.Equal(t, "cpu_stress", result.Name)
	assert.True(t, result.Status.IsTerminal())
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.GreaterOrEqual(t, result.Duration, 100*time.Millisecond)

	require.Contains(t, result.Metrics, "operations_per_second")
	require.Contains(t, result.Metrics, "thermal_throttling_events")
	assert.Equal(t, 2, result.Metrics["workers"])

	assert.NoError(t, test.Cleanup())
}

func TestCPUStressTest_EstimateDuration(t *testing.T) {
	cfg := types.DefaultConfig()
	assert.Equal(t, cfg.Duration, NewCPUStressTest(nil).EstimateDuration(cfg))
}
