package runner

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysforge/burnin/interrupt"
	"github.com/sysforge/burnin/types"
)

// fakeTest is a scriptable BurnInTest for exercising the runner.
type fakeTest struct {
	name    string
	execErr error
	cleanup error
	score   int
	delay   time.Duration

	mu         sync.Mutex
	executed   int
	cleanups   int
	onExecute  func()
	execOrder  *[]string
	orderMutex *sync.Mutex
}

func (f *fakeTest) Name() string { return f.name }

func (f *fakeTest) DetectHardware() (*types.HardwareSnapshot, error) {
	return &types.HardwareSnapshot{}, nil
}

func (f *fakeTest) EstimateDuration(cfg *types.TestConfig) time.Duration {
	return cfg.Duration
}

func (f *fakeTest) Execute(cfg *types.TestConfig) (*types.TestResult, error) {
	f.mu.Lock()
	f.executed++
	f.mu.Unlock()

	if f.execOrder != nil {
		f.orderMutex.Lock()
		*f.execOrder = append(*f.execOrder, f.name)
		f.orderMutex.Unlock()
	}
	if f.onExecute != nil {
		f.onExecute()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.execErr != nil {
		return nil, f.execErr
	}
	return &types.TestResult{
		Name:     f.name,
		Status:   types.TestStatusCompleted,
		Score:    f.score,
		Duration: time.Second,
		Metrics:  map[string]any{},
	}, nil
}

func (f *fakeTest) Cleanup() error {
	f.mu.Lock()
	f.cleanups++
	f.mu.Unlock()
	return f.cleanup
}

func (f *fakeTest) executions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executed
}

func (f *fakeTest) cleanupCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleanups
}

// noSignal is an Installer that never fires, for deterministic tests.
func noSignal(*interrupt.Token) error { return nil }

func sequentialConfig() *types.TestConfig {
	cfg := types.DefaultConfig()
	// Disabling memory forces the sequential path regardless of test names.
	cfg.MemoryEnabled = false
	return cfg
}

func TestRunnerNew_Validation(t *testing.T) {
	_, err := New(Config{TestConfig: types.DefaultConfig()})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindConfigError))

	_, err = New(Config{Tests: []types.BurnInTest{&fakeTest{name: "storage_io"}}})
	require.Error(t, err)
}

func TestRunnerRun_SequentialOrder(t *testing.T) {
	var order []string
	var mu sync.Mutex
	a := &fakeTest{name: "storage_io", score: 90, execOrder: &order, orderMutex: &mu}
	b := &fakeTest{name: "network", score: 80, execOrder: &order, orderMutex: &mu}
	c := &fakeTest{name: "thermal_monitor", score: 100, execOrder: &order, orderMutex: &mu}

	r, err := New(Config{
		Tests:      []types.BurnInTest{a, b, c},
		TestConfig: sequentialConfig(),
		Installer:  noSignal,
	})
	require.NoError(t, err)

	suite, err := r.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"storage_io", "network", "thermal_monitor"}, order)
	assert.Len(t, suite.Results, 3)
	assert.Equal(t, StateCompleted, r.State())
	assert.NotEmpty(t, suite.RunID)
}

func TestRunnerRun_InterruptStopsSequential(t *testing.T) {
	var r *Runner

	first := &fakeTest{name: "storage_io", score: 90}
	// Interrupt from inside the first test; the second must never start.
	first.onExecute = func() { r.Token().Interrupt() }
	second := &fakeTest{name: "network", score: 80}

	r, err := New(Config{
		Tests:      []types.BurnInTest{first, second},
		TestConfig: sequentialConfig(),
		Installer:  noSignal,
	})
	require.NoError(t, err)

	suite, err := r.Run()
	require.NoError(t, err)

	assert.Len(t, suite.Results, 1)
	assert.Equal(t, 0, second.executions())
	assert.Equal(t, StateInterrupted, r.State())
}

func TestRunnerRun_FailureSynthesis(t *testing.T) {
	failing := &fakeTest{name: "storage_io", execErr: errors.New("disk full")}

	r, err := New(Config{
		Tests:      []types.BurnInTest{failing},
		TestConfig: sequentialConfig(),
		Installer:  noSignal,
	})
	require.NoError(t, err)

	suite, err := r.Run()
	require.NoError(t, err)

	require.Len(t, suite.Results, 1)
	result := suite.Results[0]
	assert.Equal(t, types.TestStatusFailed, result.Status)
	assert.Equal(t, 0, result.Score)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, types.SeverityCritical, result.Issues[0].Severity)
	assert.Contains(t, result.Issues[0].Message, "disk full")
	assert.Equal(t, "Check system logs for details", result.Issues[0].Action)
	assert.Equal(t, types.TestStatusFailed, suite.OverallStatus)
}

func TestRunnerRun_CleanupAlwaysRuns(t *testing.T) {
	ok := &fakeTest{name: "storage_io", score: 100}
	failing := &fakeTest{name: "network", execErr: errors.New("boom")}

	r, err := New(Config{
		Tests:      []types.BurnInTest{ok, failing},
		TestConfig: sequentialConfig(),
		Installer:  noSignal,
	})
	require.NoError(t, err)

	_, err = r.Run()
	require.NoError(t, err)

	assert.Equal(t, 1, ok.cleanupCalls())
	assert.Equal(t, 1, failing.cleanupCalls())
}

func TestRunnerRun_CleanupErrorIsWarning(t *testing.T) {
	messy := &fakeTest{name: "storage_io", score: 95, cleanup: errors.New("leftover file")}

	r, err := New(Config{
		Tests:      []types.BurnInTest{messy},
		TestConfig: sequentialConfig(),
		Installer:  noSignal,
	})
	require.NoError(t, err)

	suite, err := r.Run()
	require.NoError(t, err)

	// Cleanup failure demotes to a warning; the result keeps its verdict.
	require.Len(t, suite.Results, 1)
	assert.Equal(t, types.TestStatusCompleted, suite.Results[0].Status)
	assert.Equal(t, 95, suite.Results[0].Score)
}

func TestRunnerRun_ParallelGroup(t *testing.T) {
	cpu := &fakeTest{name: "cpu_stress", score: 90, delay: 20 * time.Millisecond}
	mem := &fakeTest{name: "memory_validation", score: 85, delay: 20 * time.Millisecond}
	storage := &fakeTest{name: "storage_io", score: 100}

	r, err := New(Config{
		Tests:      []types.BurnInTest{cpu, mem, storage},
		TestConfig: types.DefaultConfig(),
		Installer:  noSignal,
	})
	require.NoError(t, err)

	suite, err := r.Run()
	require.NoError(t, err)

	assert.Len(t, suite.Results, 3)
	assert.Equal(t, 1, cpu.executions())
	assert.Equal(t, 1, mem.executions())
	assert.Equal(t, 1, storage.executions())
}

func TestRunnerRun_InstallerFailureIsFatal(t *testing.T) {
	r, err := New(Config{
		Tests:      []types.BurnInTest{&fakeTest{name: "storage_io"}},
		TestConfig: sequentialConfig(),
		Installer:  func(*interrupt.Token) error { return errors.New("no signal support") },
	})
	require.NoError(t, err)

	suite, err := r.Run()
	require.Error(t, err)
	assert.Nil(t, suite)
	assert.True(t, types.IsKind(err, types.KindUnexpectedError))
}

func TestInConcurrentGroup(t *testing.T) {
	assert.True(t, InConcurrentGroup("cpu_stress"))
	assert.True(t, InConcurrentGroup("memory_validation"))
	assert.True(t, InConcurrentGroup("cpu"))
	assert.False(t, InConcurrentGroup("storage_io"))
	assert.False(t, InConcurrentGroup("network"))
	assert.False(t, InConcurrentGroup("thermal_monitor"))
}
