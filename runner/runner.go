// Package runner orchestrates burn-in test execution: it decides between
// sequential and grouped-parallel execution, owns the run's cancellation
// token, converts workload errors into failed results, and aggregates
// everything into a finalized suite.
package runner

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sysforge/burnin/interrupt"
	"github.com/sysforge/burnin/metrics"
	"github.com/sysforge/burnin/reporters"
	"github.com/sysforge/burnin/types"
)

// RunState tracks the runner's lifecycle per run.
type RunState string

const (
	StateIdle        RunState = "idle"
	StateRunning     RunState = "running"
	StateCompleted   RunState = "completed"
	StateInterrupted RunState = "interrupted"
)

// Config holds everything a Runner needs for one run.
type Config struct {
	Tests      []types.BurnInTest
	TestConfig *types.TestConfig
	Reporter   reporters.Reporter
	Log        logrus.FieldLogger

	// Installer wires the run's cancellation token to an interruption
	// source. Nil selects the SIGINT/SIGTERM installer. Installation
	// failure is fatal to the run.
	Installer interrupt.Installer
}

// Runner executes a registered set of burn-in tests.
//
// Cancellation is cooperative: the token is read at loop and group
// boundaries only, so an in-flight workload iteration always finishes. A
// workload whose workers never reach a boundary (for example, blocked
// indefinitely on I/O) will stall the run; hard timeouts are out of scope
// and must be layered externally.
type Runner struct {
	tests     []types.BurnInTest
	cfg       *types.TestConfig
	reporter  reporters.Reporter
	log       logrus.FieldLogger
	installer interrupt.Installer

	token *interrupt.Token
	state RunState
}

// New validates the configuration and creates a Runner.
func New(cfg Config) (*Runner, error) {
	if len(cfg.Tests) == 0 {
		return nil, types.NewConfigError("no tests registered")
	}
	if cfg.TestConfig == nil {
		return nil, types.NewConfigError("test configuration is required")
	}
	if cfg.Reporter == nil {
		cfg.Reporter = reporters.Nop{}
	}
	if cfg.Log == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		cfg.Log = logger
	}
	installer := cfg.Installer
	if installer == nil {
		installer = interrupt.DefaultInstaller
	}

	return &Runner{
		tests:     cfg.Tests,
		cfg:       cfg.TestConfig,
		reporter:  cfg.Reporter,
		log:       cfg.Log,
		installer: installer,
		token:     interrupt.NewToken(),
		state:     StateIdle,
	}, nil
}

// Token exposes the run's cancellation token so callers can interrupt a
// run programmatically.
func (r *Runner) Token() *interrupt.Token {
	return r.token
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() RunState {
	return r.state
}

// Run executes all registered tests and returns the finalized suite.
//
// The interrupt handler is installed before any test executes; if that
// fails, no suite is produced and the error propagates. Tests run in the
// grouped-parallel mode when both the cpu and memory domains are enabled,
// sequentially otherwise. Individual test errors never abort the run.
func (r *Runner) Run() (*types.TestSuite, error) {
	if err := r.installer(r.token); err != nil {
		return nil, types.NewUnexpectedError("failed to install interrupt handler", err)
	}

	r.state = StateRunning
	suite := types.NewTestSuite(uuid.New().String())

	r.reporter.ReportStart(r.cfg)
	r.log.WithFields(logrus.Fields{
		"run_id": suite.RunID,
		"tests":  len(r.tests),
	}).Info("starting burn-in run")

	if r.cfg.CPUEnabled && r.cfg.MemoryEnabled {
		r.executeParallel(suite)
	} else {
		r.executeSequential(suite)
	}

	suite.Finalize()
	r.reporter.ReportSuiteResult(suite)
	metrics.RecordSuite(suite.RunID, string(suite.OverallStatus), suite.OverallScore, suite.Duration)

	if r.token.Interrupted() {
		r.state = StateInterrupted
	} else {
		r.state = StateCompleted
	}
	r.log.WithFields(logrus.Fields{
		"run_id": suite.RunID,
		"status": suite.OverallStatus,
		"score":  suite.OverallScore,
	}).Info("burn-in run finished")

	return suite, nil
}

// executeSequential runs every test in registration order. A set interrupt
// token stops the loop at the next boundary; it does not skip to later
// tests.
func (r *Runner) executeSequential(suite *types.TestSuite) {
	for _, test := range r.tests {
		if r.token.Interrupted() {
			r.log.Info("interrupt received, stopping sequential run")
			break
		}
		suite.Append(r.runOne(test))
	}
}

// executeParallel runs the compute/memory group as a fork-join and the
// remaining tests sequentially afterward. Compute and memory workloads
// deliberately contend for CPU and cache; storage, network and thermal
// measurements stay sequential so their timings are not skewed.
func (r *Runner) executeParallel(suite *types.TestSuite) {
	var group, rest []types.BurnInTest
	for _, test := range r.tests {
		if InConcurrentGroup(test.Name()) {
			group = append(group, test)
		} else {
			rest = append(rest, test)
		}
	}

	if len(group) > 0 {
		r.reporter.ReportInfo("Running CPU and memory tests in parallel...")

		var mu sync.Mutex
		var results []types.TestResult
		var g errgroup.Group

		for _, test := range group {
			// A test whose launch the interrupt beat contributes no
			// result at all.
			if r.token.Interrupted() {
				continue
			}
			test := test
			g.Go(func() error {
				result := r.runOne(test)
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		for _, result := range results {
			suite.Append(result)
		}
	}

	for _, test := range rest {
		if r.token.Interrupted() {
			r.log.Info("interrupt received, stopping sequential tail")
			break
		}
		suite.Append(r.runOne(test))
	}
}

// runOne executes a single test with the full failure-isolation policy:
// an Execute error becomes a synthetic Failed result, and Cleanup always
// runs exactly once afterward with failures demoted to warnings.
func (r *Runner) runOne(test types.BurnInTest) types.TestResult {
	name := test.Name()
	r.reporter.ReportTestStart(name)
	r.log.WithField("test", name).Debug("executing test")

	start := time.Now()
	var result types.TestResult
	res, err := test.Execute(r.cfg)
	if err != nil {
		r.log.WithField("test", name).WithError(err).Error("test execution failed")
		result = synthesizeFailure(name, err, time.Since(start))
	} else {
		result = *res
	}

	r.reporter.ReportTestResult(&result)

	if err := test.Cleanup(); err != nil {
		msg := fmt.Sprintf("Failed to clean up after test %s: %v", name, err)
		r.log.WithField("test", name).WithError(err).Warn("cleanup failed")
		r.reporter.ReportWarning(msg)
	}

	metrics.RecordTest(name, string(result.Status), result.Score, result.Duration)
	return result
}

// synthesizeFailure builds the Failed result the runner substitutes for a
// test whose Execute returned an error.
func synthesizeFailure(name string, err error, elapsed time.Duration) types.TestResult {
	return types.TestResult{
		Name:     name,
		Status:   types.TestStatusFailed,
		Score:    0,
		Duration: elapsed,
		Metrics:  map[string]any{},
		Issues: []types.TestIssue{{
			Component: name,
			Severity:  types.SeverityCritical,
			Message:   fmt.Sprintf("Test failed: %v", err),
			Action:    "Check system logs for details",
		}},
	}
}

// InConcurrentGroup reports whether a test belongs to the concurrently
// executed compute/memory group. The substring match on the display name
// is legacy-compatible behavior; workload names are chosen so it is exact.
func InConcurrentGroup(name string) bool {
	return strings.Contains(name, "cpu") || strings.Contains(name, "memory")
}
