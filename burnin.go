// Package burnin wires configuration, hardware probing, workload
// registration, execution and reporting into one application object.
package burnin

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sysforge/burnin/hardware"
	"github.com/sysforge/burnin/interrupt"
	"github.com/sysforge/burnin/reporters"
	"github.com/sysforge/burnin/runner"
	"github.com/sysforge/burnin/types"
	"github.com/sysforge/burnin/workloads"
)

// Config carries the application-level settings on top of the per-run test
// configuration.
type Config struct {
	TestConfig *types.TestConfig
	Log        logrus.FieldLogger

	// Format selects the report output: "text", "json" or "csv".
	Format string

	// OutputPath redirects the suite report to a file for the json and csv
	// formats. Empty writes to stdout.
	OutputPath string

	Verbose bool
	Quiet   bool

	// Optimize derates the test configuration for the probed hardware
	// (virtualization, low memory) before the run starts.
	Optimize bool

	// Installer overrides the interrupt wiring. Nil selects the
	// SIGINT/SIGTERM installer.
	Installer interrupt.Installer
}

// App is a fully wired burn-in engine ready to run once.
type App struct {
	cfg      *Config
	log      logrus.FieldLogger
	reporter reporters.Reporter
	runner   *runner.Runner
	snapshot *types.HardwareSnapshot
}

// New validates the configuration, probes the hardware, registers the
// enabled workloads and builds the runner.
func New(cfg *Config) (*App, error) {
	if cfg == nil || cfg.TestConfig == nil {
		return nil, NewRuntimeError(errors.New("configuration is required"))
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	if err := cfg.TestConfig.Validate(); err != nil {
		return nil, NewRuntimeError(err)
	}

	snapshot, err := hardware.Probe()
	if err != nil {
		// Without CPU and memory facts nothing below can be trusted.
		return nil, NewRuntimeError(err)
	}

	testCfg := cfg.TestConfig
	if cfg.Optimize {
		testCfg = hardware.OptimizeConfig(snapshot, testCfg)
		log.WithFields(logrus.Fields{
			"stress_level": testCfg.StressLevel,
			"threads":      testCfg.Threads,
		}).Info("configuration adjusted for detected hardware")
	}

	reporter, err := buildReporter(cfg)
	if err != nil {
		return nil, NewRuntimeError(err)
	}

	tests := registerWorkloads(testCfg, log)
	if len(tests) == 0 {
		return nil, NewRuntimeError(errors.New("no test domains enabled"))
	}

	r, err := runner.New(runner.Config{
		Tests:      tests,
		TestConfig: testCfg,
		Reporter:   reporter,
		Log:        log,
		Installer:  cfg.Installer,
	})
	if err != nil {
		return nil, NewRuntimeError(err)
	}

	return &App{
		cfg:      cfg,
		log:      log,
		reporter: reporter,
		runner:   r,
		snapshot: snapshot,
	}, nil
}

// Snapshot returns the hardware snapshot taken when the App was built.
func (a *App) Snapshot() *types.HardwareSnapshot {
	return a.snapshot
}

// Run executes the burn-in suite once. A completed run with a failed
// overall status returns a TestFailureError so callers can map it to the
// test-failure exit code; operational problems return a RuntimeError.
func (a *App) Run() (*types.TestSuite, error) {
	suite, err := a.runner.Run()
	if err != nil {
		return nil, NewRuntimeError(err)
	}
	suite.System = a.snapshot

	if suite.OverallStatus == types.TestStatusFailed {
		stats := suite.Stats()
		return suite, NewTestFailureError(
			fmt.Sprintf("%d of %d tests failed (overall score %d)",
				stats.Failed, stats.Total, suite.OverallScore))
	}
	return suite, nil
}

// registerWorkloads builds the enabled workloads in their fixed
// registration order: cpu, memory, storage, network, thermal.
func registerWorkloads(cfg *types.TestConfig, log logrus.FieldLogger) []types.BurnInTest {
	var tests []types.BurnInTest
	if cfg.CPUEnabled {
		tests = append(tests, workloads.NewCPUStressTest(log))
	}
	if cfg.MemoryEnabled {
		tests = append(tests, workloads.NewMemoryValidationTest(log))
	}
	if cfg.StorageEnabled {
		tests = append(tests, workloads.NewStorageIOTest(log))
	}
	if cfg.NetworkEnabled {
		tests = append(tests, workloads.NewNetworkTest(log))
	}
	if cfg.ThermalEnabled {
		tests = append(tests, workloads.NewThermalMonitorTest(log))
	}
	return tests
}

func buildReporter(cfg *Config) (reporters.Reporter, error) {
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return reporters.NewTextReporter(os.Stdout, cfg.Verbose, cfg.Quiet), nil
	case "json":
		return reporters.NewJSONReporter(cfg.OutputPath, os.Stdout, cfg.Verbose), nil
	case "csv":
		return reporters.NewCSVReporter(cfg.OutputPath, os.Stdout), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}
