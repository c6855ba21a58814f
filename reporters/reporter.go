// Package reporters renders run progress and results. The runner drives a
// Reporter at fixed points (run start, per-test start/end, run end,
// non-fatal warnings) and makes no assumption about where the output goes.
package reporters

import "github.com/sysforge/burnin/types"

// Reporter receives run lifecycle events from the runner.
type Reporter interface {
	ReportStart(cfg *types.TestConfig)
	ReportTestStart(name string)
	ReportTestResult(result *types.TestResult)
	ReportSuiteResult(suite *types.TestSuite)
	ReportWarning(msg string)
	ReportInfo(msg string)
}

// Nop is a Reporter that discards everything. Useful for tests and for
// embedding when only some events matter.
type Nop struct{}

func (Nop) ReportStart(*types.TestConfig)      {}
func (Nop) ReportTestStart(string)             {}
func (Nop) ReportTestResult(*types.TestResult) {}
func (Nop) ReportSuiteResult(*types.TestSuite) {}
func (Nop) ReportWarning(string)               {}
func (Nop) ReportInfo(string)                  {}
