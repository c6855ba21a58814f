package reporters

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sysforge/burnin/types"
)

// JSONReporter emits machine-readable output: one pretty-printed document
// for the finalized suite, plus per-test event objects in verbose mode.
// With an output path set, only the suite document is written (to the
// file); events still go to the event writer.
type JSONReporter struct {
	outputPath string
	events     io.Writer
	verbose    bool
}

// NewJSONReporter creates a JSON reporter. outputPath may be empty, in
// which case the suite document is written to events as well.
func NewJSONReporter(outputPath string, events io.Writer, verbose bool) *JSONReporter {
	return &JSONReporter{outputPath: outputPath, events: events, verbose: verbose}
}

func (r *JSONReporter) ReportStart(cfg *types.TestConfig) {
	if !r.verbose {
		return
	}
	r.emit(map[string]any{
		"event":     "run_start",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"duration_seconds": int(cfg.Duration.Seconds()),
			"stress_level":     cfg.StressLevel,
			"threads":          cfg.Threads,
			"components":       cfg.EnabledDomains(),
		},
	})
}

func (r *JSONReporter) ReportTestStart(name string) {
	if !r.verbose {
		return
	}
	r.emit(map[string]any{"event": "test_start", "name": name})
}

func (r *JSONReporter) ReportTestResult(result *types.TestResult) {
	if !r.verbose {
		return
	}
	r.emit(map[string]any{"event": "test_result", "result": result})
}

func (r *JSONReporter) ReportSuiteResult(suite *types.TestSuite) {
	data, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode suite result: %v\n", err)
		return
	}

	if r.outputPath != "" {
		if err := os.WriteFile(r.outputPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write suite result to %s: %v\n", r.outputPath, err)
		}
		return
	}
	fmt.Fprintln(r.events, string(data))
}

func (r *JSONReporter) ReportWarning(msg string) {
	r.emit(map[string]any{"event": "warning", "message": msg})
}

func (r *JSONReporter) ReportInfo(msg string) {
	if !r.verbose {
		return
	}
	r.emit(map[string]any{"event": "info", "message": msg})
}

func (r *JSONReporter) emit(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintln(r.events, string(data))
}
