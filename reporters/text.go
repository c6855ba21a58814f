package reporters

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sysforge/burnin/types"
)

// TextReporter renders human-readable console output, with an optional
// verbose mode that prints per-test metrics and a quiet mode that prints
// only the final table.
type TextReporter struct {
	out     io.Writer
	verbose bool
	quiet   bool
}

// NewTextReporter creates a text reporter writing to out.
func NewTextReporter(out io.Writer, verbose, quiet bool) *TextReporter {
	return &TextReporter{out: out, verbose: verbose, quiet: quiet}
}

func (r *TextReporter) ReportStart(cfg *types.TestConfig) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "BURN-IN TEST STARTING\n")
	fmt.Fprintf(r.out, "Started: %s\n", time.Now().Format("2006-01-02 15:04:05 MST"))
	if r.verbose {
		fmt.Fprintf(r.out, "  Duration: %s\n", cfg.Duration)
		fmt.Fprintf(r.out, "  Stress level: %d/10\n", cfg.StressLevel)
		if cfg.Threads == 0 {
			fmt.Fprintf(r.out, "  Threads: auto\n")
		} else {
			fmt.Fprintf(r.out, "  Threads: %d\n", cfg.Threads)
		}
		fmt.Fprintf(r.out, "  Components: %v\n", cfg.EnabledDomains())
	}
	fmt.Fprintln(r.out)
}

func (r *TextReporter) ReportTestStart(name string) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "Testing %s...\n", name)
}

func (r *TextReporter) ReportTestResult(result *types.TestResult) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "Test %s: %s (score %d/100, %s)\n",
		result.Name, statusLabel(result.Status), result.Score, formatDuration(result.Duration))

	if r.verbose && len(result.Metrics) > 0 {
		keys := make([]string, 0, len(result.Metrics))
		for k := range result.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.out, "  %s: %v\n", k, result.Metrics[k])
		}
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(r.out, "  [%s] %s", issue.Severity, issue.Message)
		if issue.Action != "" {
			fmt.Fprintf(r.out, " — %s", issue.Action)
		}
		fmt.Fprintln(r.out)
	}
}

func (r *TextReporter) ReportSuiteResult(suite *types.TestSuite) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("Burn-In Results (%s)", formatDuration(suite.Duration)))
	t.AppendHeader(table.Row{"Test", "Status", "Score", "Duration", "Issues"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Score", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Issues", Align: text.AlignRight},
	})

	for _, result := range suite.Results {
		t.AppendRow(table.Row{
			result.Name,
			statusLabel(result.Status),
			fmt.Sprintf("%d", result.Score),
			formatDuration(result.Duration),
			len(result.Issues),
		})
	}

	t.AppendFooter(table.Row{
		"OVERALL",
		statusLabel(suite.OverallStatus),
		fmt.Sprintf("%d", suite.OverallScore),
		formatDuration(suite.Duration),
		"",
	})

	switch suite.OverallStatus {
	case types.TestStatusCompleted:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case types.TestStatusPartial:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.Render()
}

func (r *TextReporter) ReportWarning(msg string) {
	fmt.Fprintf(r.out, "WARNING: %s\n", msg)
}

func (r *TextReporter) ReportInfo(msg string) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, msg)
}

func statusLabel(status types.TestStatus) string {
	switch status {
	case types.TestStatusCompleted:
		return "✓ PASS"
	case types.TestStatusFailed:
		return "✗ FAIL"
	case types.TestStatusPartial:
		return "⚠ PARTIAL"
	case types.TestStatusSkipped:
		return "- SKIPPED"
	default:
		return string(status)
	}
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
