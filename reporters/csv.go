package reporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sysforge/burnin/types"
)

// CSVReporter writes the finalized suite as CSV rows, one per test result.
// Per-test progress events are not rendered.
type CSVReporter struct {
	outputPath string
	out        io.Writer
}

// NewCSVReporter creates a CSV reporter. With an empty outputPath the rows
// are written to out.
func NewCSVReporter(outputPath string, out io.Writer) *CSVReporter {
	return &CSVReporter{outputPath: outputPath, out: out}
}

func (r *CSVReporter) ReportStart(*types.TestConfig)      {}
func (r *CSVReporter) ReportTestStart(string)             {}
func (r *CSVReporter) ReportTestResult(*types.TestResult) {}
func (r *CSVReporter) ReportInfo(string)                  {}

func (r *CSVReporter) ReportWarning(msg string) {
	fmt.Fprintf(os.Stderr, "WARNING: %s\n", msg)
}

func (r *CSVReporter) ReportSuiteResult(suite *types.TestSuite) {
	var target io.Writer = r.out
	if r.outputPath != "" {
		f, err := os.Create(r.outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create CSV output %s: %v\n", r.outputPath, err)
			return
		}
		defer f.Close()
		target = f
	}

	w := csv.NewWriter(target)
	defer w.Flush()

	header := []string{"test", "status", "score", "duration_seconds", "issue_count", "issues"}
	if err := w.Write(header); err != nil {
		return
	}

	for _, result := range suite.Results {
		var issues []string
		for _, issue := range result.Issues {
			issues = append(issues, fmt.Sprintf("%s: %s", issue.Severity, issue.Message))
		}
		record := []string{
			result.Name,
			string(result.Status),
			strconv.Itoa(result.Score),
			strconv.FormatFloat(result.Duration.Seconds(), 'f', 1, 64),
			strconv.Itoa(len(result.Issues)),
			strings.Join(issues, "; "),
		}
		if err := w.Write(record); err != nil {
			return
		}
	}

	summary := []string{
		"OVERALL",
		string(suite.OverallStatus),
		strconv.Itoa(suite.OverallScore),
		strconv.FormatFloat(suite.Duration.Seconds(), 'f', 1, 64),
		"",
		"",
	}
	_ = w.Write(summary)
}
