package types

import "time"

// TestIssue describes a single problem detected during a test.
// Issues are immutable once created; a result may carry many of them.
type TestIssue struct {
	Component string        `json:"component" yaml:"component"`
	Severity  IssueSeverity `json:"severity" yaml:"severity"`
	Message   string        `json:"message" yaml:"message"`
	Action    string        `json:"action,omitempty" yaml:"action,omitempty"`
}

// TestResult captures the outcome of a single workload execution.
type TestResult struct {
	Name     string         `json:"name"`
	Status   TestStatus     `json:"status"`
	Score    int            `json:"score"` // 0-100
	Duration time.Duration  `json:"duration"`
	Metrics  map[string]any `json:"metrics"`
	Issues   []TestIssue    `json:"issues"`
}

// HasCriticalIssue returns true if any issue carries Critical severity.
func (r *TestResult) HasCriticalIssue() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
