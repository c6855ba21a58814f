package types

// TestStatus represents the possible states of a test execution.
// Pending and Running are transient bookkeeping states; only Completed,
// Failed, Skipped and Partial appear in persisted results.
type TestStatus string

const (
	TestStatusPending   TestStatus = "pending"
	TestStatusRunning   TestStatus = "running"
	TestStatusCompleted TestStatus = "completed"
	TestStatusFailed    TestStatus = "failed"
	TestStatusSkipped   TestStatus = "skipped"
	TestStatusPartial   TestStatus = "partial"
)

// IsFailure returns true if the status indicates a failed test.
func (s TestStatus) IsFailure() bool {
	return s == TestStatusFailed
}

// IsTerminal returns true for statuses that are valid in a finished result.
func (s TestStatus) IsTerminal() bool {
	switch s {
	case TestStatusCompleted, TestStatusFailed, TestStatusSkipped, TestStatusPartial:
		return true
	default:
		return false
	}
}

// IssueSeverity classifies how serious a detected issue is.
// Severities are totally ordered: Low < Medium < High < Critical.
type IssueSeverity int

const (
	SeverityLow IssueSeverity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s IssueSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
