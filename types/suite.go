package types

import "time"

// TestSuite aggregates the results of one burn-in run.
// It is created when the run starts, grows by appending results, and is
// finalized exactly once to compute the overall score and status.
type TestSuite struct {
	RunID         string            `json:"run_id"`
	Results       []TestResult      `json:"results"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	OverallScore  int               `json:"overall_score"`
	OverallStatus TestStatus        `json:"overall_status"`
	Duration      time.Duration     `json:"duration"`
	System        *HardwareSnapshot `json:"system,omitempty"`
}

// NewTestSuite creates an empty suite with the clock started.
func NewTestSuite(runID string) *TestSuite {
	return &TestSuite{
		RunID:         runID,
		Results:       make([]TestResult, 0),
		StartTime:     time.Now(),
		OverallStatus: TestStatusPending,
	}
}

// Append adds a result to the suite.
func (s *TestSuite) Append(result TestResult) {
	s.Results = append(s.Results, result)
}

// Finalize computes the overall score and status from the collected results
// and stamps the end time. An empty suite finalizes to score 0 and Failed so
// that "no tests ran" can never be reported as success. The overall score is
// weighted by each result's wall-clock duration; when all durations are zero
// it falls back to the unweighted mean. Calling Finalize again on an
// unchanged suite yields the same score and status.
func (s *TestSuite) Finalize() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)

	if len(s.Results) == 0 {
		s.OverallScore = 0
		s.OverallStatus = TestStatusFailed
		return
	}

	var totalSecs int64
	for _, r := range s.Results {
		totalSecs += int64(r.Duration.Seconds())
	}

	if totalSecs == 0 {
		var sum int
		for _, r := range s.Results {
			sum += r.Score
		}
		s.OverallScore = sum / len(s.Results)
	} else {
		var weighted int64
		for _, r := range s.Results {
			weighted += int64(r.Score) * int64(r.Duration.Seconds())
		}
		s.OverallScore = int(weighted / totalSecs)
	}

	s.OverallStatus = TestStatusCompleted
	for _, r := range s.Results {
		if r.Status == TestStatusFailed {
			s.OverallStatus = TestStatusFailed
			return
		}
	}
	for _, r := range s.Results {
		if r.Status == TestStatusPartial {
			s.OverallStatus = TestStatusPartial
			return
		}
	}
}

// Stats summarizes result counts per terminal status.
type SuiteStats struct {
	Total     int
	Completed int
	Failed    int
	Skipped   int
	Partial   int
}

// Stats returns per-status counts over the suite's results.
func (s *TestSuite) Stats() SuiteStats {
	stats := SuiteStats{Total: len(s.Results)}
	for _, r := range s.Results {
		switch r.Status {
		case TestStatusCompleted:
			stats.Completed++
		case TestStatusFailed:
			stats.Failed++
		case TestStatusSkipped:
			stats.Skipped++
		case TestStatusPartial:
			stats.Partial++
		}
	}
	return stats
}
