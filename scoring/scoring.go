// Package scoring turns raw workload metrics into a score, a status and a
// list of issues. Scoring is deterministic and pure: the same final metrics
// always produce the same verdict.
package scoring

import "github.com/sysforge/burnin/types"

// Scorecard accumulates capped penalties against a starting score of 100
// and collects the issues that justify them. All arithmetic saturates: the
// score is clamped to [0,100] and can never wrap.
type Scorecard struct {
	score      int
	forcedFail bool
	issues     []types.TestIssue
}

// NewScorecard starts a card at the perfect score.
func NewScorecard() *Scorecard {
	return &Scorecard{score: 100}
}

// Penalize subtracts points from the score, with the individual penalty
// capped at cap before subtraction. Negative inputs are ignored.
func (s *Scorecard) Penalize(points, cap int) {
	if points < 0 {
		points = 0
	}
	if cap >= 0 && points > cap {
		points = cap
	}
	s.score -= points
	if s.score < 0 {
		s.score = 0
	}
}

// ForceFail pins the score to exactly 0 and the status to Failed,
// regardless of any other metric. Used for absolute verdicts such as memory
// bit-pattern mismatches, which are not scored proportionally.
func (s *Scorecard) ForceFail() {
	s.forcedFail = true
	s.score = 0
}

// AddIssue records a detected issue.
func (s *Scorecard) AddIssue(component string, severity types.IssueSeverity, message, action string) {
	s.issues = append(s.issues, types.TestIssue{
		Component: component,
		Severity:  severity,
		Message:   message,
		Action:    action,
	})
}

// Score returns the current clamped score.
func (s *Scorecard) Score() int {
	if s.score < 0 {
		return 0
	}
	if s.score > 100 {
		return 100
	}
	return s.score
}

// Issues returns the recorded issues in insertion order.
func (s *Scorecard) Issues() []types.TestIssue {
	return s.issues
}

// Status derives the terminal status: Failed if the card was force-failed
// or any issue is Critical, Completed otherwise.
func (s *Scorecard) Status() types.TestStatus {
	if s.forcedFail {
		return types.TestStatusFailed
	}
	for _, issue := range s.issues {
		if issue.Severity == types.SeverityCritical {
			return types.TestStatusFailed
		}
	}
	return types.TestStatusCompleted
}

// LinearPenalty scales how far value overshoots a warning threshold into
// the warning-to-critical range, producing 0..max points. Values at or
// below warn cost nothing; values at or beyond crit cost max.
func LinearPenalty(value, warn, crit float64, max int) int {
	if value <= warn || crit <= warn {
		return 0
	}
	frac := (value - warn) / (crit - warn)
	if frac > 1 {
		frac = 1
	}
	return int(frac * float64(max))
}

// ShortfallPenalty charges one point per unit the measured value falls
// below target, scaled by perUnit, capped at max. Used for sub-target
// bandwidth and IOPS checks.
func ShortfallPenalty(value, target, perUnit float64, max int) int {
	if value >= target || perUnit <= 0 {
		return 0
	}
	points := int((target - value) / perUnit)
	if points > max {
		points = max
	}
	if points < 0 {
		points = 0
	}
	return points
}
