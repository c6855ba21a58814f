package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysforge/burnin/types"
)

func TestScorecard_StartsPerfect(t *testing.T) {
	card := NewScorecard()
	assert.Equal(t, 100, card.Score())
	assert.Equal(t, types.TestStatusCompleted, card.Status())
	assert.Empty(t, card.Issues())
}

func TestScorecard_PenaltyCaps(t *testing.T) {
	card := NewScorecard()
	card.Penalize(37, 20)
	assert.Equal(t, 80, card.Score())

	// Negative penalties are ignored, never credited.
	card.Penalize(-10, 20)
	assert.Equal(t, 80, card.Score())
}

func TestScorecard_Saturation(t *testing.T) {
	card := NewScorecard()
	card.Penalize(70, -1)
	card.Penalize(70, -1)
	assert.Equal(t, 0, card.Score())
	assert.Equal(t, types.TestStatusCompleted, card.Status())
}

func TestScorecard_ForceFail(t *testing.T) {
	card := NewScorecard()
	card.ForceFail()
	assert.Equal(t, 0, card.Score())
	assert.Equal(t, types.TestStatusFailed, card.Status())
}

func TestScorecard_CriticalIssueFails(t *testing.T) {
	card := NewScorecard()
	card.AddIssue("thermal", types.SeverityHigh, "hot", "cool it")
	assert.Equal(t, types.TestStatusCompleted, card.Status())

	card.AddIssue("thermal", types.SeverityCritical, "on fire", "stop")
	assert.Equal(t, types.TestStatusFailed, card.Status())

	issues := card.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, "hot", issues[0].Message)
	assert.Equal(t, "on fire", issues[1].Message)
}

func TestLinearPenalty(t *testing.T) {
	// At or below the warning threshold: free.
	assert.Equal(t, 0, LinearPenalty(75, 80, 90, 30))
	assert.Equal(t, 0, LinearPenalty(80, 80, 90, 30))

	// Halfway into the warning band: half the points.
	assert.Equal(t, 15, LinearPenalty(85, 80, 90, 30))

	// At or beyond critical: the full cap.
	assert.Equal(t, 30, LinearPenalty(90, 80, 90, 30))
	assert.Equal(t, 30, LinearPenalty(120, 80, 90, 30))

	// Degenerate band costs nothing.
	assert.Equal(t, 0, LinearPenalty(100, 90, 90, 30))
}

func TestShortfallPenalty(t *testing.T) {
	// Meeting the target is free.
	assert.Equal(t, 0, ShortfallPenalty(60, 50, 5, 10))
	assert.Equal(t, 0, ShortfallPenalty(50, 50, 5, 10))

	// One point per perUnit of shortfall.
	assert.Equal(t, 4, ShortfallPenalty(30, 50, 5, 10))

	// Capped at max.
	assert.Equal(t, 10, ShortfallPenalty(0, 50, 0.5, 10))

	// Invalid perUnit is free rather than dividing by zero.
	assert.Equal(t, 0, ShortfallPenalty(30, 50, 0, 10))
}
