package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestThresholds_Classify(t *testing.T) {
	thresholds := NewThresholds(0.85, 0.75)

	tests := []struct {
		name  string
		score float64
		want  MatchStatus
	}{
		{name: "well above matched", score: 0.95, want: StatusMatched},
		{name: "exactly matched", score: 0.85, want: StatusMatched},
		{name: "between tiers", score: 0.80, want: StatusPartialMatched},
		{name: "exactly partial", score: 0.75, want: StatusPartialMatched},
		{name: "just below partial", score: 0.7499, want: StatusUnmatched},
		{name: "zero", score: 0, want: StatusUnmatched},
		{name: "perfect", score: 1, want: StatusMatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, thresholds.Classify(tt.score))
		})
	}
}

func TestThresholds_ClassifyMonotonic(t *testing.T) {
	thresholds := DefaultThresholds()

	prev := StatusUnmatched
	for score := 0.0; score <= 1.0; score += 0.01 {
		status := thresholds.Classify(score)
		assert.GreaterOrEqual(t, status.Level(), prev.Level(), "score %.2f", score)
		prev = status
	}
}

func TestNewThresholds_CapsPartial(t *testing.T) {
	thresholds := NewThresholds(0.85, 0.95)

	assert.Equal(t, 0.85, thresholds.Matched())
	assert.Equal(t, 0.85, thresholds.Partial())
}

func TestThresholds_WithPartial(t *testing.T) {
	thresholds := DefaultThresholds().WithPartial(0.6)

	assert.Equal(t, DefaultMatchedThreshold, thresholds.Matched())
	assert.Equal(t, 0.6, thresholds.Partial())

	// Raising partial past matched collapses the partial tier, it never
	// overtakes the matched tier.
	capped := thresholds.WithPartial(0.99)
	assert.Equal(t, capped.Matched(), capped.Partial())
}

func TestRequirementStatus_IsStable(t *testing.T) {
	assert.True(t, StatusPending.IsStable())
	assert.True(t, StatusCompleted.IsStable())
	assert.True(t, StatusFailed.IsStable())
	assert.False(t, StatusProcessing.IsStable())
}

func TestRequirement_Transitions(t *testing.T) {
	req := NewRequirement(uuid.New(), "title", "line one\nline two", "tester")
	assert.Equal(t, StatusPending, req.Status())

	processing := req.MarkProcessing()
	assert.Equal(t, StatusProcessing, processing.Status())

	completed := processing.MarkCompleted()
	assert.Equal(t, StatusCompleted, completed.Status())

	failed := processing.MarkFailed()
	assert.Equal(t, StatusFailed, failed.Status())

	// Completed requirements can re-enter processing for a rerun.
	assert.Equal(t, StatusProcessing, completed.MarkProcessing().Status())
}
