package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recordWith(similarity float64, status MatchStatus) MatchRecord {
	fv := NewFeatureVector(1, "export", "CSV export", 1, "suite", "model-a", nil)
	return NewMatchRecord(10, 20, NewCandidate(fv, similarity, status, 1), 0.75)
}

func TestNewRunSummary(t *testing.T) {
	records := []MatchRecord{
		recordWith(0.92, StatusMatched),
		recordWith(0.80, StatusPartialMatched),
		recordWith(0.78, StatusPartialMatched),
		recordWith(0.40, StatusUnmatched),
	}

	summary := NewRunSummary(10, 3, records)

	assert.Equal(t, int64(10), summary.RequirementID())
	assert.Equal(t, 3, summary.TotalItems())
	assert.Equal(t, 4, summary.TotalMatches())
	assert.Equal(t, 1, summary.Matched())
	assert.Equal(t, 2, summary.PartialMatched())
	assert.Equal(t, 1, summary.Unmatched())
}

func TestNewStatistics(t *testing.T) {
	records := []MatchRecord{
		recordWith(0.9, StatusMatched),
		recordWith(0.8, StatusPartialMatched),
		recordWith(0.4, StatusUnmatched),
	}

	stats := NewStatistics(2, records)

	assert.Equal(t, 2, stats.TotalItems())
	assert.Equal(t, 3, stats.TotalMatches())
	assert.InDelta(t, 0.7, stats.AvgSimilarity(), 1e-9)
	assert.Equal(t, 0.9, stats.MaxSimilarity())
	assert.Equal(t, 0.4, stats.MinSimilarity())
	assert.Equal(t, 1, stats.StatusCount(StatusMatched))
	assert.Equal(t, 1, stats.StatusCount(StatusPartialMatched))
	assert.Equal(t, 1, stats.StatusCount(StatusUnmatched))
}

func TestNewStatistics_Empty(t *testing.T) {
	stats := NewStatistics(5, nil)

	assert.Equal(t, 5, stats.TotalItems())
	assert.Equal(t, 0, stats.TotalMatches())
	assert.Zero(t, stats.AvgSimilarity())
	assert.Zero(t, stats.MaxSimilarity())
	assert.Zero(t, stats.MinSimilarity())
	assert.Equal(t, 0, stats.StatusCount(StatusMatched))
}

func TestStatistics_ZeroValueStatusCount(t *testing.T) {
	var stats Statistics
	assert.Equal(t, 0, stats.StatusCount(StatusMatched))
}

func TestNewGroupedResults(t *testing.T) {
	rows := []ResultRow{
		NewResultRow(1, "item a", "export", "", "suite", 0.95, 1),
		NewResultRow(2, "item a", "import", "", "suite", 0.80, 2),
		NewResultRow(3, "item b", "sync", "", "suite", 0.50, 1),
		NewResultRow(4, "item b", "audit", "", "suite", 0.45, 2),
	}
	statuses := []MatchStatus{
		StatusMatched, StatusPartialMatched, StatusUnmatched, StatusUnmatched,
	}

	results := NewGroupedResults(rows, statuses)

	assert.Len(t, results.Matched(), 1)
	assert.Len(t, results.PartialMatched(), 1)
	assert.Len(t, results.Unmatched(), 2)
	assert.Equal(t, int64(1), results.Matched()[0].RecordID())
	// Input order, similarity descending, is preserved within each group.
	assert.Equal(t, int64(3), results.Unmatched()[0].RecordID())
	assert.Equal(t, int64(4), results.Unmatched()[1].RecordID())
}

func TestNewMatchRecord_CopiesCandidate(t *testing.T) {
	fv := NewFeatureVector(7, "sso", "Single sign-on", 3, "platform", "model-a", nil)
	candidate := NewCandidate(fv, 0.88, StatusMatched, 2)

	record := NewMatchRecord(10, 20, candidate, 0.75)

	assert.Equal(t, int64(10), record.RequirementID())
	assert.Equal(t, int64(20), record.ItemID())
	assert.Equal(t, int64(7), record.FeatureID())
	assert.Equal(t, 0.88, record.Similarity())
	assert.Equal(t, StatusMatched, record.Status())
	assert.Equal(t, 0.75, record.Threshold())
	assert.Equal(t, 2, record.Rank())
	assert.False(t, record.CreatedAt().IsZero())
}
