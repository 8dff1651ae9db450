package search

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqmatch/reqmatch/domain/matching"
)

type staticSource struct {
	vectors []matching.FeatureVector
	err     error
}

func (s staticSource) EligibleVectors(_ context.Context, _ string) ([]matching.FeatureVector, error) {
	return s.vectors, s.err
}

// rankingIndex ranks the same vectors the way a database index would: clamped
// similarity descending, feature ID ascending, minScore filter, limit.
type rankingIndex struct {
	vectors []matching.FeatureVector
}

func (idx rankingIndex) Search(_ context.Context, _ string, query []float64, limit int, minScore float64) ([]ScoredVector, error) {
	var scored []ScoredVector
	for _, v := range idx.vectors {
		sim := Similarity(query, v.Vector())
		if sim < minScore {
			continue
		}
		scored = append(scored, NewScoredVector(v, sim))
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity() != scored[j].Similarity() {
			return scored[i].Similarity() > scored[j].Similarity()
		}
		return scored[i].Feature().FeatureID() < scored[j].Feature().FeatureID()
	})
	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

func featureVec(id int64, name string, vector []float64) matching.FeatureVector {
	return matching.NewFeatureVector(id, name, name+" description", 1, "suite", "model-a", vector)
}

func testVectors() []matching.FeatureVector {
	return []matching.FeatureVector{
		featureVec(1, "export", []float64{1, 0, 0}),
		featureVec(2, "import", []float64{0.9, 0.1, 0}),
		featureVec(3, "sync", []float64{0, 1, 0}),
		featureVec(4, "audit", []float64{-1, 0, 0}),
		featureVec(5, "export-copy", []float64{1, 0, 0}),
	}
}

func TestScanSearch_FindCandidates(t *testing.T) {
	ctx := context.Background()
	searcher := NewScanSearch(staticSource{vectors: testVectors()}, nil)
	thresholds := matching.NewThresholds(0.95, 0.5)

	candidates, err := searcher.FindCandidates(ctx, "model-a", []float64{1, 0, 0}, 3, 0, thresholds)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	// Perfect matches first, equal scores keep feature ID order.
	assert.Equal(t, int64(1), candidates[0].FeatureID())
	assert.Equal(t, int64(5), candidates[1].FeatureID())
	assert.Equal(t, int64(2), candidates[2].FeatureID())

	assert.Equal(t, matching.StatusMatched, candidates[0].Status())
	assert.Equal(t, matching.StatusMatched, candidates[1].Status())
	assert.Equal(t, matching.StatusPartialMatched, candidates[2].Status())

	for i, c := range candidates {
		assert.Equal(t, i+1, c.Rank())
	}
}

func TestScanSearch_MinScoreFilters(t *testing.T) {
	ctx := context.Background()
	searcher := NewScanSearch(staticSource{vectors: testVectors()}, nil)

	candidates, err := searcher.FindCandidates(ctx, "model-a", []float64{1, 0, 0}, 10, 0.5, matching.DefaultThresholds())
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Similarity(), 0.5)
	}
}

func TestScanSearch_AntiCorrelatedClampsToZero(t *testing.T) {
	ctx := context.Background()
	searcher := NewScanSearch(staticSource{vectors: testVectors()}, nil)

	candidates, err := searcher.FindCandidates(ctx, "model-a", []float64{-1, 0, 0}, 10, 0, matching.DefaultThresholds())
	require.NoError(t, err)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Similarity(), 0.0)
	}
}

func TestScanSearch_EmptyQueryAndLimit(t *testing.T) {
	ctx := context.Background()
	searcher := NewScanSearch(staticSource{vectors: testVectors()}, nil)
	thresholds := matching.DefaultThresholds()

	candidates, err := searcher.FindCandidates(ctx, "model-a", nil, 5, 0, thresholds)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = searcher.FindCandidates(ctx, "model-a", []float64{1, 0, 0}, 0, 0, thresholds)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestScanSearch_SourceError(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection reset")
	searcher := NewScanSearch(staticSource{err: cause}, nil)

	_, err := searcher.FindCandidates(ctx, "model-a", []float64{1}, 5, 0, matching.DefaultThresholds())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestIndexSearch_MatchesScanSearch(t *testing.T) {
	ctx := context.Background()
	vectors := testVectors()
	thresholds := matching.NewThresholds(0.9, 0.6)

	scan := NewScanSearch(staticSource{vectors: vectors}, nil)
	index := NewIndexSearch(rankingIndex{vectors: vectors})

	queries := [][]float64{
		{1, 0, 0},
		{0.5, 0.5, 0},
		{0, 0, 1},
		{-0.3, 0.7, 0.2},
	}

	for _, query := range queries {
		fromScan, err := scan.FindCandidates(ctx, "model-a", query, 3, 0.1, thresholds)
		require.NoError(t, err)
		fromIndex, err := index.FindCandidates(ctx, "model-a", query, 3, 0.1, thresholds)
		require.NoError(t, err)

		require.Len(t, fromIndex, len(fromScan))
		for i := range fromScan {
			assert.Equal(t, fromScan[i].FeatureID(), fromIndex[i].FeatureID())
			assert.InDelta(t, fromScan[i].Similarity(), fromIndex[i].Similarity(), 1e-9)
			assert.Equal(t, fromScan[i].Status(), fromIndex[i].Status())
			assert.Equal(t, fromScan[i].Rank(), fromIndex[i].Rank())
		}
	}
}
