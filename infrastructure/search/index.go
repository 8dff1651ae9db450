package search

import (
	"context"

	"github.com/reqmatch/reqmatch/domain/matching"
)

// ScoredVector pairs an eligible feature vector with its similarity to a
// query.
type ScoredVector struct {
	feature    matching.FeatureVector
	similarity float64
}

// NewScoredVector creates a ScoredVector.
func NewScoredVector(feature matching.FeatureVector, similarity float64) ScoredVector {
	return ScoredVector{feature: feature, similarity: similarity}
}

// Feature returns the scored feature vector.
func (v ScoredVector) Feature() matching.FeatureVector { return v.feature }

// Similarity returns the clamped similarity in [0,1].
func (v ScoredVector) Similarity() float64 { return v.similarity }

// VectorIndex ranks stored vectors against a query without loading them all
// into process memory. Results come back sorted by similarity descending,
// ties broken by feature ID ascending, already filtered to eligible features
// and scores at or above minScore, and truncated to limit.
type VectorIndex interface {
	Search(ctx context.Context, modelName string, query []float64, limit int, minScore float64) ([]ScoredVector, error)
}

// IndexSearch finds candidates through a VectorIndex. This is the
// accelerated path used when the database can rank vectors itself.
type IndexSearch struct {
	index VectorIndex
}

// NewIndexSearch creates an IndexSearch over the given index.
func NewIndexSearch(index VectorIndex) *IndexSearch {
	return &IndexSearch{index: index}
}

// FindCandidates delegates ranking to the index.
func (s *IndexSearch) FindCandidates(
	ctx context.Context,
	modelName string,
	query []float64,
	limit int,
	minScore float64,
	thresholds matching.Thresholds,
) ([]matching.Candidate, error) {
	if limit <= 0 || len(query) == 0 {
		return []matching.Candidate{}, nil
	}

	scored, err := s.index.Search(ctx, modelName, query, limit, minScore)
	if err != nil {
		return nil, matching.NewSearchError(err)
	}

	return toCandidates(scored, thresholds), nil
}

// toCandidates classifies sorted scored vectors and assigns 1-based ranks.
func toCandidates(scored []ScoredVector, thresholds matching.Thresholds) []matching.Candidate {
	candidates := make([]matching.Candidate, len(scored))
	for i, sv := range scored {
		status := thresholds.Classify(sv.similarity)
		candidates[i] = matching.NewCandidate(sv.feature, sv.similarity, status, i+1)
	}
	return candidates
}

var _ matching.CandidateSearcher = (*IndexSearch)(nil)
