package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/reqmatch/reqmatch/domain/matching"
)

// VectorSource loads the eligible feature vectors for one model: active
// features of active products with a stored embedding under that model,
// ordered by feature ID.
type VectorSource interface {
	EligibleVectors(ctx context.Context, modelName string) ([]matching.FeatureVector, error)
}

// ScanSearch finds candidates by scoring every eligible vector in process.
// It needs no database vector support and serves as the fallback when the
// accelerated index path is unavailable.
type ScanSearch struct {
	source VectorSource
	logger *slog.Logger
}

// NewScanSearch creates a ScanSearch over the given source.
func NewScanSearch(source VectorSource, logger *slog.Logger) *ScanSearch {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanSearch{source: source, logger: logger}
}

// FindCandidates scores every eligible vector against the query and returns
// the top candidates sorted by similarity descending, ties broken by feature
// ID ascending.
func (s *ScanSearch) FindCandidates(
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

	vectors, err := s.source.EligibleVectors(ctx, modelName)
	if err != nil {
		return nil, matching.NewSearchError(err)
	}

	scored := make([]ScoredVector, 0, len(vectors))
	for _, v := range vectors {
		sim := Similarity(query, v.Vector())
		if sim < minScore {
			continue
		}
		scored = append(scored, NewScoredVector(v, sim))
	}

	// Stable sort keeps the source's feature ID order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	if limit < len(scored) {
		scored = scored[:limit]
	}

	s.logger.DebugContext(ctx, "scan search completed",
		"model", modelName, "scanned", len(vectors), "returned", len(scored))

	return toCandidates(scored, thresholds), nil
}

var _ matching.CandidateSearcher = (*ScanSearch)(nil)
