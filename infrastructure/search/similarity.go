// Package search implements candidate retrieval for requirement items: an
// accelerated path that delegates ranking to a vector index, and an
// exhaustive in-process scan used when no index is available. Both paths
// produce identical results for the same stored embeddings.
package search

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns 0 if the lengths differ or either vector has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Similarity computes cosine similarity clamped to [0, 1]. Match scores are
// reported on this scale; anti-correlated vectors count as no match rather
// than a negative score.
func Similarity(a, b []float64) float64 {
	sim := CosineSimilarity(a, b)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
