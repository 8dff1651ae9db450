package matching

import "context"

// Candidate is a feature returned by search as a possible match for an item,
// ranked within its item's result list.
type Candidate struct {
	featureID          int64
	featureName        string
	featureDescription string
	productID          int64
	productName        string
	modelName          string
	similarity         float64
	status             MatchStatus
	rank               int
}

// NewCandidate creates a Candidate.
func NewCandidate(fv FeatureVector, similarity float64, status MatchStatus, rank int) Candidate {
	return Candidate{
		featureID:          fv.featureID,
		featureName:        fv.featureName,
		featureDescription: fv.featureDescription,
		productID:          fv.productID,
		productName:        fv.productName,
		modelName:          fv.modelName,
		similarity:         similarity,
		status:             status,
		rank:               rank,
	}
}

// FeatureID returns the candidate feature's ID.
func (c Candidate) FeatureID() int64 { return c.featureID }

// FeatureName returns the candidate feature's name.
func (c Candidate) FeatureName() string { return c.featureName }

// FeatureDescription returns the candidate feature's description.
func (c Candidate) FeatureDescription() string { return c.featureDescription }

// ProductID returns the owning product's ID.
func (c Candidate) ProductID() int64 { return c.productID }

// ProductName returns the owning product's name.
func (c Candidate) ProductName() string { return c.productName }

// ModelName returns the model the stored embedding was computed under.
func (c Candidate) ModelName() string { return c.modelName }

// Similarity returns the clamped cosine similarity in [0,1].
func (c Candidate) Similarity() float64 { return c.similarity }

// Status returns the classification of the similarity score.
func (c Candidate) Status() MatchStatus { return c.status }

// Rank returns the 1-based rank within the item's result list.
func (c Candidate) Rank() int { return c.rank }

// Metadata returns the raw candidate payload persisted alongside the match
// record.
func (c Candidate) Metadata() map[string]any {
	return map[string]any{
		"feature_id":          c.featureID,
		"feature_name":        c.featureName,
		"feature_description": c.featureDescription,
		"product_id":          c.productID,
		"product_name":        c.productName,
		"model_name":          c.modelName,
		"similarity":          c.similarity,
		"match_status":        string(c.status),
		"rank":                c.rank,
	}
}

// FeatureVector is an eligible (feature, embedding) pair: an active feature
// of an active product with a stored vector under one model.
type FeatureVector struct {
	featureID          int64
	featureName        string
	featureDescription string
	productID          int64
	productName        string
	modelName          string
	vector             []float64
}

// NewFeatureVector creates a FeatureVector.
func NewFeatureVector(featureID int64, featureName, featureDescription string, productID int64, productName, modelName string, vector []float64) FeatureVector {
	return FeatureVector{
		featureID:          featureID,
		featureName:        featureName,
		featureDescription: featureDescription,
		productID:          productID,
		productName:        productName,
		modelName:          modelName,
		vector:             copyVector(vector),
	}
}

// FeatureID returns the feature ID.
func (v FeatureVector) FeatureID() int64 { return v.featureID }

// FeatureName returns the feature name.
func (v FeatureVector) FeatureName() string { return v.featureName }

// FeatureDescription returns the feature description.
func (v FeatureVector) FeatureDescription() string { return v.featureDescription }

// ProductID returns the owning product's ID.
func (v FeatureVector) ProductID() int64 { return v.productID }

// ProductName returns the owning product's name.
func (v FeatureVector) ProductName() string { return v.productName }

// ModelName returns the embedding's model name.
func (v FeatureVector) ModelName() string { return v.modelName }

// Vector returns a copy of the stored embedding.
func (v FeatureVector) Vector() []float64 { return copyVector(v.vector) }

// CandidateSearcher finds the top-K most similar features to a query vector,
// restricted to active features of active products.
//
// Results are sorted by similarity descending; ties preserve feature
// insertion order. Implementations must never return a partially populated
// list on error. The accelerated (index-delegated) and fallback (exhaustive
// scan) implementations are required to produce identical results for the
// same embedding snapshot.
// The model name scopes the search to embeddings computed under the
// provider configuration driving the current run.
type CandidateSearcher interface {
	FindCandidates(ctx context.Context, modelName string, query []float64, limit int, minScore float64, thresholds Thresholds) ([]Candidate, error)
}
