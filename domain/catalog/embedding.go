package catalog

import "time"

// FeatureEmbedding is a vector attached to a (feature, model) pair. There is
// at most one per pair; re-indexing a feature under the same model replaces
// the vector. Embeddings are deleted when the feature or its owning product
// is deactivated.
type FeatureEmbedding struct {
	id        int64
	featureID int64
	modelName string
	vector    []float64
	createdAt time.Time
	updatedAt time.Time
}

// NewFeatureEmbedding creates an embedding for a (feature, model) pair.
func NewFeatureEmbedding(featureID int64, modelName string, vector []float64) FeatureEmbedding {
	now := time.Now().UTC()
	return FeatureEmbedding{
		featureID: featureID,
		modelName: modelName,
		vector:    copyVector(vector),
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructFeatureEmbedding rebuilds an embedding from persistence.
func ReconstructFeatureEmbedding(id, featureID int64, modelName string, vector []float64, createdAt, updatedAt time.Time) FeatureEmbedding {
	return FeatureEmbedding{
		id:        id,
		featureID: featureID,
		modelName: modelName,
		vector:    copyVector(vector),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the embedding ID.
func (e FeatureEmbedding) ID() int64 { return e.id }

// FeatureID returns the owning feature's ID.
func (e FeatureEmbedding) FeatureID() int64 { return e.featureID }

// ModelName returns the model configuration name the vector was computed under.
func (e FeatureEmbedding) ModelName() string { return e.modelName }

// Vector returns a copy of the embedding vector.
func (e FeatureEmbedding) Vector() []float64 { return copyVector(e.vector) }

// Dimension returns the vector dimension.
func (e FeatureEmbedding) Dimension() int { return len(e.vector) }

// CreatedAt returns the creation time.
func (e FeatureEmbedding) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns the last update time.
func (e FeatureEmbedding) UpdatedAt() time.Time { return e.updatedAt }

func copyVector(v []float64) []float64 {
	if v == nil {
		return nil
	}
	cp := make([]float64, len(v))
	copy(cp, v)
	return cp
}
