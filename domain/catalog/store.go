package catalog

import (
	"context"

	"github.com/reqmatch/reqmatch/domain/repository"
)

// ProductStore defines persistence operations for products.
type ProductStore interface {
	Find(ctx context.Context, options ...repository.Option) ([]Product, error)
	FindOne(ctx context.Context, options ...repository.Option) (Product, error)
	Save(ctx context.Context, product Product) (Product, error)
}

// FeatureStore defines persistence operations for features.
type FeatureStore interface {
	Find(ctx context.Context, options ...repository.Option) ([]Feature, error)
	FindOne(ctx context.Context, options ...repository.Option) (Feature, error)
	Save(ctx context.Context, feature Feature) (Feature, error)
}

// FeatureEmbeddingStore defines persistence operations for feature embeddings.
type FeatureEmbeddingStore interface {
	// SaveAll upserts embeddings, replacing any existing vector for the same
	// (feature, model) pair.
	SaveAll(ctx context.Context, embeddings []FeatureEmbedding) error

	// Find retrieves embeddings matching the given options.
	Find(ctx context.Context, options ...repository.Option) ([]FeatureEmbedding, error)

	// DeleteBy removes embeddings matching the given options.
	DeleteBy(ctx context.Context, options ...repository.Option) error
}
