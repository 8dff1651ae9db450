package service

import (
	"context"
	"fmt"

	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/config"
	"github.com/reqmatch/reqmatch/internal/log"
)

// CatalogService indexes catalog features: it encodes each feature's text
// under the active model and stores the vectors that candidate search runs
// against.
type CatalogService struct {
	products   catalog.ProductStore
	features   catalog.FeatureStore
	embeddings catalog.FeatureEmbeddingStore
	registry   *Registry
	config     config.AppConfig
	logger     *log.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(
	products catalog.ProductStore,
	features catalog.FeatureStore,
	embeddings catalog.FeatureEmbeddingStore,
	registry *Registry,
	cfg config.AppConfig,
	logger *log.Logger,
) *CatalogService {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogService{
		products:   products,
		features:   features,
		embeddings: embeddings,
		registry:   registry,
		config:     cfg,
		logger:     logger,
	}
}

// IndexFeatures (re)computes embeddings for every active feature of every
// active product under the default model. Existing vectors for the same
// (feature, model) pair are replaced. Returns the number of features
// indexed.
func (s *CatalogService) IndexFeatures(ctx context.Context) (int, error) {
	provider, cfg, err := s.registry.Default(ctx)
	if err != nil {
		return 0, err
	}

	products, err := s.products.Find(ctx, repository.WithActive())
	if err != nil {
		return 0, err
	}

	var features []catalog.Feature
	for _, product := range products {
		fs, err := s.features.Find(ctx, repository.WithProductID(product.ID()), repository.WithActive())
		if err != nil {
			return 0, err
		}
		features = append(features, fs...)
	}
	if len(features) == 0 {
		return 0, nil
	}

	batchSize := s.config.BatchSize()
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}

	indexed := 0
	for start := 0; start < len(features); start += batchSize {
		end := start + batchSize
		if end > len(features) {
			end = len(features)
		}
		batch := features[start:end]

		texts := make([]string, len(batch))
		for i, f := range batch {
			texts[i] = f.EmbeddingText()
		}

		vectors, err := provider.Encode(ctx, texts)
		if err != nil {
			return indexed, err
		}

		embeddings := make([]catalog.FeatureEmbedding, len(batch))
		for i, f := range batch {
			if err := checkDimension(vectors[i], cfg); err != nil {
				return indexed, fmt.Errorf("feature %d: %w", f.ID(), err)
			}
			embeddings[i] = catalog.NewFeatureEmbedding(f.ID(), cfg.Name(), vectors[i])
		}
		if err := s.embeddings.SaveAll(ctx, embeddings); err != nil {
			return indexed, err
		}
		indexed += len(batch)
	}

	s.logger.InfoContext(ctx, "catalog features indexed",
		"model", cfg.Name(), "features", indexed)
	return indexed, nil
}

// IndexFeature (re)computes the embedding for a single feature.
func (s *CatalogService) IndexFeature(ctx context.Context, featureID int64) error {
	provider, cfg, err := s.registry.Default(ctx)
	if err != nil {
		return err
	}

	feature, err := s.features.FindOne(ctx, repository.WithID(featureID))
	if err != nil {
		return err
	}

	vector, err := provider.EncodeOne(ctx, feature.EmbeddingText())
	if err != nil {
		return err
	}
	if err := checkDimension(vector, cfg); err != nil {
		return fmt.Errorf("feature %d: %w", feature.ID(), err)
	}

	return s.embeddings.SaveAll(ctx, []catalog.FeatureEmbedding{
		catalog.NewFeatureEmbedding(feature.ID(), cfg.Name(), vector),
	})
}

// checkDimension rejects vectors whose length differs from the configured
// dimension before they hit storage. A zero configured dimension disables
// the check.
func checkDimension(vector []float64, cfg embedding.ModelConfig) error {
	if dim := cfg.Dimension(); dim > 0 && len(vector) != dim {
		return fmt.Errorf("%w: got %d values, configured dimension is %d",
			embedding.ErrDimensionMismatch, len(vector), dim)
	}
	return nil
}
