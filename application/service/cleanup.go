package service

import (
	"context"

	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/log"
)

// CleanupService deactivates catalog entries and removes their embeddings.
// The cascade is explicit: deactivating a product walks its features and
// deletes every stored vector, so deactivated entries can never surface as
// search candidates through a stale embedding.
type CleanupService struct {
	products   catalog.ProductStore
	features   catalog.FeatureStore
	embeddings catalog.FeatureEmbeddingStore
	logger     *log.Logger
}

// NewCleanupService creates a CleanupService.
func NewCleanupService(
	products catalog.ProductStore,
	features catalog.FeatureStore,
	embeddings catalog.FeatureEmbeddingStore,
	logger *log.Logger,
) *CleanupService {
	if logger == nil {
		logger = log.Default()
	}
	return &CleanupService{
		products:   products,
		features:   features,
		embeddings: embeddings,
		logger:     logger,
	}
}

// DeactivateFeature deactivates one feature and deletes its embeddings
// across all models.
func (s *CleanupService) DeactivateFeature(ctx context.Context, featureID int64) error {
	feature, err := s.features.FindOne(ctx, repository.WithID(featureID))
	if err != nil {
		return err
	}

	if _, err := s.features.Save(ctx, feature.Deactivate()); err != nil {
		return err
	}

	if err := s.embeddings.DeleteBy(ctx, repository.WithFeatureID(featureID)); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "feature deactivated", "feature_id", featureID)
	return nil
}

// DeactivateProduct deactivates a product, deactivates all of its features,
// and deletes every embedding those features own.
func (s *CleanupService) DeactivateProduct(ctx context.Context, productID int64) error {
	product, err := s.products.FindOne(ctx, repository.WithID(productID))
	if err != nil {
		return err
	}

	if _, err := s.products.Save(ctx, product.Deactivate()); err != nil {
		return err
	}

	features, err := s.features.Find(ctx, repository.WithProductID(productID))
	if err != nil {
		return err
	}

	featureIDs := make([]int64, 0, len(features))
	for _, feature := range features {
		if feature.Active() {
			if _, err := s.features.Save(ctx, feature.Deactivate()); err != nil {
				return err
			}
		}
		featureIDs = append(featureIDs, feature.ID())
	}

	if len(featureIDs) > 0 {
		if err := s.embeddings.DeleteBy(ctx, repository.WithFeatureIDIn(featureIDs)); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "product deactivated",
		"product_id", productID, "features", len(featureIDs))
	return nil
}
