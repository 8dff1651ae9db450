package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/internal/database"
)

// ProductStore implements catalog.ProductStore using GORM.
type ProductStore struct {
	database.Repository[catalog.Product, ProductModel]
}

// NewProductStore creates a new ProductStore.
func NewProductStore(db database.Database) ProductStore {
	return ProductStore{
		Repository: database.NewRepository[catalog.Product, ProductModel](db, ProductMapper{}, "product"),
	}
}

// Save creates or updates a product.
func (s ProductStore) Save(ctx context.Context, product catalog.Product) (catalog.Product, error) {
	model := s.Mapper().ToModel(product)
	now := time.Now().UTC()

	if model.ID == 0 {
		model.CreatedAt = now
		model.UpdatedAt = now
		if result := s.DB(ctx).Create(&model); result.Error != nil {
			return catalog.Product{}, fmt.Errorf("create product: %w", result.Error)
		}
	} else {
		model.UpdatedAt = now
		if result := s.DB(ctx).Save(&model); result.Error != nil {
			return catalog.Product{}, fmt.Errorf("update product: %w", result.Error)
		}
	}

	return s.Mapper().ToDomain(model), nil
}

var _ catalog.ProductStore = ProductStore{}

// FeatureStore implements catalog.FeatureStore using GORM.
type FeatureStore struct {
	database.Repository[catalog.Feature, FeatureModel]
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(db database.Database) FeatureStore {
	return FeatureStore{
		Repository: database.NewRepository[catalog.Feature, FeatureModel](db, FeatureMapper{}, "feature"),
	}
}

// Save creates or updates a feature.
func (s FeatureStore) Save(ctx context.Context, feature catalog.Feature) (catalog.Feature, error) {
	model := s.Mapper().ToModel(feature)
	now := time.Now().UTC()

	if model.ID == 0 {
		model.CreatedAt = now
		model.UpdatedAt = now
		if result := s.DB(ctx).Create(&model); result.Error != nil {
			return catalog.Feature{}, fmt.Errorf("create feature: %w", result.Error)
		}
	} else {
		model.UpdatedAt = now
		if result := s.DB(ctx).Save(&model); result.Error != nil {
			return catalog.Feature{}, fmt.Errorf("update feature: %w", result.Error)
		}
	}

	return s.Mapper().ToDomain(model), nil
}

var _ catalog.FeatureStore = FeatureStore{}
