package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/database"
)

// ItemStore implements matching.ItemStore using GORM.
type ItemStore struct {
	database.Repository[matching.Item, ItemModel]
}

// NewItemStore creates a new ItemStore.
func NewItemStore(db database.Database) ItemStore {
	return ItemStore{
		Repository: database.NewRepository[matching.Item, ItemModel](db, ItemMapper{}, "requirement item"),
	}
}

// Find retrieves items in submission order.
func (s ItemStore) Find(ctx context.Context, options ...repository.Option) ([]matching.Item, error) {
	options = append(options, repository.WithOrderAsc("item_order"))
	return s.Repository.Find(ctx, options...)
}

// SaveAll inserts items in bulk and returns them with IDs assigned.
func (s ItemStore) SaveAll(ctx context.Context, items []matching.Item) ([]matching.Item, error) {
	if len(items) == 0 {
		return []matching.Item{}, nil
	}

	now := time.Now().UTC()
	models := make([]ItemModel, len(items))
	for i, item := range items {
		models[i] = s.Mapper().ToModel(item)
		models[i].CreatedAt = now
		models[i].UpdatedAt = now
	}

	if result := s.DB(ctx).Create(&models); result.Error != nil {
		return nil, fmt.Errorf("create requirement items: %w", result.Error)
	}

	saved := make([]matching.Item, len(models))
	for i, model := range models {
		saved[i] = s.Mapper().ToDomain(model)
	}
	return saved, nil
}

// SaveVector persists an item's cached embedding and the model it was
// computed under.
func (s ItemStore) SaveVector(ctx context.Context, itemID int64, vector []float64, modelName string) error {
	result := s.DB(ctx).Model(&ItemModel{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"vector":       Float64Slice(vector),
			"vector_model": modelName,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("save item vector: %w", result.Error)
	}
	return nil
}

var _ matching.ItemStore = ItemStore{}
