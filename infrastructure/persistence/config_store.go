package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/database"
)

// ConfigStore implements embedding.ConfigStore using GORM.
type ConfigStore struct {
	database.Repository[embedding.ModelConfig, EmbeddingConfigModel]
	db database.Database
}

// NewConfigStore creates a new ConfigStore.
func NewConfigStore(db database.Database) ConfigStore {
	return ConfigStore{
		Repository: database.NewRepository[embedding.ModelConfig, EmbeddingConfigModel](db, EmbeddingConfigMapper{}, "embedding config"),
		db:         db,
	}
}

// FindOne retrieves a single configuration, translating the generic
// not-found error to the domain sentinel.
func (s ConfigStore) FindOne(ctx context.Context, options ...repository.Option) (embedding.ModelConfig, error) {
	config, err := s.Repository.FindOne(ctx, options...)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return embedding.ModelConfig{}, embedding.ErrConfigNotFound
		}
		return embedding.ModelConfig{}, err
	}
	return config, nil
}

// Save creates or updates a configuration.
func (s ConfigStore) Save(ctx context.Context, config embedding.ModelConfig) (embedding.ModelConfig, error) {
	model := s.Mapper().ToModel(config)
	now := time.Now().UTC()

	if model.ID == 0 {
		model.CreatedAt = now
		model.UpdatedAt = now
		if result := s.DB(ctx).Create(&model); result.Error != nil {
			return embedding.ModelConfig{}, fmt.Errorf("create embedding config: %w", result.Error)
		}
	} else {
		model.UpdatedAt = now
		if result := s.DB(ctx).Save(&model); result.Error != nil {
			return embedding.ModelConfig{}, fmt.Errorf("update embedding config: %w", result.Error)
		}
	}

	return s.Mapper().ToDomain(model), nil
}

// SetDefault marks one configuration as the default and clears the flag on
// every other row in the same transaction.
func (s ConfigStore) SetDefault(ctx context.Context, id int64) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&EmbeddingConfigModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("look up embedding config: %w", err)
		}
		if count == 0 {
			return embedding.ErrConfigNotFound
		}

		if err := tx.Model(&EmbeddingConfigModel{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("clear default flags: %w", err)
		}

		if err := tx.Model(&EmbeddingConfigModel{}).
			Where("id = ?", id).
			Updates(map[string]any{"is_default": true, "updated_at": time.Now().UTC()}).Error; err != nil {
			return fmt.Errorf("set default flag: %w", err)
		}
		return nil
	})
}

var _ embedding.ConfigStore = ConfigStore{}
