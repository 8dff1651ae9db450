package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/database"
)

// RequirementStore implements matching.RequirementStore using GORM.
type RequirementStore struct {
	database.Repository[matching.Requirement, RequirementModel]
}

// NewRequirementStore creates a new RequirementStore.
func NewRequirementStore(db database.Database) RequirementStore {
	return RequirementStore{
		Repository: database.NewRepository[matching.Requirement, RequirementModel](db, RequirementMapper{}, "requirement"),
	}
}

// FindOne retrieves a single requirement, translating the generic not-found
// error to the domain sentinel.
func (s RequirementStore) FindOne(ctx context.Context, options ...repository.Option) (matching.Requirement, error) {
	req, err := s.Repository.FindOne(ctx, options...)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return matching.Requirement{}, matching.ErrRequirementNotFound
		}
		return matching.Requirement{}, err
	}
	return req, nil
}

// Save creates or updates a requirement.
func (s RequirementStore) Save(ctx context.Context, requirement matching.Requirement) (matching.Requirement, error) {
	model := s.Mapper().ToModel(requirement)
	now := time.Now().UTC()

	if model.ID == 0 {
		model.CreatedAt = now
		model.UpdatedAt = now
		if result := s.DB(ctx).Create(&model); result.Error != nil {
			return matching.Requirement{}, fmt.Errorf("create requirement: %w", result.Error)
		}
	} else {
		model.UpdatedAt = now
		if result := s.DB(ctx).Save(&model); result.Error != nil {
			return matching.Requirement{}, fmt.Errorf("update requirement: %w", result.Error)
		}
	}

	return s.Mapper().ToDomain(model), nil
}

// UpdateStatus persists only the status column.
func (s RequirementStore) UpdateStatus(ctx context.Context, id int64, status matching.RequirementStatus) error {
	result := s.DB(ctx).Model(&RequirementModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return fmt.Errorf("update requirement status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return matching.ErrRequirementNotFound
	}
	return nil
}

var _ matching.RequirementStore = RequirementStore{}
