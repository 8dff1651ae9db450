package embedding

import (
	"context"

	"github.com/reqmatch/reqmatch/domain/repository"
)

// ConfigStore defines persistence operations for model configurations.
type ConfigStore interface {
	// Find retrieves configurations matching the given options.
	Find(ctx context.Context, options ...repository.Option) ([]ModelConfig, error)

	// FindOne retrieves a single configuration matching the given options.
	FindOne(ctx context.Context, options ...repository.Option) (ModelConfig, error)

	// Save inserts or updates a configuration, returning it with its ID set.
	Save(ctx context.Context, config ModelConfig) (ModelConfig, error)

	// SetDefault marks the given configuration as the default, clearing the
	// flag on every other configuration in the same transaction.
	SetDefault(ctx context.Context, id int64) error
}
