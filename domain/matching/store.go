package matching

import (
	"context"

	"github.com/reqmatch/reqmatch/domain/repository"
	"gorm.io/gorm"
)

// RequirementStore defines persistence operations for requirements.
type RequirementStore interface {
	Find(ctx context.Context, options ...repository.Option) ([]Requirement, error)
	FindOne(ctx context.Context, options ...repository.Option) (Requirement, error)
	Save(ctx context.Context, requirement Requirement) (Requirement, error)

	// UpdateStatus persists only the status column. Used by the matching
	// service for transitions that must survive a failed run transaction.
	UpdateStatus(ctx context.Context, id int64, status RequirementStatus) error
}

// ItemStore defines persistence operations for requirement items.
type ItemStore interface {
	// Find retrieves items matching the options, ordered by item order.
	Find(ctx context.Context, options ...repository.Option) ([]Item, error)

	// SaveAll inserts items in bulk, preserving order indexes.
	SaveAll(ctx context.Context, items []Item) ([]Item, error)

	// SaveVector persists an item's cached embedding.
	SaveVector(ctx context.Context, itemID int64, vector []float64, modelName string) error

	// Count returns the number of items matching the options.
	Count(ctx context.Context, options ...repository.Option) (int64, error)
}

// RecordStore defines persistence operations for match records.
type RecordStore interface {
	Find(ctx context.Context, options ...repository.Option) ([]MatchRecord, error)
	Count(ctx context.Context, options ...repository.Option) (int64, error)

	// DeleteTx removes records matching the options inside an open
	// transaction.
	DeleteTx(tx *gorm.DB, options ...repository.Option) error

	// SaveAllTx inserts records inside an open transaction.
	SaveAllTx(tx *gorm.DB, records []MatchRecord) error

	// ResultRows loads records for a requirement joined with item and
	// feature context, similarity-descending.
	ResultRows(ctx context.Context, requirementID int64) ([]ResultRow, []MatchStatus, error)
}
