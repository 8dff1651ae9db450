package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/internal/database"
)

// eligibleVectorsSelect joins embeddings with their feature and product so
// the scan path sees only active features of active products. Feature ID
// order fixes the tie-break for equal similarities.
const eligibleVectorsSelect = `
SELECT f.id AS feature_id,
       f.name AS feature_name,
       f.description AS feature_description,
       p.id AS product_id,
       p.name AS product_name,
       fe.model_name AS model_name,
       fe.embedding AS embedding
FROM feature_embeddings fe
JOIN features f ON f.id = fe.feature_id
JOIN products p ON p.id = f.product_id
WHERE fe.model_name = ?
  AND f.is_active
  AND p.is_active
ORDER BY f.id ASC`

// SQLiteFeatureEmbeddingStore implements catalog.FeatureEmbeddingStore with
// JSON-encoded vectors. It also acts as the vector source for in-process
// scan search.
type SQLiteFeatureEmbeddingStore struct {
	database.Repository[catalog.FeatureEmbedding, SQLiteFeatureEmbeddingModel]
}

// NewSQLiteFeatureEmbeddingStore creates a new SQLiteFeatureEmbeddingStore.
func NewSQLiteFeatureEmbeddingStore(db database.Database) SQLiteFeatureEmbeddingStore {
	return SQLiteFeatureEmbeddingStore{
		Repository: database.NewRepository[catalog.FeatureEmbedding, SQLiteFeatureEmbeddingModel](db, SQLiteFeatureEmbeddingMapper{}, "feature embedding"),
	}
}

// SaveAll upserts embeddings, replacing the vector for existing
// (feature, model) pairs.
func (s SQLiteFeatureEmbeddingStore) SaveAll(ctx context.Context, embeddings []catalog.FeatureEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, e := range embeddings {
		model := s.Mapper().ToModel(e)
		model.UpdatedAt = now
		if model.CreatedAt.IsZero() {
			model.CreatedAt = now
		}
		err := s.DB(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feature_id"}, {Name: "model_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding", "updated_at"}),
		}).Create(&model).Error
		if err != nil {
			return fmt.Errorf("upsert feature embedding: %w", err)
		}
	}
	return nil
}

// EligibleVectors loads the searchable vectors for one model.
func (s SQLiteFeatureEmbeddingStore) EligibleVectors(ctx context.Context, modelName string) ([]matching.FeatureVector, error) {
	var rows []struct {
		FeatureID          int64        `gorm:"column:feature_id"`
		FeatureName        string       `gorm:"column:feature_name"`
		FeatureDescription string       `gorm:"column:feature_description"`
		ProductID          int64        `gorm:"column:product_id"`
		ProductName        string       `gorm:"column:product_name"`
		ModelName          string       `gorm:"column:model_name"`
		Embedding          Float64Slice `gorm:"column:embedding"`
	}
	if err := s.DB(ctx).Raw(eligibleVectorsSelect, modelName).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load eligible vectors: %w", err)
	}

	vectors := make([]matching.FeatureVector, len(rows))
	for i, row := range rows {
		vectors[i] = matching.NewFeatureVector(
			row.FeatureID, row.FeatureName, row.FeatureDescription,
			row.ProductID, row.ProductName, row.ModelName,
			[]float64(row.Embedding),
		)
	}
	return vectors, nil
}

var _ catalog.FeatureEmbeddingStore = SQLiteFeatureEmbeddingStore{}

// PgFeatureEmbeddingStore implements catalog.FeatureEmbeddingStore on a
// pgvector column.
type PgFeatureEmbeddingStore struct {
	database.Repository[catalog.FeatureEmbedding, PgFeatureEmbeddingModel]
}

// NewPgFeatureEmbeddingStore creates a new PgFeatureEmbeddingStore.
func NewPgFeatureEmbeddingStore(db database.Database) PgFeatureEmbeddingStore {
	return PgFeatureEmbeddingStore{
		Repository: database.NewRepository[catalog.FeatureEmbedding, PgFeatureEmbeddingModel](db, PgFeatureEmbeddingMapper{}, "feature embedding"),
	}
}

// SaveAll upserts embeddings, replacing the vector for existing
// (feature, model) pairs.
func (s PgFeatureEmbeddingStore) SaveAll(ctx context.Context, embeddings []catalog.FeatureEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, e := range embeddings {
		model := s.Mapper().ToModel(e)
		model.UpdatedAt = now
		if model.CreatedAt.IsZero() {
			model.CreatedAt = now
		}
		err := s.DB(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feature_id"}, {Name: "model_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding", "updated_at"}),
		}).Create(&model).Error
		if err != nil {
			return fmt.Errorf("upsert feature embedding: %w", err)
		}
	}
	return nil
}

// EligibleVectors loads the searchable vectors for one model. Present so
// scan search also works against PostgreSQL, for example when the pgvector
// extension is unavailable.
func (s PgFeatureEmbeddingStore) EligibleVectors(ctx context.Context, modelName string) ([]matching.FeatureVector, error) {
	var rows []struct {
		FeatureID          int64             `gorm:"column:feature_id"`
		FeatureName        string            `gorm:"column:feature_name"`
		FeatureDescription string            `gorm:"column:feature_description"`
		ProductID          int64             `gorm:"column:product_id"`
		ProductName        string            `gorm:"column:product_name"`
		ModelName          string            `gorm:"column:model_name"`
		Embedding          database.PgVector `gorm:"column:embedding"`
	}
	if err := s.DB(ctx).Raw(eligibleVectorsSelect, modelName).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load eligible vectors: %w", err)
	}

	vectors := make([]matching.FeatureVector, len(rows))
	for i, row := range rows {
		vectors[i] = matching.NewFeatureVector(
			row.FeatureID, row.FeatureName, row.FeatureDescription,
			row.ProductID, row.ProductName, row.ModelName,
			row.Embedding.Floats(),
		)
	}
	return vectors, nil
}

var _ catalog.FeatureEmbeddingStore = PgFeatureEmbeddingStore{}
