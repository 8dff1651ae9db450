package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/internal/database"
)

const (
	pgvCreateExtension = `CREATE EXTENSION IF NOT EXISTS vector`

	pgvCreateIndex = `
CREATE INDEX IF NOT EXISTS feature_embeddings_embedding_idx
ON feature_embeddings
USING ivfflat (embedding vector_cosine_ops)
WITH (lists = 100)`

	// Similarity is clamped to [0,1] in SQL so ordering and filtering agree
	// with the in-process scan path.
	pgvSearch = `
SELECT f.id AS feature_id,
       f.name AS feature_name,
       f.description AS feature_description,
       p.id AS product_id,
       p.name AS product_name,
       fe.model_name AS model_name,
       LEAST(GREATEST(1 - (fe.embedding <=> ?), 0), 1) AS similarity
FROM feature_embeddings fe
JOIN features f ON f.id = fe.feature_id
JOIN products p ON p.id = f.product_id
WHERE fe.model_name = ?
  AND f.is_active
  AND p.is_active
  AND LEAST(GREATEST(1 - (fe.embedding <=> ?), 0), 1) >= ?
ORDER BY similarity DESC, f.id ASC
LIMIT ?`
)

// ErrPgvectorInitializationFailed indicates pgvector initialization failed.
var ErrPgvectorInitializationFailed = errors.New("failed to initialize pgvector index")

// PgVectorIndex implements VectorIndex on PostgreSQL with the pgvector
// extension. Ranking, filtering, and truncation all happen in SQL.
type PgVectorIndex struct {
	db          database.Database
	logger      *slog.Logger
	initialized bool
	mu          sync.Mutex
}

// NewPgVectorIndex creates a PgVectorIndex.
func NewPgVectorIndex(db database.Database, logger *slog.Logger) *PgVectorIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &PgVectorIndex{db: db, logger: logger}
}

func (idx *PgVectorIndex) initialize(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.initialized {
		return nil
	}

	db := idx.db.Session(ctx)
	if err := db.Exec(pgvCreateExtension).Error; err != nil {
		return errors.Join(ErrPgvectorInitializationFailed, err)
	}

	// Ignore index errors: it may already exist with different parameters.
	if err := db.Exec(pgvCreateIndex).Error; err != nil {
		idx.logger.Warn("failed to create ivfflat index (may already exist)", "error", err)
	}

	idx.initialized = true
	return nil
}

// Search ranks stored embeddings against the query in SQL.
func (idx *PgVectorIndex) Search(
	ctx context.Context,
	modelName string,
	query []float64,
	limit int,
	minScore float64,
) ([]ScoredVector, error) {
	if err := idx.initialize(ctx); err != nil {
		return nil, err
	}

	queryVec := database.NewPgVector(query).String()

	var rows []struct {
		FeatureID          int64   `gorm:"column:feature_id"`
		FeatureName        string  `gorm:"column:feature_name"`
		FeatureDescription string  `gorm:"column:feature_description"`
		ProductID          int64   `gorm:"column:product_id"`
		ProductName        string  `gorm:"column:product_name"`
		ModelName          string  `gorm:"column:model_name"`
		Similarity         float64 `gorm:"column:similarity"`
	}

	err := idx.db.Session(ctx).
		Raw(pgvSearch, queryVec, modelName, queryVec, minScore, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredVector, len(rows))
	for i, row := range rows {
		fv := matching.NewFeatureVector(
			row.FeatureID, row.FeatureName, row.FeatureDescription,
			row.ProductID, row.ProductName, row.ModelName, nil,
		)
		scored[i] = NewScoredVector(fv, row.Similarity)
	}
	return scored, nil
}

var _ VectorIndex = (*PgVectorIndex)(nil)
