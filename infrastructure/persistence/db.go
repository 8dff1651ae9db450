package persistence

import (
	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/internal/database"
)

// AutoMigrate runs GORM auto migration for all models. The feature embedding
// table uses a pgvector column on PostgreSQL and a JSON column on SQLite, so
// the extension must exist before that table migrates.
func AutoMigrate(db database.Database) error {
	gdb := db.GORM()

	if db.IsPostgres() {
		if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
			return err
		}
	}

	models := []any{
		&EmbeddingConfigModel{},
		&ProductModel{},
		&FeatureModel{},
		&RequirementModel{},
		&ItemModel{},
		&MatchRecordModel{},
	}
	if db.IsPostgres() {
		models = append(models, &PgFeatureEmbeddingModel{})
	} else {
		models = append(models, &SQLiteFeatureEmbeddingModel{})
	}

	return gdb.AutoMigrate(models...)
}

// NewFeatureEmbeddingStore returns the embedding store variant matching the
// database driver.
func NewFeatureEmbeddingStore(db database.Database) catalog.FeatureEmbeddingStore {
	if db.IsPostgres() {
		return NewPgFeatureEmbeddingStore(db)
	}
	return NewSQLiteFeatureEmbeddingStore(db)
}
