package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/database"
)

// resultRowsSelect joins match records with item and feature context for the
// grouped result view. Record ID breaks similarity ties so the order is
// deterministic.
const resultRowsSelect = `
SELECT mr.id AS record_id,
       ri.text AS item_text,
       f.name AS feature_name,
       f.description AS feature_description,
       p.name AS product_name,
       mr.similarity AS similarity,
       mr.rank AS match_rank,
       mr.status AS status
FROM match_records mr
JOIN requirement_items ri ON ri.id = mr.requirement_item_id
JOIN features f ON f.id = mr.feature_id
JOIN products p ON p.id = f.product_id
WHERE mr.requirement_id = ?
ORDER BY mr.similarity DESC, mr.id ASC`

// RecordStore implements matching.RecordStore using GORM.
type RecordStore struct {
	database.Repository[matching.MatchRecord, MatchRecordModel]
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db database.Database) RecordStore {
	return RecordStore{
		Repository: database.NewRepository[matching.MatchRecord, MatchRecordModel](db, MatchRecordMapper{}, "match record"),
	}
}

// DeleteTx removes records matching the options inside an open transaction.
func (s RecordStore) DeleteTx(tx *gorm.DB, options ...repository.Option) error {
	db := database.ApplyConditions(tx, options...)
	if result := db.Delete(&MatchRecordModel{}); result.Error != nil {
		return fmt.Errorf("delete match records: %w", result.Error)
	}
	return nil
}

// SaveAllTx inserts records inside an open transaction.
func (s RecordStore) SaveAllTx(tx *gorm.DB, records []matching.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]MatchRecordModel, len(records))
	for i, record := range records {
		models[i] = s.Mapper().ToModel(record)
		if models[i].CreatedAt.IsZero() {
			models[i].CreatedAt = now
		}
	}

	if result := tx.Create(&models); result.Error != nil {
		return fmt.Errorf("create match records: %w", result.Error)
	}
	return nil
}

// ResultRows loads a requirement's records joined with item and feature
// context, similarity-descending, plus the parallel status slice used for
// grouping.
func (s RecordStore) ResultRows(ctx context.Context, requirementID int64) ([]matching.ResultRow, []matching.MatchStatus, error) {
	var rows []struct {
		RecordID           int64   `gorm:"column:record_id"`
		ItemText           string  `gorm:"column:item_text"`
		FeatureName        string  `gorm:"column:feature_name"`
		FeatureDescription string  `gorm:"column:feature_description"`
		ProductName        string  `gorm:"column:product_name"`
		Similarity         float64 `gorm:"column:similarity"`
		MatchRank          int     `gorm:"column:match_rank"`
		Status             string  `gorm:"column:status"`
	}
	if err := s.DB(ctx).Raw(resultRowsSelect, requirementID).Scan(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("load result rows: %w", err)
	}

	results := make([]matching.ResultRow, len(rows))
	statuses := make([]matching.MatchStatus, len(rows))
	for i, row := range rows {
		results[i] = matching.NewResultRow(
			row.RecordID, row.ItemText, row.FeatureName,
			row.FeatureDescription, row.ProductName,
			row.Similarity, row.MatchRank,
		)
		statuses[i] = matching.MatchStatus(row.Status)
	}
	return results, statuses, nil
}

var _ matching.RecordStore = RecordStore{}
