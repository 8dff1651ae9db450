// Package persistence provides the GORM-backed store implementations.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reqmatch/reqmatch/internal/database"
)

// Float64Slice serializes a []float64 as JSON. Used for item vectors on all
// drivers and for feature embeddings on SQLite.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// JSONMap serializes a map[string]any as JSON.
type JSONMap map[string]any

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// StringMap serializes a map[string]string as JSON.
type StringMap map[string]string

// Scan implements sql.Scanner.
func (m *StringMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringMap", value)
	}

	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer.
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// EmbeddingConfigModel represents an embedding provider configuration.
type EmbeddingConfigModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;uniqueIndex;size:255"`
	Kind         string    `gorm:"column:kind;size:64"`
	Dimension    int       `gorm:"column:dimension"`
	Endpoint     string    `gorm:"column:endpoint;size:1024"`
	APIKey       string    `gorm:"column:api_key_encrypted;size:2048"`
	Params       StringMap `gorm:"column:params;type:json"`
	IsActive     bool      `gorm:"column:is_active;index"`
	IsDefault    bool      `gorm:"column:is_default"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (EmbeddingConfigModel) TableName() string {
	return "embedding_model_configs"
}

// ProductModel represents a catalog product.
type ProductModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;index;size:512"`
	Vendor      string    `gorm:"column:vendor;size:255"`
	Category    string    `gorm:"column:category;size:255"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ProductModel) TableName() string {
	return "products"
}

// FeatureModel represents a product feature.
type FeatureModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   int64     `gorm:"column:product_id;index"`
	Name        string    `gorm:"column:name;size:512"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (FeatureModel) TableName() string {
	return "features"
}

// SQLiteFeatureEmbeddingModel stores feature vectors as JSON. Used on SQLite,
// where search runs as an in-process scan.
type SQLiteFeatureEmbeddingModel struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	FeatureID int64        `gorm:"column:feature_id;uniqueIndex:idx_feature_model"`
	ModelName string       `gorm:"column:model_name;uniqueIndex:idx_feature_model;size:255"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
	CreatedAt time.Time    `gorm:"column:created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (SQLiteFeatureEmbeddingModel) TableName() string {
	return "feature_embeddings"
}

// PgFeatureEmbeddingModel stores feature vectors in a pgvector column so the
// database can rank them.
type PgFeatureEmbeddingModel struct {
	ID        int64             `gorm:"column:id;primaryKey;autoIncrement"`
	FeatureID int64             `gorm:"column:feature_id;uniqueIndex:idx_feature_model"`
	ModelName string            `gorm:"column:model_name;uniqueIndex:idx_feature_model;size:255"`
	Embedding database.PgVector `gorm:"column:embedding;type:vector"`
	CreatedAt time.Time         `gorm:"column:created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (PgFeatureEmbeddingModel) TableName() string {
	return "feature_embeddings"
}

// RequirementModel represents a submitted capability requirement.
type RequirementModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID  string    `gorm:"column:session_id;index;size:36"`
	Title      string    `gorm:"column:title;size:512"`
	SourceKind string    `gorm:"column:source_kind;size:16"`
	SourceText string    `gorm:"column:source_text"`
	SourceFile string    `gorm:"column:source_file;size:1024"`
	Status     string    `gorm:"column:status;index;size:32"`
	CreatedBy  string    `gorm:"column:created_by;size:255"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (RequirementModel) TableName() string {
	return "capability_requirements"
}

// ItemModel represents one atomic requirement statement. The vector column
// caches the item's last embedding; NULL means none.
type ItemModel struct {
	ID            int64        `gorm:"column:id;primaryKey;autoIncrement"`
	RequirementID int64        `gorm:"column:requirement_id;index"`
	Text          string       `gorm:"column:text"`
	ItemOrder     int          `gorm:"column:item_order"`
	Vector        Float64Slice `gorm:"column:vector;type:json"`
	VectorModel   string       `gorm:"column:vector_model;size:255"`
	CreatedAt     time.Time    `gorm:"column:created_at"`
	UpdatedAt     time.Time    `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ItemModel) TableName() string {
	return "requirement_items"
}

// MatchRecordModel represents one scored (item, feature) pair.
type MatchRecordModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RequirementID int64     `gorm:"column:requirement_id;index"`
	ItemID        int64     `gorm:"column:requirement_item_id;index"`
	FeatureID     int64     `gorm:"column:feature_id;index"`
	Similarity    float64   `gorm:"column:similarity"`
	Status        string    `gorm:"column:status;size:32"`
	Threshold     float64   `gorm:"column:threshold"`
	Rank          int       `gorm:"column:rank"`
	Metadata      JSONMap   `gorm:"column:metadata;type:json"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (MatchRecordModel) TableName() string {
	return "match_records"
}
