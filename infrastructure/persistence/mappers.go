package persistence

import (
	"github.com/google/uuid"

	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/internal/database"
)

// EmbeddingConfigMapper maps between embedding.ModelConfig and EmbeddingConfigModel.
type EmbeddingConfigMapper struct{}

// ToDomain converts a model to a domain configuration.
func (EmbeddingConfigMapper) ToDomain(entity EmbeddingConfigModel) embedding.ModelConfig {
	return embedding.ReconstructModelConfig(
		entity.ID,
		entity.Name,
		embedding.Kind(entity.Kind),
		entity.Dimension,
		entity.Endpoint,
		entity.APIKey,
		map[string]string(entity.Params),
		entity.IsActive,
		entity.IsDefault,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToModel converts a domain configuration to a model.
func (EmbeddingConfigMapper) ToModel(domain embedding.ModelConfig) EmbeddingConfigModel {
	return EmbeddingConfigModel{
		ID:        domain.ID(),
		Name:      domain.Name(),
		Kind:      string(domain.Kind()),
		Dimension: domain.Dimension(),
		Endpoint:  domain.Endpoint(),
		APIKey:    domain.EncryptedKey(),
		Params:    StringMap(domain.Params()),
		IsActive:  domain.Active(),
		IsDefault: domain.IsDefault(),
		CreatedAt: domain.CreatedAt(),
		UpdatedAt: domain.UpdatedAt(),
	}
}

// ProductMapper maps between catalog.Product and ProductModel.
type ProductMapper struct{}

// ToDomain converts a model to a domain product.
func (ProductMapper) ToDomain(entity ProductModel) catalog.Product {
	return catalog.ReconstructProduct(
		entity.ID,
		entity.Name,
		entity.Vendor,
		entity.Category,
		entity.Description,
		entity.IsActive,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToModel converts a domain product to a model.
func (ProductMapper) ToModel(domain catalog.Product) ProductModel {
	return ProductModel{
		ID:          domain.ID(),
		Name:        domain.Name(),
		Vendor:      domain.Vendor(),
		Category:    domain.Category(),
		Description: domain.Description(),
		IsActive:    domain.Active(),
		CreatedAt:   domain.CreatedAt(),
		UpdatedAt:   domain.UpdatedAt(),
	}
}

// FeatureMapper maps between catalog.Feature and FeatureModel.
type FeatureMapper struct{}

// ToDomain converts a model to a domain feature.
func (FeatureMapper) ToDomain(entity FeatureModel) catalog.Feature {
	return catalog.ReconstructFeature(
		entity.ID,
		entity.ProductID,
		entity.Name,
		entity.Description,
		entity.IsActive,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToModel converts a domain feature to a model.
func (FeatureMapper) ToModel(domain catalog.Feature) FeatureModel {
	return FeatureModel{
		ID:          domain.ID(),
		ProductID:   domain.ProductID(),
		Name:        domain.Name(),
		Description: domain.Description(),
		IsActive:    domain.Active(),
		CreatedAt:   domain.CreatedAt(),
		UpdatedAt:   domain.UpdatedAt(),
	}
}

// SQLiteFeatureEmbeddingMapper maps feature embeddings to the JSON-backed model.
type SQLiteFeatureEmbeddingMapper struct{}

// ToDomain converts a model to a domain embedding.
func (SQLiteFeatureEmbeddingMapper) ToDomain(entity SQLiteFeatureEmbeddingModel) catalog.FeatureEmbedding {
	return catalog.ReconstructFeatureEmbedding(
		entity.ID,
		entity.FeatureID,
		entity.ModelName,
		[]float64(entity.Embedding),
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToModel converts a domain embedding to a model.
func (SQLiteFeatureEmbeddingMapper) ToModel(domain catalog.FeatureEmbedding) SQLiteFeatureEmbeddingModel {
	return SQLiteFeatureEmbeddingModel{
		ID:        domain.ID(),
		FeatureID: domain.FeatureID(),
		ModelName: domain.ModelName(),
		Embedding: Float64Slice(domain.Vector()),
		CreatedAt: domain.CreatedAt(),
		UpdatedAt: domain.UpdatedAt(),
	}
}

// PgFeatureEmbeddingMapper maps feature embeddings to the pgvector-backed model.
type PgFeatureEmbeddingMapper struct{}

// ToDomain converts a model to a domain embedding.
func (PgFeatureEmbeddingMapper) ToDomain(entity PgFeatureEmbeddingModel) catalog.FeatureEmbedding {
	return catalog.ReconstructFeatureEmbedding(
		entity.ID,
		entity.FeatureID,
		entity.ModelName,
		entity.Embedding.Floats(),
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToModel converts a domain embedding to a model.
func (PgFeatureEmbeddingMapper) ToModel(domain catalog.FeatureEmbedding) PgFeatureEmbeddingModel {
	return PgFeatureEmbeddingModel{
		ID:        domain.ID(),
		FeatureID: domain.FeatureID(),
		ModelName: domain.ModelName(),
		Embedding: database.NewPgVector(domain.Vector()),
		CreatedAt: domain.CreatedAt(),
		UpdatedAt: domain.UpdatedAt(),
	}
}

// RequirementMapper maps between matching.Requirement and RequirementModel.
type RequirementMapper struct{}

// ToDomain converts a model to a domain requirement.
func (RequirementMapper) ToDomain(entity RequirementModel) matching.Requirement {
	sessionID, err := uuid.Parse(entity.SessionID)
	if err != nil {
		sessionID = uuid.Nil
	}
	return matching.ReconstructRequirement(
		entity.ID,
		sessionID,
		entity.Title,
		matching.SourceKind(entity.SourceKind),
		entity.SourceText,
		entity.SourceFile,
		matching.RequirementStatus(entity.Status),
		entity.CreatedBy,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToModel converts a domain requirement to a model.
func (RequirementMapper) ToModel(domain matching.Requirement) RequirementModel {
	return RequirementModel{
		ID:         domain.ID(),
		SessionID:  domain.SessionID().String(),
		Title:      domain.Title(),
		SourceKind: string(domain.SourceKind()),
		SourceText: domain.SourceText(),
		SourceFile: domain.SourceFile(),
		Status:     string(domain.Status()),
		CreatedBy:  domain.CreatedBy(),
		CreatedAt:  domain.CreatedAt(),
		UpdatedAt:  domain.UpdatedAt(),
	}
}

// ItemMapper maps between matching.Item and ItemModel.
type ItemMapper struct{}

// ToDomain converts a model to a domain item.
func (ItemMapper) ToDomain(entity ItemModel) matching.Item {
	return matching.ReconstructItem(
		entity.ID,
		entity.RequirementID,
		entity.Text,
		entity.ItemOrder,
		[]float64(entity.Vector),
		entity.VectorModel,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToModel converts a domain item to a model.
func (ItemMapper) ToModel(domain matching.Item) ItemModel {
	model := ItemModel{
		ID:            domain.ID(),
		RequirementID: domain.RequirementID(),
		Text:          domain.Text(),
		ItemOrder:     domain.Order(),
		VectorModel:   domain.VectorModel(),
		CreatedAt:     domain.CreatedAt(),
		UpdatedAt:     domain.UpdatedAt(),
	}
	if vector, ok := domain.Vector(); ok {
		model.Vector = Float64Slice(vector)
	}
	return model
}

// MatchRecordMapper maps between matching.MatchRecord and MatchRecordModel.
type MatchRecordMapper struct{}

// ToDomain converts a model to a domain record.
func (MatchRecordMapper) ToDomain(entity MatchRecordModel) matching.MatchRecord {
	return matching.ReconstructMatchRecord(
		entity.ID,
		entity.RequirementID,
		entity.ItemID,
		entity.FeatureID,
		entity.Similarity,
		matching.MatchStatus(entity.Status),
		entity.Threshold,
		entity.Rank,
		map[string]any(entity.Metadata),
		entity.CreatedAt,
	)
}

// ToModel converts a domain record to a model.
func (MatchRecordMapper) ToModel(domain matching.MatchRecord) MatchRecordModel {
	return MatchRecordModel{
		ID:            domain.ID(),
		RequirementID: domain.RequirementID(),
		ItemID:        domain.ItemID(),
		FeatureID:     domain.FeatureID(),
		Similarity:    domain.Similarity(),
		Status:        string(domain.Status()),
		Threshold:     domain.Threshold(),
		Rank:          domain.Rank(),
		Metadata:      JSONMap(domain.Metadata()),
		CreatedAt:     domain.CreatedAt(),
	}
}
