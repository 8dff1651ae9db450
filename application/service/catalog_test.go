package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/infrastructure/persistence"
	"github.com/reqmatch/reqmatch/internal/config"
	"github.com/reqmatch/reqmatch/internal/database"
)

type catalogEnv struct {
	products   persistence.ProductStore
	features   persistence.FeatureStore
	embeddings persistence.SQLiteFeatureEmbeddingStore
	catalog    *CatalogService
	cleanup    *CleanupService
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()
	return newCatalogEnvDim(t, 3)
}

func newCatalogEnvDim(t *testing.T, dimension int) *catalogEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewDatabase(ctx, "sqlite://"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	configStore := persistence.NewConfigStore(db)
	productStore := persistence.NewProductStore(db)
	featureStore := persistence.NewFeatureStore(db)
	embeddingStore := persistence.NewSQLiteFeatureEmbeddingStore(db)

	registry := NewRegistry(configStore, nil, "", nil)
	registry.RegisterFactory(embedding.KindOpenAI, func(_ embedding.ModelConfig, _ string) (embedding.Provider, error) {
		return &mapProvider{failTexts: map[string]bool{}}, nil
	})
	_, err = configStore.Save(ctx, embedding.NewModelConfig("model-a", embedding.KindOpenAI, dimension, "", "", nil))
	require.NoError(t, err)

	cfg := config.NewAppConfig().WithBatchSize(2)
	return &catalogEnv{
		products:   productStore,
		features:   featureStore,
		embeddings: embeddingStore,
		catalog:    NewCatalogService(productStore, featureStore, embeddingStore, registry, cfg, nil),
		cleanup:    NewCleanupService(productStore, featureStore, embeddingStore, nil),
	}
}

func TestCatalogService_IndexFeatures(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Save(ctx, catalog.NewProduct("suite", "acme", "tools", ""))
	require.NoError(t, err)
	for _, name := range []string{"export", "import", "sync"} {
		_, err := env.features.Save(ctx, catalog.NewFeature(product.ID(), name, name+" feature"))
		require.NoError(t, err)
	}

	indexed, err := env.catalog.IndexFeatures(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, indexed)

	vectors, err := env.embeddings.EligibleVectors(ctx, "model-a")
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
}

func TestCatalogService_IndexFeaturesSkipsInactive(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	active, err := env.products.Save(ctx, catalog.NewProduct("active", "acme", "tools", ""))
	require.NoError(t, err)
	retired, err := env.products.Save(ctx, catalog.NewProduct("retired", "acme", "tools", ""))
	require.NoError(t, err)
	_, err = env.products.Save(ctx, retired.Deactivate())
	require.NoError(t, err)

	_, err = env.features.Save(ctx, catalog.NewFeature(active.ID(), "kept", ""))
	require.NoError(t, err)
	_, err = env.features.Save(ctx, catalog.NewFeature(retired.ID(), "dropped", ""))
	require.NoError(t, err)

	indexed, err := env.catalog.IndexFeatures(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, indexed)
}

func TestCatalogService_IndexFeaturesRejectsWrongDimension(t *testing.T) {
	// Configuration claims 5-dimensional vectors while the provider produces
	// 3-dimensional ones. Nothing may reach storage.
	env := newCatalogEnvDim(t, 5)
	ctx := context.Background()

	product, err := env.products.Save(ctx, catalog.NewProduct("suite", "acme", "tools", ""))
	require.NoError(t, err)
	_, err = env.features.Save(ctx, catalog.NewFeature(product.ID(), "export", ""))
	require.NoError(t, err)

	indexed, err := env.catalog.IndexFeatures(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, embedding.ErrDimensionMismatch)
	assert.Zero(t, indexed)

	vectors, err := env.embeddings.EligibleVectors(ctx, "model-a")
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestCatalogService_IndexFeaturesEmptyCatalog(t *testing.T) {
	env := newCatalogEnv(t)

	indexed, err := env.catalog.IndexFeatures(context.Background())
	require.NoError(t, err)
	assert.Zero(t, indexed)
}

func TestCleanupService_DeactivateFeature(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Save(ctx, catalog.NewProduct("suite", "acme", "tools", ""))
	require.NoError(t, err)
	feature, err := env.features.Save(ctx, catalog.NewFeature(product.ID(), "export", ""))
	require.NoError(t, err)

	_, err = env.catalog.IndexFeatures(ctx)
	require.NoError(t, err)

	require.NoError(t, env.cleanup.DeactivateFeature(ctx, feature.ID()))

	vectors, err := env.embeddings.EligibleVectors(ctx, "model-a")
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestCleanupService_DeactivateProduct(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	product, err := env.products.Save(ctx, catalog.NewProduct("suite", "acme", "tools", ""))
	require.NoError(t, err)
	_, err = env.features.Save(ctx, catalog.NewFeature(product.ID(), "export", ""))
	require.NoError(t, err)
	_, err = env.features.Save(ctx, catalog.NewFeature(product.ID(), "import", ""))
	require.NoError(t, err)

	_, err = env.catalog.IndexFeatures(ctx)
	require.NoError(t, err)

	require.NoError(t, env.cleanup.DeactivateProduct(ctx, product.ID()))

	vectors, err := env.embeddings.EligibleVectors(ctx, "model-a")
	require.NoError(t, err)
	assert.Empty(t, vectors)

	indexed, err := env.catalog.IndexFeatures(ctx)
	require.NoError(t, err)
	assert.Zero(t, indexed)
}
