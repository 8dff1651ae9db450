package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqmatch/reqmatch/domain/catalog"
	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/infrastructure/persistence"
	"github.com/reqmatch/reqmatch/infrastructure/search"
	"github.com/reqmatch/reqmatch/internal/config"
	"github.com/reqmatch/reqmatch/internal/database"
)

// mapProvider encodes from a fixed text-to-vector table. Batch and per-item
// failures are switchable to exercise the fallback paths.
type mapProvider struct {
	vectors   map[string][]float64
	failBatch bool
	failTexts map[string]bool
}

func (p *mapProvider) encode(text string) ([]float64, error) {
	if p.failTexts[text] {
		return nil, errors.New("encode rejected")
	}
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 1}, nil
}

func (p *mapProvider) Encode(_ context.Context, texts []string) ([][]float64, error) {
	if p.failBatch {
		return nil, errors.New("batch endpoint unavailable")
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := p.encode(text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *mapProvider) EncodeOne(_ context.Context, text string) ([]float64, error) {
	return p.encode(text)
}

func (p *mapProvider) TestConnection(_ context.Context) error { return nil }

func (p *mapProvider) Dimension() int { return 3 }

func (p *mapProvider) ModelInfo() embedding.ModelInfo {
	return embedding.NewModelInfo("model-a", embedding.KindOpenAI, 3, "")
}

type matchingEnv struct {
	db           database.Database
	configs      persistence.ConfigStore
	requirements *RequirementService
	matching     *MatchingService
	items        persistence.ItemStore
	records      persistence.RecordStore
	provider     *mapProvider

	requirementStore persistence.RequirementStore
	registry         *Registry
	cfg              config.AppConfig
}

func newMatchingEnv(t *testing.T, seedConfig bool) *matchingEnv {
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
	requirementStore := persistence.NewRequirementStore(db)
	itemStore := persistence.NewItemStore(db)
	recordStore := persistence.NewRecordStore(db)

	provider := &mapProvider{
		vectors: map[string][]float64{
			"export data":  {1, 0, 0},
			"sync files":   {0, 1, 0},
			"audit events": {0.7, 0.7, 0},
		},
		failTexts: map[string]bool{},
	}

	registry := NewRegistry(configStore, nil, "", nil)
	registry.RegisterFactory(embedding.KindOpenAI, func(_ embedding.ModelConfig, _ string) (embedding.Provider, error) {
		return provider, nil
	})

	if seedConfig {
		_, err = configStore.Save(ctx, embedding.NewModelConfig("model-a", embedding.KindOpenAI, 3, "", "", nil))
		require.NoError(t, err)
	}

	product, err := productStore.Save(ctx, catalog.NewProduct("suite", "acme", "tools", ""))
	require.NoError(t, err)
	export, err := featureStore.Save(ctx, catalog.NewFeature(product.ID(), "export", "Export data to CSV"))
	require.NoError(t, err)
	fileSync, err := featureStore.Save(ctx, catalog.NewFeature(product.ID(), "sync", "Synchronize files"))
	require.NoError(t, err)
	require.NoError(t, embeddingStore.SaveAll(ctx, []catalog.FeatureEmbedding{
		catalog.NewFeatureEmbedding(export.ID(), "model-a", []float64{1, 0, 0}),
		catalog.NewFeatureEmbedding(fileSync.ID(), "model-a", []float64{0, 1, 0}),
	}))

	cfg := config.NewAppConfig().WithBatchSize(2).WithEncodeWorkers(2)
	searcher := search.NewScanSearch(embeddingStore, nil)

	return &matchingEnv{
		db:           db,
		configs:      configStore,
		requirements: NewRequirementService(requirementStore, itemStore, nil),
		matching: NewMatchingService(
			db, requirementStore, itemStore, recordStore, searcher, registry, cfg, nil,
		),
		items:    itemStore,
		records:  recordStore,
		provider: provider,

		requirementStore: requirementStore,
		registry:         registry,
		cfg:              cfg,
	}
}

func (e *matchingEnv) submit(t *testing.T, text string) matching.Requirement {
	t.Helper()
	req, _, err := e.requirements.Create(context.Background(), "test", text, "tester")
	require.NoError(t, err)
	return req
}

func (e *matchingEnv) status(t *testing.T, id int64) matching.RequirementStatus {
	t.Helper()
	req, err := e.requirements.Get(context.Background(), id)
	require.NoError(t, err)
	return req.Status()
}

func TestMatchingService_Run(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	req := env.submit(t, "export data\nsync files")

	summary, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)

	assert.Equal(t, req.ID(), summary.RequirementID())
	assert.Equal(t, 2, summary.TotalItems())
	// Each item sees both stored features.
	assert.Equal(t, 4, summary.TotalMatches())
	assert.Equal(t, 2, summary.Matched())
	assert.Equal(t, 2, summary.Unmatched())
	assert.Equal(t, matching.StatusCompleted, env.status(t, req.ID()))

	// Vectors are persisted for reuse by later runs.
	items, err := env.requirements.Items(ctx, req.ID())
	require.NoError(t, err)
	for _, item := range items {
		assert.True(t, item.HasVectorFor("model-a"))
	}
}

func TestMatchingService_RerunReplacesRecords(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	req := env.submit(t, "export data")

	first, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)
	second, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)

	assert.Equal(t, first.TotalMatches(), second.TotalMatches())

	stats, err := env.matching.Statistics(ctx, req.ID())
	require.NoError(t, err)
	assert.Equal(t, second.TotalMatches(), stats.TotalMatches())
}

func TestMatchingService_PartialThresholdOverride(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	// Scores roughly 0.7 against both features.
	req := env.submit(t, "audit events")

	summary, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.PartialMatched())

	summary, err = env.matching.Run(ctx, req.ID(), WithPartialThreshold(0.5))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PartialMatched())
}

func TestMatchingService_NoActiveConfigFailsRun(t *testing.T) {
	env := newMatchingEnv(t, false)
	ctx := context.Background()
	req := env.submit(t, "export data")

	_, err := env.matching.Run(ctx, req.ID())
	require.Error(t, err)
	assert.ErrorIs(t, err, embedding.ErrNoActiveConfig)

	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, PhaseEmbedding, phaseErr.Phase)
	assert.Equal(t, matching.StatusFailed, env.status(t, req.ID()))
}

func TestMatchingService_AllItemsFailEncoding(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	req := env.submit(t, "export data")

	// Batch endpoint down and the only item individually rejected. The run
	// still completes: encode failures isolate to the item, which is skipped
	// by search but counted in totals.
	env.provider.failBatch = true
	env.provider.failTexts["export data"] = true

	summary, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalItems())
	assert.Equal(t, 0, summary.TotalMatches())
	assert.Equal(t, matching.StatusCompleted, env.status(t, req.ID()))

	stats := statsOrZero(t, env, req.ID())
	assert.Equal(t, 0, stats.TotalMatches())
	assert.Equal(t, 1, stats.TotalItems())
}

func TestMatchingService_BatchFailureIsolatesItems(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	req := env.submit(t, "export data\nsync files")

	// The batch endpoint is down and one item is individually bad. The
	// remaining item still goes through search.
	env.provider.failBatch = true
	env.provider.failTexts["sync files"] = true

	summary, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalItems())
	assert.Equal(t, 2, summary.TotalMatches())
	assert.Equal(t, 1, summary.Matched())
	assert.Equal(t, matching.StatusCompleted, env.status(t, req.ID()))
}

type failingSearcher struct{}

func (failingSearcher) FindCandidates(context.Context, string, []float64, int, float64, matching.Thresholds) ([]matching.Candidate, error) {
	return nil, matching.NewSearchError(errors.New("connection reset"))
}

func TestMatchingService_SearchFailureFailsRun(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	req := env.submit(t, "export data")

	broken := NewMatchingService(
		env.db, env.requirementStore, env.items, env.records,
		failingSearcher{}, env.registry, env.cfg, nil,
	)

	_, err := broken.Run(ctx, req.ID())
	require.Error(t, err)

	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, PhaseSearch, phaseErr.Phase)

	var searchErr *matching.SearchError
	assert.ErrorAs(t, err, &searchErr)
	assert.Equal(t, matching.StatusFailed, env.status(t, req.ID()))

	stats := statsOrZero(t, env, req.ID())
	assert.Equal(t, 0, stats.TotalMatches())
}

func TestMatchingService_UnknownRequirement(t *testing.T) {
	env := newMatchingEnv(t, true)

	_, err := env.matching.Run(context.Background(), 9999)
	assert.ErrorIs(t, err, matching.ErrRequirementNotFound)
}

// Read queries never error on missing data: an unknown requirement yields
// empty groups and zero-valued statistics.
func TestMatchingService_QueriesOnMissingRequirement(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()

	results, err := env.matching.Results(ctx, 424242)
	require.NoError(t, err)
	assert.Empty(t, results.Matched())
	assert.Empty(t, results.PartialMatched())
	assert.Empty(t, results.Unmatched())

	stats, err := env.matching.Statistics(ctx, 424242)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalItems())
	assert.Equal(t, 0, stats.TotalMatches())
	assert.Zero(t, stats.AvgSimilarity())
}

func TestMatchingService_Results(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	req := env.submit(t, "export data")

	_, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)

	results, err := env.matching.Results(ctx, req.ID())
	require.NoError(t, err)

	require.Len(t, results.Matched(), 1)
	row := results.Matched()[0]
	assert.Equal(t, "export data", row.ItemText())
	assert.Equal(t, "export", row.FeatureName())
	assert.Equal(t, "suite", row.ProductName())
	assert.InDelta(t, 1.0, row.Similarity(), 1e-9)
	assert.Len(t, results.Unmatched(), 1)
}

func TestRequirementLocks_ReleasedAfterRun(t *testing.T) {
	env := newMatchingEnv(t, true)
	ctx := context.Background()
	req := env.submit(t, "export data")

	_, err := env.matching.Run(ctx, req.ID())
	require.NoError(t, err)

	// The per-requirement lock entry is dropped once the run finishes, so
	// the map does not accumulate one mutex per requirement ever processed.
	env.matching.locks.mu.Lock()
	held := len(env.matching.locks.locks)
	env.matching.locks.mu.Unlock()
	assert.Equal(t, 0, held)
}

func TestRequirementLocks_SerializeSameID(t *testing.T) {
	locks := newRequirementLocks()

	first := locks.acquire(7)
	released := make(chan struct{})
	go func() {
		second := locks.acquire(7)
		locks.release(7, second)
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("second acquire proceeded while the first was held")
	case <-time.After(20 * time.Millisecond):
	}

	locks.release(7, first)
	<-released

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}

func statsOrZero(t *testing.T, env *matchingEnv, id int64) matching.Statistics {
	t.Helper()
	stats, err := env.matching.Statistics(context.Background(), id)
	require.NoError(t, err)
	return stats
}
