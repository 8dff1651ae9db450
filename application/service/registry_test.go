package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/domain/repository"
)

// stubConfigStore serves canned configurations, interpreting the query
// options the registry actually uses.
type stubConfigStore struct {
	configs []embedding.ModelConfig
	err     error
}

func (s stubConfigStore) Find(_ context.Context, options ...repository.Option) ([]embedding.ModelConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	q := repository.Build(options...)
	var out []embedding.ModelConfig
	for _, cfg := range s.configs {
		if matchesQuery(cfg, q) {
			out = append(out, cfg)
		}
	}
	if limit := q.LimitValue(); limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s stubConfigStore) FindOne(ctx context.Context, options ...repository.Option) (embedding.ModelConfig, error) {
	configs, err := s.Find(ctx, options...)
	if err != nil {
		return embedding.ModelConfig{}, err
	}
	if len(configs) == 0 {
		return embedding.ModelConfig{}, embedding.ErrConfigNotFound
	}
	return configs[0], nil
}

func (s stubConfigStore) Save(_ context.Context, cfg embedding.ModelConfig) (embedding.ModelConfig, error) {
	return cfg, nil
}

func (s stubConfigStore) SetDefault(_ context.Context, _ int64) error { return nil }

func matchesQuery(cfg embedding.ModelConfig, q repository.Query) bool {
	for _, cond := range q.Conditions() {
		switch cond.Field() {
		case "id":
			if cfg.ID() != cond.Value().(int64) {
				return false
			}
		case "is_active":
			if cfg.Active() != cond.Value().(bool) {
				return false
			}
		case "is_default":
			if cfg.IsDefault() != cond.Value().(bool) {
				return false
			}
		}
	}
	return true
}

// stubProvider records what it was built from.
type stubProvider struct {
	cfg    embedding.ModelConfig
	apiKey string
}

func (p *stubProvider) Encode(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

func (p *stubProvider) EncodeOne(_ context.Context, _ string) ([]float64, error) {
	return []float64{1, 0, 0}, nil
}

func (p *stubProvider) TestConnection(_ context.Context) error { return nil }

func (p *stubProvider) Dimension() int { return 3 }

func (p *stubProvider) ModelInfo() embedding.ModelInfo {
	return embedding.NewModelInfo(p.cfg.Name(), p.cfg.Kind(), 3, "")
}

func reconstructConfig(id int64, name string, kind embedding.Kind, active, isDefault bool) embedding.ModelConfig {
	return embedding.ReconstructModelConfig(
		id, name, kind, 3, "", "", nil, active, isDefault,
		time.Now().UTC(), time.Now().UTC(),
	)
}

func newStubRegistry(store embedding.ConfigStore) (*Registry, *int) {
	registry := NewRegistry(store, nil, "", nil)
	builds := 0
	factory := func(cfg embedding.ModelConfig, apiKey string) (embedding.Provider, error) {
		builds++
		return &stubProvider{cfg: cfg, apiKey: apiKey}, nil
	}
	for _, kind := range []embedding.Kind{
		embedding.KindOpenAI, embedding.KindOpenAICompatible, embedding.KindLocal,
	} {
		registry.RegisterFactory(kind, factory)
	}
	return registry, &builds
}

func TestRegistry_DefaultPrefersFlaggedConfig(t *testing.T) {
	store := stubConfigStore{configs: []embedding.ModelConfig{
		reconstructConfig(1, "older", embedding.KindOpenAI, true, false),
		reconstructConfig(2, "flagged", embedding.KindOpenAI, true, true),
	}}
	registry, _ := newStubRegistry(store)

	_, cfg, err := registry.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "flagged", cfg.Name())
}

func TestRegistry_DefaultFallsBackToOldestActive(t *testing.T) {
	store := stubConfigStore{configs: []embedding.ModelConfig{
		reconstructConfig(3, "inactive", embedding.KindOpenAI, false, false),
		reconstructConfig(5, "first-active", embedding.KindOpenAI, true, false),
		reconstructConfig(9, "second-active", embedding.KindOpenAI, true, false),
	}}
	registry, _ := newStubRegistry(store)

	_, cfg, err := registry.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first-active", cfg.Name())
}

func TestRegistry_DefaultNoActiveConfig(t *testing.T) {
	store := stubConfigStore{configs: []embedding.ModelConfig{
		reconstructConfig(1, "disabled", embedding.KindOpenAI, false, false),
	}}
	registry, _ := newStubRegistry(store)

	_, _, err := registry.Default(context.Background())
	assert.ErrorIs(t, err, embedding.ErrNoActiveConfig)
}

func TestRegistry_ByIDNotFound(t *testing.T) {
	registry, _ := newStubRegistry(stubConfigStore{})

	_, _, err := registry.ByID(context.Background(), 42)
	assert.ErrorIs(t, err, embedding.ErrConfigNotFound)
}

func TestRegistry_UnsupportedKind(t *testing.T) {
	registry, _ := newStubRegistry(stubConfigStore{})

	_, err := registry.Provider(reconstructConfig(1, "bad", embedding.Kind("mystery"), true, false))
	require.Error(t, err)

	var kindErr *embedding.UnsupportedKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, embedding.Kind("mystery"), kindErr.Kind)
	assert.NotEmpty(t, kindErr.Known)
}

func TestRegistry_CachesByConfigID(t *testing.T) {
	registry, builds := newStubRegistry(stubConfigStore{})
	cfg := reconstructConfig(7, "cached", embedding.KindOpenAI, true, false)

	first, err := registry.Provider(cfg)
	require.NoError(t, err)
	second, err := registry.Provider(cfg)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, *builds)

	registry.Invalidate(7)
	third, err := registry.Provider(cfg)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, *builds)
}

func TestRegistry_UnsavedConfigNotCached(t *testing.T) {
	registry, builds := newStubRegistry(stubConfigStore{})
	cfg := embedding.NewModelConfig("fresh", embedding.KindOpenAI, 3, "", "", nil)

	_, err := registry.Provider(cfg)
	require.NoError(t, err)
	_, err = registry.Provider(cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, *builds)
}

func TestRegistry_InvalidateAll(t *testing.T) {
	registry, builds := newStubRegistry(stubConfigStore{})
	cfgA := reconstructConfig(1, "a", embedding.KindOpenAI, true, false)
	cfgB := reconstructConfig(2, "b", embedding.KindOpenAI, true, false)

	_, err := registry.Provider(cfgA)
	require.NoError(t, err)
	_, err = registry.Provider(cfgB)
	require.NoError(t, err)
	require.Equal(t, 2, *builds)

	registry.InvalidateAll()

	_, err = registry.Provider(cfgA)
	require.NoError(t, err)
	assert.Equal(t, 3, *builds)
}

func TestRegistry_StoreErrorPropagates(t *testing.T) {
	cause := errors.New("connection refused")
	registry, _ := newStubRegistry(stubConfigStore{err: cause})

	_, _, err := registry.Default(context.Background())
	assert.ErrorIs(t, err, cause)
}
