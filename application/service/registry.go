// Package service provides application layer services that orchestrate
// domain operations: provider resolution, matching runs, catalog indexing,
// and cleanup.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reqmatch/reqmatch/domain/embedding"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/infrastructure/provider"
	"github.com/reqmatch/reqmatch/internal/secret"
)

// ProviderFactory builds a provider from a configuration and its decrypted
// API key.
type ProviderFactory func(cfg embedding.ModelConfig, apiKey string) (embedding.Provider, error)

// Registry resolves model configurations to provider instances. Instances
// are cached per configuration ID; editing a configuration must be followed
// by Invalidate so the next run picks up the change.
type Registry struct {
	configs   embedding.ConfigStore
	cipher    *secret.Cipher
	logger    *slog.Logger
	factories map[embedding.Kind]ProviderFactory

	mu    sync.RWMutex
	cache map[int64]embedding.Provider
}

// NewRegistry creates a Registry with the built-in provider factories.
// modelCacheDir is where local models are looked up and extracted.
func NewRegistry(configs embedding.ConfigStore, cipher *secret.Cipher, modelCacheDir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	hosted := func(cfg embedding.ModelConfig, apiKey string) (embedding.Provider, error) {
		return provider.NewHostedProvider(cfg, apiKey)
	}

	return &Registry{
		configs: configs,
		cipher:  cipher,
		logger:  logger,
		factories: map[embedding.Kind]ProviderFactory{
			embedding.KindOpenAI:           hosted,
			embedding.KindOpenAICompatible: hosted,
			embedding.KindSiliconFlow:      hosted,
			embedding.KindZhipu:            hosted,
			embedding.KindQwen:             hosted,
			embedding.KindLocal: func(cfg embedding.ModelConfig, _ string) (embedding.Provider, error) {
				return provider.NewLocalProvider(cfg, modelCacheDir), nil
			},
		},
		cache: make(map[int64]embedding.Provider),
	}
}

// RegisterFactory replaces or adds the factory for a provider kind.
func (r *Registry) RegisterFactory(kind embedding.Kind, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Default resolves the provider for the active default configuration. When
// no default is flagged, the oldest active configuration is used. With no
// active configuration at all it returns embedding.ErrNoActiveConfig.
func (r *Registry) Default(ctx context.Context) (embedding.Provider, embedding.ModelConfig, error) {
	cfg, err := r.configs.FindOne(ctx, repository.WithActive(), repository.WithDefault())
	if errors.Is(err, embedding.ErrConfigNotFound) {
		candidates, ferr := r.configs.Find(ctx,
			repository.WithActive(),
			repository.WithOrderAsc("id"),
			repository.WithLimit(1),
		)
		if ferr != nil {
			return nil, embedding.ModelConfig{}, ferr
		}
		if len(candidates) == 0 {
			return nil, embedding.ModelConfig{}, embedding.ErrNoActiveConfig
		}
		cfg = candidates[0]
	} else if err != nil {
		return nil, embedding.ModelConfig{}, err
	}

	p, err := r.Provider(cfg)
	if err != nil {
		return nil, embedding.ModelConfig{}, err
	}
	return p, cfg, nil
}

// ByID resolves the provider for a specific configuration.
func (r *Registry) ByID(ctx context.Context, id int64) (embedding.Provider, embedding.ModelConfig, error) {
	cfg, err := r.configs.FindOne(ctx, repository.WithID(id))
	if err != nil {
		return nil, embedding.ModelConfig{}, err
	}

	p, err := r.Provider(cfg)
	if err != nil {
		return nil, embedding.ModelConfig{}, err
	}
	return p, cfg, nil
}

// Provider returns a cached or freshly built provider for the configuration.
func (r *Registry) Provider(cfg embedding.ModelConfig) (embedding.Provider, error) {
	r.mu.RLock()
	if p, ok := r.cache[cfg.ID()]; ok && cfg.ID() != 0 {
		r.mu.RUnlock()
		return p, nil
	}
	factory, known := r.factories[cfg.Kind()]
	r.mu.RUnlock()

	if !known {
		return nil, &embedding.UnsupportedKindError{Kind: cfg.Kind(), Known: r.knownKinds()}
	}

	apiKey, err := r.decryptKey(cfg)
	if err != nil {
		return nil, err
	}

	p, err := factory(cfg, apiKey)
	if err != nil {
		return nil, err
	}

	if cfg.ID() != 0 {
		r.mu.Lock()
		r.cache[cfg.ID()] = p
		r.mu.Unlock()
	}

	r.logger.Debug("provider created", "model", cfg.Name(), "kind", string(cfg.Kind()))
	return p, nil
}

// TestConnection builds the provider for a configuration and probes it.
func (r *Registry) TestConnection(ctx context.Context, id int64) error {
	p, _, err := r.ByID(ctx, id)
	if err != nil {
		return err
	}
	return p.TestConnection(ctx)
}

// Invalidate drops the cached provider for one configuration.
func (r *Registry) Invalidate(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, id)
}

// InvalidateAll drops every cached provider.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[int64]embedding.Provider)
}

func (r *Registry) decryptKey(cfg embedding.ModelConfig) (string, error) {
	encrypted := cfg.EncryptedKey()
	if encrypted == "" || r.cipher == nil {
		return encrypted, nil
	}
	key, err := r.cipher.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt credential for %q: %w", cfg.Name(), err)
	}
	return key, nil
}

func (r *Registry) knownKinds() []embedding.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]embedding.Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	return kinds
}
