// Package reqmatch matches capability requirements against a product
// feature catalog using embedding similarity.
//
// Requirement text is split into items, each item is encoded with the
// configured embedding provider, and the top candidate features are scored,
// classified against two thresholds, and persisted as match records.
//
// Basic usage:
//
//	client, err := reqmatch.New(
//	    reqmatch.WithSQLite(".reqmatch/data.db"),
//	    reqmatch.WithSecretKey(os.Getenv("RM_SECRET_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	req, _, err := client.Requirements.Create(ctx, "SSO rollout", text, "alice")
//	summary, err := client.Matching.Run(ctx, req.ID())
//	results, err := client.Matching.Results(ctx, req.ID())
package reqmatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/reqmatch/reqmatch/application/service"
	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/infrastructure/persistence"
	"github.com/reqmatch/reqmatch/infrastructure/search"
	"github.com/reqmatch/reqmatch/internal/database"
	"github.com/reqmatch/reqmatch/internal/log"
	"github.com/reqmatch/reqmatch/internal/secret"
)

// Client is the main entry point for the reqmatch library.
//
// Access operations via struct fields:
//
//	client.Requirements.Create(ctx, title, text, user)
//	client.Matching.Run(ctx, requirementID)
//	client.Catalog.IndexFeatures(ctx)
type Client struct {
	// Public resource fields (direct service access)
	Requirements *service.RequirementService
	Matching     *service.MatchingService
	Catalog      *service.CatalogService
	Cleanup      *service.CleanupService
	Providers    *service.Registry

	// Stores exposed for configuration management
	Configs  persistence.ConfigStore
	Products persistence.ProductStore
	Features persistence.FeatureStore

	db     database.Database
	cipher *secret.Cipher
	logger *log.Logger
	closed atomic.Bool
}

// New creates a Client with the given options and runs migrations.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.NewLogger(cfg.appConfig)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.appConfig.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	var cipher *secret.Cipher
	if key := cfg.appConfig.SecretKey(); key != "" {
		cipher, err = secret.NewCipher(key)
		if err != nil {
			errClose := db.Close()
			return nil, errors.Join(err, errClose)
		}
	}

	configStore := persistence.NewConfigStore(db)
	productStore := persistence.NewProductStore(db)
	featureStore := persistence.NewFeatureStore(db)
	embeddingStore := persistence.NewFeatureEmbeddingStore(db)
	requirementStore := persistence.NewRequirementStore(db)
	itemStore := persistence.NewItemStore(db)
	recordStore := persistence.NewRecordStore(db)

	registry := service.NewRegistry(configStore, cipher, cfg.modelDir, logger.Slog())

	searcher := cfg.searcher
	if searcher == nil {
		searcher = buildSearcher(db, logger)
	}

	client := &Client{
		Requirements: service.NewRequirementService(requirementStore, itemStore, logger),
		Matching: service.NewMatchingService(
			db, requirementStore, itemStore, recordStore,
			searcher, registry, cfg.appConfig, logger,
		),
		Catalog: service.NewCatalogService(
			productStore, featureStore, embeddingStore,
			registry, cfg.appConfig, logger,
		),
		Cleanup:   service.NewCleanupService(productStore, featureStore, embeddingStore, logger),
		Providers: registry,
		Configs:   configStore,
		Products:  productStore,
		Features:  featureStore,
		db:        db,
		cipher:    cipher,
		logger:    logger,
	}

	logger.Info("reqmatch client ready",
		"driver", driverName(db),
		"match_limit", cfg.appConfig.MatchLimit(),
	)
	return client, nil
}

// buildSearcher picks the candidate search path for the database driver:
// pgvector-accelerated on PostgreSQL, exhaustive in-process scan on SQLite.
func buildSearcher(db database.Database, logger *log.Logger) matching.CandidateSearcher {
	if db.IsPostgres() {
		return search.NewIndexSearch(search.NewPgVectorIndex(db, logger.Slog()))
	}
	return search.NewScanSearch(persistence.NewSQLiteFeatureEmbeddingStore(db), logger.Slog())
}

func driverName(db database.Database) string {
	if db.IsPostgres() {
		return "postgres"
	}
	return "sqlite"
}

// DB returns the underlying database handle.
func (c *Client) DB() database.Database {
	return c.db
}

// EncryptKey encrypts an API key for storage in a provider configuration.
// Without a configured secret key the value passes through unchanged.
func (c *Client) EncryptKey(apiKey string) (string, error) {
	if c.cipher == nil || apiKey == "" {
		return apiKey, nil
	}
	return c.cipher.Encrypt(apiKey)
}

// Close releases the database connection. The client must not be used after
// Close.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return service.ErrClientClosed
	}
	return c.db.Close()
}
