package reqmatch

import (
	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/internal/config"
	"github.com/reqmatch/reqmatch/internal/log"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	appConfig config.AppConfig
	logger    *log.Logger
	modelDir  string
	searcher  matching.CandidateSearcher
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		appConfig: config.NewAppConfig(),
		modelDir:  config.DefaultModelDir,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database. Candidate search runs as an
// in-process scan.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.appConfig = c.appConfig.WithDatabaseURL("sqlite://" + path)
	}
}

// WithPostgres configures PostgreSQL as the database. Candidate search is
// delegated to the pgvector extension.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.appConfig = c.appConfig.WithDatabaseURL(dsn)
	}
}

// WithDatabaseURL sets the database URL directly (sqlite:// or postgres://).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.appConfig = c.appConfig.WithDatabaseURL(url)
	}
}

// WithConfig replaces the whole application configuration, for example one
// loaded from the environment.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.appConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithSecretKey sets the passphrase used to encrypt provider credentials at
// rest. Without it, credentials are stored as given.
func WithSecretKey(key string) Option {
	return func(c *clientConfig) {
		c.appConfig = c.appConfig.WithSecretKey(key)
	}
}

// WithThresholds sets the matched and partial classification thresholds.
func WithThresholds(matched, partial float64) Option {
	return func(c *clientConfig) {
		c.appConfig = c.appConfig.WithThresholds(matched, partial)
	}
}

// WithMatchLimit sets the number of candidates kept per item.
func WithMatchLimit(n int) Option {
	return func(c *clientConfig) {
		c.appConfig = c.appConfig.WithMatchLimit(n)
	}
}

// WithModelDir sets the directory local embedding models are loaded from.
func WithModelDir(dir string) Option {
	return func(c *clientConfig) {
		c.modelDir = dir
	}
}

// WithSearcher overrides the candidate searcher, bypassing the
// driver-based selection. Used mainly by tests.
func WithSearcher(searcher matching.CandidateSearcher) Option {
	return func(c *clientConfig) {
		c.searcher = searcher
	}
}
