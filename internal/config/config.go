// Package config provides application configuration.
package config

// Default configuration values.
const (
	DefaultDatabaseURL      = "sqlite://reqmatch.db"
	DefaultLogLevel         = "INFO"
	DefaultMatchedThreshold = 0.85
	DefaultPartialThreshold = 0.75
	DefaultMatchLimit       = 5
	DefaultBatchSize        = 10
	DefaultEncodeWorkers    = 4
	// DefaultItemMaxChars is the character budget applied to item text
	// before encoding. It approximates the strictest hosted-provider token
	// limit; longer text is truncated silently.
	DefaultItemMaxChars = 300

	// DefaultModelDir is where local embedding models are looked up.
	DefaultModelDir = ".reqmatch/models"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig is the resolved application configuration.
type AppConfig struct {
	databaseURL      string
	logLevel         string
	logFormat        LogFormat
	secretKey        string
	matchedThreshold float64
	partialThreshold float64
	matchLimit       int
	batchSize        int
	encodeWorkers    int
	itemMaxChars     int
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		databaseURL:      DefaultDatabaseURL,
		logLevel:         DefaultLogLevel,
		logFormat:        LogFormatPretty,
		matchedThreshold: DefaultMatchedThreshold,
		partialThreshold: DefaultPartialThreshold,
		matchLimit:       DefaultMatchLimit,
		batchSize:        DefaultBatchSize,
		encodeWorkers:    DefaultEncodeWorkers,
		itemMaxChars:     DefaultItemMaxChars,
	}
}

// DatabaseURL returns the database connection URL.
func (c AppConfig) DatabaseURL() string { return c.databaseURL }

// LogLevel returns the log level name.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// SecretKey returns the base64-encoded credential encryption key.
func (c AppConfig) SecretKey() string { return c.secretKey }

// MatchedThreshold returns the process-wide matched-tier threshold.
func (c AppConfig) MatchedThreshold() float64 { return c.matchedThreshold }

// PartialThreshold returns the default per-run partial threshold.
func (c AppConfig) PartialThreshold() float64 { return c.partialThreshold }

// MatchLimit returns the per-item candidate limit.
func (c AppConfig) MatchLimit() int { return c.matchLimit }

// BatchSize returns the encode batch size.
func (c AppConfig) BatchSize() int { return c.batchSize }

// EncodeWorkers returns the bound on parallel encode batches.
func (c AppConfig) EncodeWorkers() int { return c.encodeWorkers }

// ItemMaxChars returns the item text character budget.
func (c AppConfig) ItemMaxChars() int { return c.itemMaxChars }

// WithDatabaseURL returns a copy with the database URL set.
func (c AppConfig) WithDatabaseURL(url string) AppConfig {
	c.databaseURL = url
	return c
}

// WithLogLevel returns a copy with the log level set.
func (c AppConfig) WithLogLevel(level string) AppConfig {
	c.logLevel = level
	return c
}

// WithLogFormat returns a copy with the log format set.
func (c AppConfig) WithLogFormat(format LogFormat) AppConfig {
	c.logFormat = format
	return c
}

// WithSecretKey returns a copy with the credential key set.
func (c AppConfig) WithSecretKey(key string) AppConfig {
	c.secretKey = key
	return c
}

// WithThresholds returns a copy with both classification thresholds set.
func (c AppConfig) WithThresholds(matched, partial float64) AppConfig {
	c.matchedThreshold = matched
	c.partialThreshold = partial
	return c
}

// WithMatchLimit returns a copy with the per-item candidate limit set.
func (c AppConfig) WithMatchLimit(n int) AppConfig {
	c.matchLimit = n
	return c
}

// WithBatchSize returns a copy with the encode batch size set.
func (c AppConfig) WithBatchSize(n int) AppConfig {
	c.batchSize = n
	return c
}

// WithEncodeWorkers returns a copy with the encode worker bound set.
func (c AppConfig) WithEncodeWorkers(n int) AppConfig {
	c.encodeWorkers = n
	return c
}

// WithItemMaxChars returns a copy with the item character budget set.
func (c AppConfig) WithItemMaxChars(n int) AppConfig {
	c.itemMaxChars = n
	return c
}
