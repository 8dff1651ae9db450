package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envConfig mirrors the environment variables, prefixed with RM_.
type envConfig struct {
	DBURL            string  `envconfig:"DB_URL"`
	LogLevel         string  `envconfig:"LOG_LEVEL"`
	LogFormat        string  `envconfig:"LOG_FORMAT"`
	SecretKey        string  `envconfig:"SECRET_KEY"`
	MatchedThreshold float64 `envconfig:"MATCHED_THRESHOLD"`
	DefaultThreshold float64 `envconfig:"DEFAULT_THRESHOLD"`
	MatchLimit       int     `envconfig:"MATCH_LIMIT"`
	BatchSize        int     `envconfig:"BATCH_SIZE"`
	EncodeWorkers    int     `envconfig:"ENCODE_WORKERS"`
	ItemMaxChars     int     `envconfig:"ITEM_MAX_CHARS"`
}

// LoadFromEnv builds an AppConfig from RM_-prefixed environment variables,
// applying defaults for anything unset.
func LoadFromEnv() (AppConfig, error) {
	var env envConfig
	if err := envconfig.Process("RM", &env); err != nil {
		return AppConfig{}, fmt.Errorf("process environment: %w", err)
	}

	cfg := NewAppConfig()

	if env.DBURL != "" {
		cfg = cfg.WithDatabaseURL(env.DBURL)
	}
	if env.LogLevel != "" {
		cfg = cfg.WithLogLevel(strings.ToUpper(env.LogLevel))
	}
	switch strings.ToLower(env.LogFormat) {
	case "":
		// keep default
	case string(LogFormatJSON):
		cfg = cfg.WithLogFormat(LogFormatJSON)
	case string(LogFormatPretty):
		cfg = cfg.WithLogFormat(LogFormatPretty)
	default:
		return AppConfig{}, fmt.Errorf("unknown log format %q", env.LogFormat)
	}
	if env.SecretKey != "" {
		cfg = cfg.WithSecretKey(env.SecretKey)
	}

	matched := cfg.MatchedThreshold()
	partial := cfg.PartialThreshold()
	if env.MatchedThreshold > 0 {
		matched = env.MatchedThreshold
	}
	if env.DefaultThreshold > 0 {
		partial = env.DefaultThreshold
	}
	cfg = cfg.WithThresholds(matched, partial)

	if env.MatchLimit > 0 {
		cfg = cfg.WithMatchLimit(env.MatchLimit)
	}
	if env.BatchSize > 0 {
		cfg = cfg.WithBatchSize(env.BatchSize)
	}
	if env.EncodeWorkers > 0 {
		cfg = cfg.WithEncodeWorkers(env.EncodeWorkers)
	}
	if env.ItemMaxChars > 0 {
		cfg = cfg.WithItemMaxChars(env.ItemMaxChars)
	}

	return cfg, nil
}

// LoadConfig loads configuration from a .env file (optional) and environment
// variables. Environment variables win over .env values already set.
func LoadConfig(envPath string) (AppConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}
	return LoadFromEnv()
}
