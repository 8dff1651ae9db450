package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL())
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Equal(t, DefaultMatchedThreshold, cfg.MatchedThreshold())
	assert.Equal(t, DefaultPartialThreshold, cfg.PartialThreshold())
	assert.Equal(t, DefaultMatchLimit, cfg.MatchLimit())
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize())
	assert.Equal(t, DefaultEncodeWorkers, cfg.EncodeWorkers())
	assert.Equal(t, DefaultItemMaxChars, cfg.ItemMaxChars())
	assert.Empty(t, cfg.SecretKey())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RM_DB_URL", "postgres://localhost/reqmatch")
	t.Setenv("RM_LOG_LEVEL", "debug")
	t.Setenv("RM_LOG_FORMAT", "json")
	t.Setenv("RM_MATCHED_THRESHOLD", "0.9")
	t.Setenv("RM_DEFAULT_THRESHOLD", "0.65")
	t.Setenv("RM_MATCH_LIMIT", "3")
	t.Setenv("RM_BATCH_SIZE", "25")
	t.Setenv("RM_ENCODE_WORKERS", "8")
	t.Setenv("RM_ITEM_MAX_CHARS", "500")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/reqmatch", cfg.DatabaseURL())
	assert.Equal(t, "DEBUG", cfg.LogLevel())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, 0.9, cfg.MatchedThreshold())
	assert.Equal(t, 0.65, cfg.PartialThreshold())
	assert.Equal(t, 3, cfg.MatchLimit())
	assert.Equal(t, 25, cfg.BatchSize())
	assert.Equal(t, 8, cfg.EncodeWorkers())
	assert.Equal(t, 500, cfg.ItemMaxChars())
}

func TestLoadFromEnv_UnknownLogFormat(t *testing.T) {
	t.Setenv("RM_LOG_FORMAT", "xml")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RM_MATCH_LIMIT=7\nRM_LOG_LEVEL=warn\n"), 0o600))

	// Real environment wins over the file.
	t.Setenv("RM_LOG_LEVEL", "error")
	// godotenv writes into the process environment; keep other tests clean.
	t.Cleanup(func() { _ = os.Unsetenv("RM_MATCH_LIMIT") })

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MatchLimit())
	assert.Equal(t, "ERROR", cfg.LogLevel())
}

func TestLoadConfig_MissingFileIgnored(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMatchLimit, cfg.MatchLimit())
}
