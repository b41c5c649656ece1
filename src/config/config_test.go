package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Storage)
	assert.Equal(t, "soulverse.db", cfg.DBPath)
	assert.Equal(t, "soul-universe", cfg.PersistKey)
	assert.Equal(t, 20, cfg.Seed)
	assert.Equal(t, 200*time.Millisecond, cfg.Interval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Interactive)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SOULVERSE_DB_PATH", "/tmp/other.db")
	t.Setenv("SOULVERSE_INTERACTIVE", "true")
	t.Setenv("SOULVERSE_INTERVAL", "1s")
	t.Setenv("SOULVERSE_SEED", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.True(t, cfg.Interactive)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 3, cfg.Seed)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("SOULVERSE_SEED", "many")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	bad := cfg
	bad.Seed = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.LogLevel = "loud"
	assert.Error(t, bad.Validate())
}

func TestNewLoggerInteractiveWithoutFileIsNop(t *testing.T) {
	cfg := Config{Interactive: true, LogLevel: "debug"}

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(0))
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soulverse.log")
	cfg := Config{Interactive: true, LogLevel: "warn", LogFile: path}

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	logger.Warn("written")
	_ = logger.Sync()

	assert.FileExists(t, path)
}

func TestUniverseOptions(t *testing.T) {
	cfg := Config{PersistKey: "custom"}

	o := cfg.UniverseOptions(nil, nil)

	assert.Equal(t, "custom", o.PersistKey)
	assert.Nil(t, o.KV)
}
