package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "localhost:50061", cfg.Server.Addr)
	assert.True(t, cfg.GateSettings().CheckSuggestion)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: bolt
  path: /tmp/tuner.bolt
log:
  level: debug
  format: json
gate:
  check_suggestion: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Store.Backend)
	assert.Equal(t, "/tmp/tuner.bolt", cfg.Store.Path)
	assert.Equal(t, "localhost:50061", cfg.Server.Addr, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging().Level)
	assert.Equal(t, "json", cfg.Logging().Format)
	assert.False(t, cfg.GateSettings().CheckSuggestion)
	assert.True(t, cfg.GateSettings().CheckVocabulary)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: 0.0.0.0:9000\n")
	t.Setenv("TUNER_ADDR", "127.0.0.1:7000")
	t.Setenv("TUNER_DB", "env.db")
	t.Setenv("TUNER_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "env.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: postgres\n")
	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	t.Setenv("TUNER_LOG_FORMAT", "xml")
	_, err = Load("")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Store.Path = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Server.Addr = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	for _, backend := range []string{"sqlite", "bolt", "bbolt"} {
		cfg = DefaultConfig()
		cfg.Store.Backend = backend
		assert.NoError(t, cfg.Validate(), "backend %s", backend)
	}
	cfg = DefaultConfig()
	cfg.Store.Backend = "postgres"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
