// Package config loads controller settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/setup-tuner/internal/gate"
	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/session"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// #region types

// Config is the full controller configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Gate   GateConfig   `yaml:"gate"`
}

// StoreConfig selects the session backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // sqlite | bolt
	Path    string `yaml:"path"`
}

// ServerConfig configures the gRPC listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig mirrors logging.Config for YAML.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GateConfig mirrors gate.GateConfig for YAML.
type GateConfig struct {
	CheckVocabulary bool `yaml:"check_vocabulary"`
	CheckAllowed    bool `yaml:"check_allowed"`
	CheckRange      bool `yaml:"check_range"`
	CheckSuggestion bool `yaml:"check_suggestion"`
}

// #endregion types

// #region defaults

// DefaultConfig returns a local SQLite store and a loopback listener.
func DefaultConfig() Config {
	g := gate.DefaultGateConfig()
	return Config{
		Store:  StoreConfig{Backend: "sqlite", Path: "setup_tuner.db"},
		Server: ServerConfig{Addr: "localhost:50061"},
		Log:    LogConfig{Level: "info", Format: "console"},
		Gate: GateConfig{
			CheckVocabulary: g.CheckVocabulary,
			CheckAllowed:    g.CheckAllowed,
			CheckRange:      g.CheckRange,
			CheckSuggestion: g.CheckSuggestion,
		},
	}
}

// #endregion defaults

// #region load

// Load reads path (if non-empty) over the defaults, then applies env overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Store.Path = envOr("TUNER_DB", c.Store.Path)
	c.Store.Backend = envOr("TUNER_STORE", c.Store.Backend)
	c.Server.Addr = envOr("TUNER_ADDR", c.Server.Addr)
	c.Log.Level = envOr("TUNER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("TUNER_LOG_FORMAT", c.Log.Format)
}

// Validate checks enumerated fields and required values.
func (c Config) Validate() error {
	if !session.KnownBackend(c.Store.Backend) {
		return fmt.Errorf("%w: store.backend %q (want sqlite or bolt)", ErrInvalidConfig, c.Store.Backend)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is empty", ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q (want json or console)", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// #endregion load

// #region conversions

// Logging converts to a logging.Config.
func (c Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	return lc
}

// GateSettings converts to a gate.GateConfig.
func (c Config) GateSettings() gate.GateConfig {
	return gate.GateConfig{
		CheckVocabulary: c.Gate.CheckVocabulary,
		CheckAllowed:    c.Gate.CheckAllowed,
		CheckRange:      c.Gate.CheckRange,
		CheckSuggestion: c.Gate.CheckSuggestion,
	}
}

// #endregion conversions

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
