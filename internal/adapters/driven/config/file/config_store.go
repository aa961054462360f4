// Package file loads onenote-cli settings from a TOML file.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft"
	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft/onenote"
	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

// Environment variables that override file settings.
const (
	EnvClientID = "ONENOTE_CLIENT_ID"
	EnvTenant   = "ONENOTE_TENANT"
)

// Defaults applied when a setting is absent.
const (
	DefaultTenant  = "common"
	DefaultBaseURL = onenote.DefaultBaseURL
	DefaultTimeout = onenote.DefaultTimeout
)

// Config is the complete settings document.
type Config struct {
	Auth  AuthConfig  `toml:"auth"`
	Cache CacheConfig `toml:"cache"`
	Graph GraphConfig `toml:"graph"`
}

// AuthConfig configures the device-code sign-in.
type AuthConfig struct {
	ClientID  string   `toml:"client_id"`
	Tenant    string   `toml:"tenant"`
	Authority string   `toml:"authority,omitempty"`
	Scopes    []string `toml:"scopes,omitempty"`
}

// CacheConfig selects where the token cache is persisted.
type CacheConfig struct {
	Backend domain.CacheBackend `toml:"backend"`
	Path    string              `toml:"path,omitempty"`
}

// GraphConfig configures the Microsoft Graph client.
type GraphConfig struct {
	BaseURL           string   `toml:"base_url"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Burst             int      `toml:"burst"`
}

// Duration is a time.Duration written as a string such as "60s".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Default returns the settings used when no file exists.
func Default() *Config {
	limits := microsoft.DefaultRateLimits[microsoft.ServiceOneNote]
	return &Config{
		Auth:  AuthConfig{Tenant: DefaultTenant},
		Cache: CacheConfig{Backend: domain.CacheBackendFile},
		Graph: GraphConfig{
			BaseURL:           DefaultBaseURL,
			Timeout:           Duration{DefaultTimeout},
			RequestsPerSecond: limits.RequestsPerSecond,
			Burst:             limits.BurstSize,
		},
	}
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case domain.CacheBackendFile, domain.CacheBackendSQLite:
	default:
		return &domain.ValidationError{Field: "cache.backend", Message: fmt.Sprintf("unknown backend %q", c.Cache.Backend)}
	}
	if c.Graph.Timeout.Duration < 0 {
		return &domain.ValidationError{Field: "graph.timeout", Message: "must not be negative"}
	}
	if c.Graph.RequestsPerSecond < 0 {
		return &domain.ValidationError{Field: "graph.requests_per_second", Message: "must not be negative"}
	}
	return nil
}

// ConfigStore reads and writes the settings file.
type ConfigStore struct {
	path string
}

// NewConfigStore creates a store for path. An empty path selects
// ~/.onenote/config.toml.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}
	return &ConfigStore{path: path}, nil
}

// DefaultDir returns ~/.onenote.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".onenote"), nil
}

// Path returns the settings file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// Load reads the settings file over the defaults and applies environment
// overrides. A missing file is not an error.
func (s *ConfigStore) Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
		}
	}

	applyEnv(cfg)
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the settings file.
func (s *ConfigStore) Save(cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvClientID)); v != "" {
		cfg.Auth.ClientID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTenant)); v != "" {
		cfg.Auth.Tenant = v
	}
}

// fillDefaults restores defaults for keys a file set to empty values.
func fillDefaults(cfg *Config) {
	if cfg.Auth.Tenant == "" {
		cfg.Auth.Tenant = DefaultTenant
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = domain.CacheBackendFile
	}
	if cfg.Graph.BaseURL == "" {
		cfg.Graph.BaseURL = DefaultBaseURL
	}
	if cfg.Graph.Timeout.Duration == 0 {
		cfg.Graph.Timeout.Duration = DefaultTimeout
	}
}
