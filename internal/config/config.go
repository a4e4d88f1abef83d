package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables that override the config file.
const (
	EnvInsightsURL = "INSIGHTS_API_URL"
	EnvAuthURL     = "FINSIGHT_AUTH_URL"
	EnvToken       = "FINSIGHT_TOKEN"
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "FINSIGHT_JWT_SECRET"
)

const devJWTSecret = "finsight-dev-secret"

// Config holds all finsight configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Database   DatabaseConfig   `toml:"database"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
}

// APIConfig points the client at the auth and insights services.
type APIConfig struct {
	AuthURL     string `toml:"auth_url"`
	InsightsURL string `toml:"insights_url"`
	Token       string `toml:"token,omitempty"`
	TimeoutSec  int    `toml:"timeout_sec"`
}

// DatabaseConfig selects the user store used by seed and serve.
type DatabaseConfig struct {
	// URL is a postgres:// DSN or a SQLite file path. Empty means the default SQLite file.
	URL string `toml:"url,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig configures the development backend.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	JWTSecret   string `toml:"jwt_secret,omitempty"`
	FixturesDir string `toml:"fixtures_dir,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			AuthURL:     "http://localhost:3000",
			InsightsURL: "http://localhost:8000",
			TimeoutSec:  10,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finsight")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "finsight")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory that holds the default database.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "finsight")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "finsight")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads only the config file, without environment overrides. Used when
// the file is about to be rewritten so env values don't leak into it.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvInsightsURL); v != "" {
		cfg.API.InsightsURL = v
	}
	if v := os.Getenv(EnvAuthURL); v != "" {
		cfg.API.AuthURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.Server.JWTSecret = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// DatabaseURL returns the configured database, defaulting to a SQLite file in the cache dir.
func (c Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return filepath.Join(CacheDir(), "finsight.db")
}

// JWTSecret returns the signing secret for the dev backend. The fallback is only
// suitable for local development.
func (c Config) JWTSecret() string {
	if c.Server.JWTSecret != "" {
		return c.Server.JWTSecret
	}
	return devJWTSecret
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	for name, raw := range map[string]string{
		"api.auth_url":     c.API.AuthURL,
		"api.insights_url": c.API.InsightsURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", name, raw, err))
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("invalid %s %q: scheme must be http or https", name, raw))
		}
	}

	if c.API.TimeoutSec < 0 {
		errs = append(errs, fmt.Errorf("invalid api.timeout_sec %d: must not be negative", c.API.TimeoutSec))
	}

	if c.Appearance.Theme != "" && !isKnownTheme(c.Appearance.Theme) {
		errs = append(errs, fmt.Errorf("unknown theme %q: must be one of %s",
			c.Appearance.Theme, strings.Join(ThemeNames, ", ")))
	}

	if c.Server.Addr != "" && !strings.Contains(c.Server.Addr, ":") {
		errs = append(errs, fmt.Errorf("invalid server.addr %q: must be host:port", c.Server.Addr))
	}

	return errors.Join(errs...)
}

// ThemeNames lists the themes the TUI and CLI know how to render.
var ThemeNames = []string{"flexoki-dark", "catppuccin-mocha", "tokyo-night", "terminal"}

func isKnownTheme(name string) bool {
	for _, n := range ThemeNames {
		if n == name {
			return true
		}
	}
	return false
}
