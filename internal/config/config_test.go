package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	for _, k := range []string{EnvInsightsURL, EnvAuthURL, EnvToken, EnvDatabaseURL, EnvJWTSecret} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.InsightsURL != "http://localhost:8000" {
		t.Errorf("InsightsURL = %q", cfg.API.InsightsURL)
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
	if want := filepath.Join(dir, "finsight", "finsight.db"); cfg.DatabaseURL() != want {
		t.Errorf("DatabaseURL() = %q, want %q", cfg.DatabaseURL(), want)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestSaveLoad_RoundTripAndEnvOverride(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.API.Token = "file-token"
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %o, want 600", info.Mode().Perm())
	}

	t.Setenv(EnvInsightsURL, "http://insights.test:9000")
	t.Setenv(EnvToken, "env-token")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q", got.Appearance.Theme)
	}
	if got.API.InsightsURL != "http://insights.test:9000" || got.API.Token != "env-token" {
		t.Errorf("env overrides not applied: %+v", got.API)
	}

	fileOnly, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fileOnly.API.Token != "file-token" {
		t.Errorf("LoadFile token = %q, want file-token", fileOnly.API.Token)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	isolate(t)
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("[api\nbroken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing error", err)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.API.InsightsURL = "ftp://nope"
	cfg.Appearance.Theme = "neon"
	cfg.Server.Addr = "3000"
	cfg.API.TimeoutSec = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"api.insights_url", "theme", "server.addr", "timeout_sec"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestJWTSecretFallback(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.JWTSecret() == "" {
		t.Fatal("empty fallback secret")
	}
	cfg.Server.JWTSecret = "s3cret"
	if cfg.JWTSecret() != "s3cret" {
		t.Errorf("JWTSecret() = %q", cfg.JWTSecret())
	}
}
