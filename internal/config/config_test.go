package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var keyEnvVars = []string{
	"ENTITYLENS_SOURCES_FMP_API_KEY", "FMP_API_KEY",
	"ENTITYLENS_SOURCES_FINNHUB_API_KEY", "FINNHUB_API_KEY",
}

// clearKeyEnv blanks the key variables for the duration of the test. Viper
// treats an empty variable as unset.
func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, e := range keyEnvVars {
		t.Setenv(e, "")
	}
}

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Sources
	if cfg.Sources.FMP.BaseURL != "https://financialmodelingprep.com/api/v3" {
		t.Errorf("Sources.FMP.BaseURL: got %q", cfg.Sources.FMP.BaseURL)
	}
	if cfg.Sources.FMP.Timeout != 10*time.Second {
		t.Errorf("Sources.FMP.Timeout: got %s, want 10s", cfg.Sources.FMP.Timeout)
	}
	if cfg.Sources.Finnhub.BaseURL != "https://finnhub.io/api/v1" {
		t.Errorf("Sources.Finnhub.BaseURL: got %q", cfg.Sources.Finnhub.BaseURL)
	}
	if cfg.Sources.Yahoo.Timeout != 15*time.Second {
		t.Errorf("Sources.Yahoo.Timeout: got %s, want 15s", cfg.Sources.Yahoo.Timeout)
	}
	if cfg.Sources.FMP.APIKey != "" || cfg.Sources.Finnhub.APIKey != "" {
		t.Error("API keys should be empty by default")
	}

	// Feeds
	if cfg.Feeds.News.Limit != 5 {
		t.Errorf("Feeds.News.Limit: got %d, want 5", cfg.Feeds.News.Limit)
	}
	if cfg.Feeds.Reddit.Limit != 8 {
		t.Errorf("Feeds.Reddit.Limit: got %d, want 8", cfg.Feeds.Reddit.Limit)
	}
	if cfg.Feeds.Reddit.BaseURL != "https://www.reddit.com/search.json" {
		t.Errorf("Feeds.Reddit.BaseURL: got %q", cfg.Feeds.Reddit.BaseURL)
	}

	// Cache
	if cfg.Cache.Backend != CacheMemory {
		t.Errorf("Cache.Backend: got %q, want %q", cfg.Cache.Backend, CacheMemory)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL: got %s, want 10m", cfg.Cache.TTL)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.API.Addr() != "0.0.0.0:8080" {
		t.Errorf("API.Addr: got %q", cfg.API.Addr())
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	clearKeyEnv(t)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
sources:
  fmp:
    api_key: "fmp_key_12345678901234"
    timeout: 3s
  yahoo:
    base_url: "http://localhost:9999"
feeds:
  news:
    limit: 3
cache:
  backend: "redis"
  ttl: 90s
  redis_url: "redis://cache:6379/1"
api:
  port: 9090
  cors_origins: ["https://app.example.com"]
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Sources.FMP.APIKey != "fmp_key_12345678901234" {
		t.Errorf("Sources.FMP.APIKey: got %q", cfg.Sources.FMP.APIKey)
	}
	if cfg.Sources.FMP.Timeout != 3*time.Second {
		t.Errorf("Sources.FMP.Timeout: got %s, want 3s", cfg.Sources.FMP.Timeout)
	}
	if cfg.Sources.FMP.BaseURL != "https://financialmodelingprep.com/api/v3" {
		t.Errorf("unset keys should keep defaults, got base_url %q", cfg.Sources.FMP.BaseURL)
	}
	if cfg.Sources.Yahoo.BaseURL != "http://localhost:9999" {
		t.Errorf("Sources.Yahoo.BaseURL: got %q", cfg.Sources.Yahoo.BaseURL)
	}
	if cfg.Feeds.News.Limit != 3 {
		t.Errorf("Feeds.News.Limit: got %d, want 3", cfg.Feeds.News.Limit)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache: got %+v", cfg.Cache)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("Cache.RedisURL: got %q", cfg.Cache.RedisURL)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "https://app.example.com" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestPrefixedEnvOverridesFile(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("ENTITYLENS_API_PORT", "7070")
	t.Setenv("ENTITYLENS_SOURCES_FINNHUB_API_KEY", "finnhub-env-key")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("api:\n  port: 9090\n"), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port: got %d, want 7070", cfg.API.Port)
	}
	if cfg.Sources.Finnhub.APIKey != "finnhub-env-key" {
		t.Errorf("Sources.Finnhub.APIKey: got %q", cfg.Sources.Finnhub.APIKey)
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("FMP_API_KEY", "fmp-plain-key")
	t.Setenv("FINNHUB_API_KEY", "finnhub-plain-key")

	cfg := &Config{}
	overrideFromEnv(cfg)

	if cfg.Sources.FMP.APIKey != "fmp-plain-key" {
		t.Errorf("FMP.APIKey: got %q", cfg.Sources.FMP.APIKey)
	}
	if cfg.Sources.Finnhub.APIKey != "finnhub-plain-key" {
		t.Errorf("Finnhub.APIKey: got %q", cfg.Sources.Finnhub.APIKey)
	}
}

func TestOverrideFromEnvKeepsConfiguredKey(t *testing.T) {
	t.Setenv("FMP_API_KEY", "fmp-plain-key")

	cfg := &Config{Sources: SourcesConfig{FMP: APISourceConfig{APIKey: "from-config"}}}
	overrideFromEnv(cfg)

	if cfg.Sources.FMP.APIKey != "from-config" {
		t.Errorf("FMP.APIKey should stay as 'from-config', got %q", cfg.Sources.FMP.APIKey)
	}
}

// ── LoadDotEnv ──

func TestLoadDotEnv(t *testing.T) {
	// Register cleanup, then unset so the file value is applied.
	t.Setenv("ENTITYLENS_TEST_DOTENV", "")
	os.Unsetenv("ENTITYLENS_TEST_DOTENV")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ENTITYLENS_TEST_DOTENV=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if got := os.Getenv("ENTITYLENS_TEST_DOTENV"); got != "from-dotenv" {
		t.Errorf("ENTITYLENS_TEST_DOTENV: got %q", got)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	t.Setenv("ENTITYLENS_TEST_DOTENV", "from-shell")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ENTITYLENS_TEST_DOTENV=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if got := os.Getenv("ENTITYLENS_TEST_DOTENV"); got != "from-shell" {
		t.Errorf("ENTITYLENS_TEST_DOTENV: got %q, want from-shell", got)
	}
}

// ── Validate ──

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Cache: CacheConfig{Backend: CacheMemory, TTL: time.Minute},
			API:   APIConfig{Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheRedis }, "cache.redis_url"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"bad port", func(c *Config) { c.API.Port = 70000 }, "api.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

// ── maskKey ──

func TestMaskKeyShort(t *testing.T) {
	// Keys with 8 or fewer characters should be fully masked
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"a", "***"},
		{"abcd", "***"},
		{"12345678", "***"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskKeyLong(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123456789", "123...789"},
		{"fmp-abcdef1234567890xyz", "fmp...xyz"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── CheckAPIKeys / checkKey ──

func TestCheckAPIKeysAllEmpty(t *testing.T) {
	clearKeyEnv(t)

	statuses := CheckAPIKeys(&Config{})
	if len(statuses) != 2 {
		t.Fatalf("CheckAPIKeys: got %d statuses, want 2", len(statuses))
	}
	for _, s := range statuses {
		if s.IsSet {
			t.Errorf("Key %q should not be set", s.Name)
		}
		if s.Source != KeySourceNone {
			t.Errorf("Key %q source: got %q, want %q", s.Name, s.Source, KeySourceNone)
		}
	}
}

func TestCheckAPIKeysSources(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("FINNHUB_API_KEY", "finnhub-env-key-value")

	cfg := &Config{Sources: SourcesConfig{
		FMP:     APISourceConfig{APIKey: "fmp-config-key-value"},
		Finnhub: APISourceConfig{APIKey: "finnhub-env-key-value"},
	}}
	statuses := CheckAPIKeys(cfg)

	if statuses[0].Source != KeySourceConfig {
		t.Errorf("FMP source: got %q, want %q", statuses[0].Source, KeySourceConfig)
	}
	if statuses[0].Masked != "fmp...lue" {
		t.Errorf("FMP masked: got %q", statuses[0].Masked)
	}
	if statuses[1].Source != KeySourceEnv {
		t.Errorf("Finnhub source: got %q, want %q", statuses[1].Source, KeySourceEnv)
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() should not return empty string")
	}
}
