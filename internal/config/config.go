// Package config handles configuration loading for entitylens.
// It supports YAML config files with environment variable overrides and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ENTITYLENS_API_PORT.
const EnvPrefix = "ENTITYLENS"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config represents the complete application configuration.
type Config struct {
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	Feeds   FeedsConfig   `mapstructure:"feeds"   yaml:"feeds"`
	Cache   CacheConfig   `mapstructure:"cache"   yaml:"cache"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	HTTP    HTTPConfig    `mapstructure:"http"    yaml:"http"`
}

// SourcesConfig holds the financial source adapters.
type SourcesConfig struct {
	FMP     APISourceConfig  `mapstructure:"fmp"     yaml:"fmp"`
	Finnhub APISourceConfig  `mapstructure:"finnhub" yaml:"finnhub"`
	Yahoo   PageSourceConfig `mapstructure:"yahoo"   yaml:"yahoo"`
}

// APISourceConfig holds a keyed REST source.
type APISourceConfig struct {
	APIKey  string        `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// PageSourceConfig holds a scraped source.
type PageSourceConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// FeedsConfig holds the auxiliary feeds.
type FeedsConfig struct {
	News   FeedConfig `mapstructure:"news"   yaml:"news"`
	Reddit FeedConfig `mapstructure:"reddit" yaml:"reddit"`
}

// FeedConfig holds one feed endpoint.
type FeedConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Limit   int           `mapstructure:"limit"    yaml:"limit"`
	Timeout time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// CacheConfig selects the financial record cache.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"   yaml:"backend"` // "memory" or "redis"
	TTL      time.Duration `mapstructure:"ttl"       yaml:"ttl"`
	RedisURL string        `mapstructure:"redis_url" yaml:"redis_url"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// HTTPConfig holds outbound HTTP settings.
type HTTPConfig struct {
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.entitylens/config.yaml (home directory)
//  3. /etc/entitylens/config.yaml (system)
//
// A .env file in the working directory is loaded first; it never overrides
// variables already set. Environment variables override config file values.
// Format: ENTITYLENS_<SECTION>_<KEY>, e.g., ENTITYLENS_SOURCES_FMP_API_KEY
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".entitylens"))
	v.AddConfigPath("/etc/entitylens")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error loading %s: %w", p, err)
		}
	}
	return nil
}

// Validate reports settings that would make the service unusable.
func (c *Config) Validate() error {
	var errs []error
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q: want %q or %q", c.Cache.Backend, CacheMemory, CacheRedis))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL))
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port out of range: %d", c.API.Port))
	}
	return errors.Join(errs...)
}

// Addr returns the API listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Financial sources
	v.SetDefault("sources.fmp.api_key", "")
	v.SetDefault("sources.fmp.base_url", "https://financialmodelingprep.com/api/v3")
	v.SetDefault("sources.fmp.timeout", 10*time.Second)
	v.SetDefault("sources.finnhub.api_key", "")
	v.SetDefault("sources.finnhub.base_url", "https://finnhub.io/api/v1")
	v.SetDefault("sources.finnhub.timeout", 10*time.Second)
	v.SetDefault("sources.yahoo.base_url", "https://finance.yahoo.com")
	v.SetDefault("sources.yahoo.timeout", 15*time.Second)

	// Feeds
	v.SetDefault("feeds.news.base_url", "https://news.google.com/rss/search")
	v.SetDefault("feeds.news.limit", 5)
	v.SetDefault("feeds.news.timeout", 10*time.Second)
	v.SetDefault("feeds.reddit.base_url", "https://www.reddit.com/search.json")
	v.SetDefault("feeds.reddit.limit", 8)
	v.SetDefault("feeds.reddit.timeout", 10*time.Second)

	// Cache
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("http.user_agent", "")
}

// overrideFromEnv reads the vendors' conventional key variables when the
// prefixed ones are unset.
func overrideFromEnv(cfg *Config) {
	if cfg.Sources.FMP.APIKey == "" {
		cfg.Sources.FMP.APIKey = os.Getenv("FMP_API_KEY")
	}
	if cfg.Sources.Finnhub.APIKey == "" {
		cfg.Sources.Finnhub.APIKey = os.Getenv("FINNHUB_API_KEY")
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
