package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Reveal  RevealConfig  `mapstructure:"reveal"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds book catalog (Google Books) configuration
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// CacheConfig holds lookup cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"` // empty = memory only
	TTL     time.Duration `mapstructure:"ttl"`
}

// RevealConfig controls the simulated streaming of generated text
type RevealConfig struct {
	Interval   time.Duration `mapstructure:"interval"`    // delay between chunks
	ChunkSize  int           `mapstructure:"chunk_size"`  // runes per chunk
	ReplyDelay time.Duration `mapstructure:"reply_delay"` // "thinking" pause before a chat reply
}

// FeedConfig controls the recommendation feed
type FeedConfig struct {
	RefreshDelay time.Duration `mapstructure:"refresh_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://www.googleapis.com/books/v1",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
			TTL:     7 * 24 * time.Hour,
		},
		Reveal: RevealConfig{
			Interval:   20 * time.Millisecond,
			ChunkSize:  1,
			ReplyDelay: 600 * time.Millisecond,
		},
		Feed: FeedConfig{
			RefreshDelay: 800 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "chapternode", "chapternode.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "chapternode", "chapternode.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "chapternode")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "chapternode")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "chapternode", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "chapternode", "cache")
	}
}

// newViper builds a viper instance with defaults registered so that
// environment overrides apply to every key.
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("catalog.base_url", def.Catalog.BaseURL)
	v.SetDefault("catalog.timeout", def.Catalog.Timeout)
	v.SetDefault("catalog.requests_per_second", def.Catalog.RequestsPerSecond)
	v.SetDefault("catalog.burst", def.Catalog.Burst)

	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("cache.ttl", def.Cache.TTL)

	v.SetDefault("reveal.interval", def.Reveal.Interval)
	v.SetDefault("reveal.chunk_size", def.Reveal.ChunkSize)
	v.SetDefault("reveal.reply_delay", def.Reveal.ReplyDelay)

	v.SetDefault("feed.refresh_delay", def.Feed.RefreshDelay)

	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)

	// Environment variable overrides: CHAPTERNODE_CATALOG_BASE_URL etc.
	v.SetEnvPrefix("CHAPTERNODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig loads configuration from file and environment.
// An empty path searches the default locations; a missing file there is fine.
// An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url must be set"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog.timeout must be positive"))
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("catalog.requests_per_second must be positive"))
	}
	if c.Reveal.Interval <= 0 {
		errs = append(errs, errors.New("reveal.interval must be positive"))
	}
	if c.Reveal.ChunkSize <= 0 {
		errs = append(errs, errors.New("reveal.chunk_size must be positive"))
	}
	if c.Reveal.ReplyDelay < 0 || c.Feed.RefreshDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// CacheDir returns the directory for the lookup cache, or "" for memory-only mode
func (c *Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	return c.Cache.Dir
}

// SaveConfig writes the configuration to path, or to the default location when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v := viper.New()
	v.Set("catalog.base_url", cfg.Catalog.BaseURL)
	v.Set("catalog.timeout", cfg.Catalog.Timeout.String())
	v.Set("catalog.requests_per_second", cfg.Catalog.RequestsPerSecond)
	v.Set("catalog.burst", cfg.Catalog.Burst)

	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.ttl", cfg.Cache.TTL.String())

	v.Set("reveal.interval", cfg.Reveal.Interval.String())
	v.Set("reveal.chunk_size", cfg.Reveal.ChunkSize)
	v.Set("reveal.reply_delay", cfg.Reveal.ReplyDelay.String())

	v.Set("feed.refresh_delay", cfg.Feed.RefreshDelay.String())

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

