// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	GithubModeLive    = "live"
	GithubModeFixture = "fixture"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	Store          string `mapstructure:"STORE"`
	DBURL          string `mapstructure:"DB_URL"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	GithubToken     string        `mapstructure:"GITHUB_TOKEN"`
	GithubMode      string        `mapstructure:"GITHUB_MODE"`
	GithubFixtures  string        `mapstructure:"GITHUB_FIXTURES"`
	RequestInterval time.Duration `mapstructure:"REQUEST_INTERVAL"`
	MaxAttempts     int           `mapstructure:"MAX_ATTEMPTS"`
	BackoffBase     time.Duration `mapstructure:"BACKOFF_BASE"`
	BackoffMax      time.Duration `mapstructure:"BACKOFF_MAX"`

	BatchConcurrency int           `mapstructure:"BATCH_CONCURRENCY"`
	BatchDelay       time.Duration `mapstructure:"BATCH_DELAY"`
	RefreshInterval  time.Duration `mapstructure:"REFRESH_INTERVAL"`
	SeedRepositories []string      `mapstructure:"SEED_REPOSITORIES"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("STORE", StorePostgres)
	v.SetDefault("DB_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_MODE", GithubModeLive)
	v.SetDefault("GITHUB_FIXTURES", "")
	v.SetDefault("REQUEST_INTERVAL", "1s")
	v.SetDefault("MAX_ATTEMPTS", 3)
	v.SetDefault("BACKOFF_BASE", "1s")
	v.SetDefault("BACKOFF_MAX", "30s")
	v.SetDefault("BATCH_CONCURRENCY", 3)
	v.SetDefault("BATCH_DELAY", "2s")
	v.SetDefault("REFRESH_INTERVAL", "24h")
	v.SetDefault("SEED_REPOSITORIES", []string{})
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.SeedRepositories = splitList(cfg.SeedRepositories)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations that defaults cannot guarantee.
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DBURL == "" {
			return errors.New("DB_URL is a required configuration field when STORE=postgres")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}

	switch c.GithubMode {
	case GithubModeLive:
	case GithubModeFixture:
		if c.GithubFixtures == "" {
			return errors.New("GITHUB_FIXTURES is required when GITHUB_MODE=fixture")
		}
	default:
		return fmt.Errorf("GITHUB_MODE must be %q or %q, got %q", GithubModeLive, GithubModeFixture, c.GithubMode)
	}

	if c.MaxAttempts < 1 {
		return errors.New("MAX_ATTEMPTS must be at least 1")
	}
	if c.BatchConcurrency < 1 {
		return errors.New("BATCH_CONCURRENCY must be at least 1")
	}
	if c.RequestInterval < 0 || c.BatchDelay < 0 || c.RefreshInterval < 0 {
		return errors.New("REQUEST_INTERVAL, BATCH_DELAY and REFRESH_INTERVAL must not be negative")
	}
	if c.BackoffMax < c.BackoffBase {
		return errors.New("BACKOFF_MAX must not be smaller than BACKOFF_BASE")
	}
	return nil
}

// splitList flattens comma-separated entries, which is how lists arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
