package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Translator TranslatorConfig
	Seed       SeedConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host             string
	Port             string
	Name             string
	User             string
	Password         string
	PoolMin          int
	PoolMax          int
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// TranslatorConfig holds settings for the natural-language-to-SQL service.
// An empty APIKey leaves the translator unavailable; search then always
// takes the filter fallback path.
type TranslatorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// SeedConfig controls the synthetic data generator used by cmd/seed.
type SeedConfig struct {
	Listings   int
	RandomSeed int64
	BatchSize  int
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "hearth")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 20)
	v.SetDefault("DB_CONNECT_TIMEOUT", "2s")
	v.SetDefault("DB_STATEMENT_TIMEOUT", "5s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("TRANSLATOR_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("TRANSLATOR_MODEL", "gpt-4o-mini")
	v.SetDefault("TRANSLATOR_TIMEOUT", "15s")
	v.SetDefault("SEED_LISTINGS", 500)
	v.SetDefault("SEED_RANDOM_SEED", 42)
	v.SetDefault("SEED_BATCH_SIZE", 100)

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetString("DB_PORT"),
			Name:             v.GetString("DB_NAME"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASSWORD"),
			PoolMin:          v.GetInt("DB_POOL_MIN"),
			PoolMax:          v.GetInt("DB_POOL_MAX"),
			ConnectTimeout:   v.GetDuration("DB_CONNECT_TIMEOUT"),
			StatementTimeout: v.GetDuration("DB_STATEMENT_TIMEOUT"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Translator: TranslatorConfig{
			APIKey:  v.GetString("TRANSLATOR_API_KEY"),
			BaseURL: v.GetString("TRANSLATOR_BASE_URL"),
			Model:   v.GetString("TRANSLATOR_MODEL"),
			Timeout: v.GetDuration("TRANSLATOR_TIMEOUT"),
		},
		Seed: SeedConfig{
			Listings:   v.GetInt("SEED_LISTINGS"),
			RandomSeed: v.GetInt64("SEED_RANDOM_SEED"),
			BatchSize:  v.GetInt("SEED_BATCH_SIZE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	if c.Database.ConnectTimeout < 0 {
		return fmt.Errorf("DB_CONNECT_TIMEOUT must be non-negative")
	}
	if c.Database.StatementTimeout < 0 {
		return fmt.Errorf("DB_STATEMENT_TIMEOUT must be non-negative")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Translator.APIKey != "" && c.Translator.Model == "" {
		return fmt.Errorf("TRANSLATOR_MODEL is required when TRANSLATOR_API_KEY is set")
	}
	if c.Translator.Timeout < 0 {
		return fmt.Errorf("TRANSLATOR_TIMEOUT must be non-negative")
	}

	if c.Seed.Listings < 0 {
		return fmt.Errorf("SEED_LISTINGS must be non-negative")
	}
	if c.Seed.BatchSize < 1 {
		return fmt.Errorf("SEED_BATCH_SIZE must be at least 1")
	}

	return nil
}

// TranslatorEnabled reports whether an API key was supplied for the
// translation service.
func (c *Config) TranslatorEnabled() bool {
	return c.Translator.APIKey != ""
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
