package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for textile-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (database password) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Scraper behavior
	Scraper ScraperConfig `yaml:"scraper"`

	// SourcesPath points at the YAML registry of catalog feeds.
	SourcesPath string `yaml:"sources_path" env:"SOURCES_PATH" env-default:"sources.yaml"`

	// MigrationsPath is where golang-migrate reads SQL files from.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"texloop"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"textile_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ScraperConfig holds catalog scraping settings.
type ScraperConfig struct {
	// FetchLimit is the page size requested from each feed per run.
	FetchLimit int `yaml:"fetch_limit" env:"SCRAPER_FETCH_LIMIT" env-default:"50"`
	// DescriptionMaxLen bounds stripped product descriptions.
	DescriptionMaxLen int `yaml:"description_max_len" env:"SCRAPER_DESCRIPTION_MAX_LEN" env-default:"500"`
	// UnknownContextCap bounds how many context snippets an unknown term keeps.
	UnknownContextCap int `yaml:"unknown_context_cap" env:"SCRAPER_UNKNOWN_CONTEXT_CAP" env-default:"10"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// Environment variables override YAML values. Secrets (PGPASSWORD) must come
// from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scraper.FetchLimit <= 0 {
		return fmt.Errorf("scraper fetch_limit must be positive, got %d", c.Scraper.FetchLimit)
	}
	if c.Scraper.DescriptionMaxLen <= 0 {
		return fmt.Errorf("scraper description_max_len must be positive, got %d", c.Scraper.DescriptionMaxLen)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
