package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const FileName = "tablesmith.config.json"

type Config struct {
	Version        string   `json:"version" mapstructure:"version"`
	MigrationsPath string   `json:"migrations_path" mapstructure:"migrations_path"`
	SeedersPath    string   `json:"seeders_path" mapstructure:"seeders_path"`
	Database       Database `json:"database" mapstructure:"database"`
	Seed           Seed     `json:"seed" mapstructure:"seed"`
	Browse         Browse   `json:"browse" mapstructure:"browse"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Seed struct {
	Count      int `json:"count" mapstructure:"count"`
	SampleRows int `json:"sample_rows" mapstructure:"sample_rows"`
}

type Browse struct {
	Limit int `json:"limit" mapstructure:"limit"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "database/migrations"
	}
	if cfg.SeedersPath == "" {
		cfg.SeedersPath = "database/seeders"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Seed.Count <= 0 {
		cfg.Seed.Count = 10
	}
	if cfg.Seed.SampleRows <= 0 {
		cfg.Seed.SampleRows = 10
	}
	if cfg.Browse.Limit <= 0 {
		cfg.Browse.Limit = 20
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.MigrationsPath,
		c.SeedersPath,
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.MigrationsPath == "" {
		return fmt.Errorf("migrations_path cannot be empty")
	}

	if c.SeedersPath == "" {
		return fmt.Errorf("seeders_path cannot be empty")
	}

	return nil
}
