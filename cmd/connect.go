package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// connect opens the configured database. Callers must Close the adapter.
func connect(ctx context.Context, cfg *config.Config) (database.DatabaseAdapter, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	adapter := database.NewAdapter(cfg.Database.Provider)
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return adapter, nil
}

// withDatabase loads config, connects, and runs fn with the open adapter.
func withDatabase(ctx context.Context, fn func(cfg *config.Config, db database.DatabaseAdapter) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(cfg, db)
}
