package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/seeder"
	"github.com/Rana718/tablesmith/internal/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seederLimit int

var makeSeederCmd = &cobra.Command{
	Use:   "make:seeder <table>",
	Short: "Generate a seeder class from rows already in a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDatabase(ctx, func(cfg *config.Config, db database.DatabaseAdapter) error {
			limit := seederLimit
			if limit == 0 {
				limit = cfg.Seed.SampleRows
			}
			_, err := generateSeeder(ctx, cfg, db, args[0], limit)
			return err
		})
	},
}

func generateSeeder(ctx context.Context, cfg *config.Config, db database.DatabaseAdapter, table string, limit int) (string, error) {
	result, err := db.GetTableRows(ctx, table, limit)
	if err != nil {
		return "", fmt.Errorf("failed to read rows from %s: %w", table, err)
	}
	if len(result.Columns) == 0 {
		return "", fmt.Errorf("%w: %s", database.ErrTableNotFound, table)
	}

	rows := make([]types.Row, len(result.Rows))
	for i, r := range result.Rows {
		rows[i] = types.Row(r)
	}

	path, err := seeder.WriteSeederClass(cfg.SeedersPath, table, result.Columns, rows)
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		color.Yellow("⚠️  %s is empty, the seeder inserts nothing", table)
	}
	color.Green("✅ Seeder created: %s (%d rows)", path, len(rows))
	return path, nil
}

func init() {
	rootCmd.AddCommand(makeSeederCmd)

	makeSeederCmd.Flags().IntVarP(&seederLimit, "limit", "l", 0, "Rows to sample (default from seed.sample_rows)")
}
