package cmd

import (
	"context"

	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCount int

var seedCmd = &cobra.Command{
	Use:   "seed <table>",
	Short: "Insert fake rows that respect foreign keys",
	Long: `Generate synthetic rows for a table and insert them.

Referenced tables that are empty receive one generated row first, so every
foreign key value points at an existing row. Cyclic references are cut
short and reported. Composite foreign keys are not populated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDatabase(ctx, func(cfg *config.Config, db database.DatabaseAdapter) error {
			count := seedCount
			if count == 0 {
				count = cfg.Seed.Count
			}
			return seedTable(ctx, db, args[0], count)
		})
	},
}

func seedTable(ctx context.Context, db database.DatabaseAdapter, table string, count int) error {
	color.Cyan("🌱 Seeding %s with %d rows...", table, count)

	result, err := seeder.NewGenerator(db, db, nil).Seed(ctx, table, count)
	if err != nil {
		color.Red("❌ Failed to seed %s: %v", table, err)
		return err
	}

	for _, dep := range result.Dependencies {
		color.White("  ↳ inserted %d row(s) into %s", dep.Len(), dep.Table)
	}
	color.Green("✅ Inserted %d row(s) into %s", result.Batch.Len(), table)
	if len(result.Skipped) > 0 || len(result.Notes) > 0 {
		color.Yellow("⚠️  %d table(s) skipped, %d note(s)", len(result.Skipped), len(result.Notes))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 0, "Number of rows (default from seed.count)")
}
