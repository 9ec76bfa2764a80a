package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/migration"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrationStdout bool

var makeMigrationCmd = &cobra.Command{
	Use:   "make:migration <table>",
	Short: "Generate a migration script from an existing table",
	Long: `Introspect a table and compile it into a migration script with one
Blueprint statement per column, unique index and foreign key.

The script is written to migrations_path as
YYYY_MM_DD_HHMMSS_create_<table>_table.php unless --stdout is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDatabase(ctx, func(cfg *config.Config, db database.DatabaseAdapter) error {
			if migrationStdout {
				mig, err := compileMigration(ctx, db, args[0])
				if err != nil {
					return err
				}
				fmt.Print(mig.Render())
				return nil
			}
			_, err := generateMigration(ctx, cfg, db, args[0])
			return err
		})
	},
}

func compileMigration(ctx context.Context, db database.SchemaProvider, tableName string) (*migration.Migration, error) {
	table, err := database.DescribeTable(ctx, db, tableName)
	if err != nil {
		return nil, err
	}

	mig := migration.Compile(table)
	for _, w := range mig.Warnings {
		color.Yellow("⚠️  %s", w)
	}
	return mig, nil
}

func generateMigration(ctx context.Context, cfg *config.Config, db database.SchemaProvider, tableName string) (string, error) {
	mig, err := compileMigration(ctx, db, tableName)
	if err != nil {
		return "", err
	}

	path, err := migration.NewManager(cfg.MigrationsPath).Write(mig)
	if err != nil {
		return "", err
	}

	color.Green("✅ Migration created: %s", path)
	return path, nil
}

func init() {
	rootCmd.AddCommand(makeMigrationCmd)

	makeMigrationCmd.Flags().BoolVar(&migrationStdout, "stdout", false, "Print the migration instead of writing it")
}
