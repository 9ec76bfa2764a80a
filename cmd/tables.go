package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of the connected database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDatabase(ctx, func(cfg *config.Config, db database.DatabaseAdapter) error {
			return showTables(ctx, os.Stdout, db)
		})
	},
}

func showTables(ctx context.Context, w io.Writer, db database.SchemaProvider) error {
	tables, err := db.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	if len(tables) == 0 {
		color.Yellow("⚠️  No tables found")
		return nil
	}

	color.Cyan("📋 %d tables", len(tables))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Table"})
	table.SetBorder(false)
	for i, name := range tables {
		table.Append([]string{fmt.Sprint(i + 1), name})
	}
	table.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
