package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Rana718/tablesmith/internal/browse"
	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Interactive menu over every tablesmith action",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("manage needs an interactive terminal")
		}

		ctx := cmd.Context()
		return withDatabase(ctx, func(cfg *config.Config, db database.DatabaseAdapter) error {
			m := &manager{cfg: cfg, db: db, in: utils.StdInput(), out: os.Stdout}
			err := m.run(ctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		})
	},
}

var manageActions = []string{
	"Show Tables",
	"Insert Fake Data",
	"Generate Migration",
	"Generate Seeder",
	"View Seeders",
	"View Migrations",
	"Browse Table",
}

type manager struct {
	cfg *config.Config
	db  database.DatabaseAdapter
	in  *utils.InputUtils
	out io.Writer
}

func (m *manager) run(ctx context.Context) error {
	for {
		choice, err := m.in.Select("🛠  Database Manager", manageActions, "Exit")
		if err != nil {
			return err
		}

		switch choice {
		case -1:
			color.Cyan("👋 Bye")
			return nil
		case 0:
			err = showTables(ctx, m.out, m.db)
		case 1:
			err = m.withTable(ctx, func(table string) error {
				count, err := m.in.AskInt("How many rows", m.cfg.Seed.Count)
				if err != nil {
					return err
				}
				return seedTable(ctx, m.db, table, count)
			})
		case 2:
			err = m.withTable(ctx, func(table string) error {
				_, err := generateMigration(ctx, m.cfg, m.db, table)
				return err
			})
		case 3:
			err = m.withTable(ctx, func(table string) error {
				_, err := generateSeeder(ctx, m.cfg, m.db, table, m.cfg.Seed.SampleRows)
				return err
			})
		case 4:
			err = showSeeders(m.out, m.cfg.SeedersPath)
		case 5:
			err = showMigrations(m.out, m.cfg.MigrationsPath)
		case 6:
			err = m.withTable(ctx, func(table string) error {
				return m.browse(ctx, table)
			})
		}

		if errors.Is(err, io.EOF) {
			return err
		}
		if err != nil {
			color.Red("❌ %v", err)
		}
	}
}

// withTable asks for a table and runs fn with it. Choosing 0 goes back.
func (m *manager) withTable(ctx context.Context, fn func(table string) error) error {
	tables, err := m.db.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if len(tables) == 0 {
		color.Yellow("⚠️  No tables found")
		return nil
	}

	idx, err := m.in.Select("Select a table", tables, "Back")
	if err != nil || idx < 0 {
		return err
	}
	return fn(tables[idx])
}

func (m *manager) browse(ctx context.Context, table string) error {
	result, err := fetchRows(ctx, m.db, table, m.cfg.Browse.Limit)
	if err != nil {
		return err
	}
	renderRows(m.out, table, result, false)
	if len(result.Rows) == 0 {
		return nil
	}

	labels := make([]string, len(result.Rows))
	summary := browse.SummaryColumns(result.Columns)
	for i, row := range result.Rows {
		labels[i] = fmt.Sprintf("%s = %s", summary[0], browse.SummaryValue(row[summary[0]]))
	}

	for {
		idx, err := m.in.Select("Show row details", labels, "Back")
		if err != nil || idx < 0 {
			return err
		}
		browse.RenderRow(m.out, result.Columns, result.Rows[idx])
	}
}

func init() {
	rootCmd.AddCommand(manageCmd)
}
