package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Rana718/tablesmith/internal/browse"
	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	browseLimit int
	browseFull  bool
)

var browseCmd = &cobra.Command{
	Use:   "browse <table>",
	Short: "Show the first rows of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDatabase(ctx, func(cfg *config.Config, db database.DatabaseAdapter) error {
			limit := browseLimit
			if limit == 0 {
				limit = cfg.Browse.Limit
			}
			result, err := fetchRows(ctx, db, args[0], limit)
			if err != nil {
				return err
			}
			renderRows(os.Stdout, args[0], result, browseFull)
			return nil
		})
	},
}

func fetchRows(ctx context.Context, db database.DatabaseAdapter, table string, limit int) (*common.QueryResult, error) {
	result, err := db.GetTableRows(ctx, table, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", table, err)
	}
	return result, nil
}

func renderRows(w io.Writer, table string, result *common.QueryResult, full bool) {
	if len(result.Rows) == 0 {
		color.Yellow("⚠️  %s has no rows", table)
		return
	}

	color.Cyan("📄 %s: showing %d row(s)", table, len(result.Rows))
	if full {
		browse.RenderFull(w, result)
		return
	}
	browse.RenderSummary(w, result)
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().IntVarP(&browseLimit, "limit", "l", 0, "Rows to show (default from browse.limit)")
	browseCmd.Flags().BoolVar(&browseFull, "full", false, "Show every column")
}
