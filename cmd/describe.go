package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Rana718/tablesmith/internal/config"
	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var describeFormat string

var describeCmd = &cobra.Command{
	Use:   "describe <table>",
	Short: "Print the introspected metadata of a table",
	Long: `Print columns, indexes and foreign keys of a table exactly as the
schema provider reports them. Useful to check what make:migration and
seed will work from.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDatabase(ctx, func(cfg *config.Config, db database.DatabaseAdapter) error {
			table, err := database.DescribeTable(ctx, db, args[0])
			if err != nil {
				return err
			}
			return writeTable(os.Stdout, table, describeFormat)
		})
	},
}

func writeTable(w io.Writer, table *types.Table, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(table)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	default:
		return fmt.Errorf("unsupported format %q (use yaml or json)", format)
	}
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringVar(&describeFormat, "format", "yaml", "Output format: yaml or json")
}
