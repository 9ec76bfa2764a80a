package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/Rana718/tablesmith/internal/migration"
	"github.com/Rana718/tablesmith/internal/seeder"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var migrationsCmd = &cobra.Command{
	Use:   "migrations",
	Short: "List generated migration files and their fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return showMigrations(os.Stdout, cfg.MigrationsPath)
	},
}

var seedersCmd = &cobra.Command{
	Use:   "seeders",
	Short: "List seeder classes and the tables they fill",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return showSeeders(os.Stdout, cfg.SeedersPath)
	},
}

func showMigrations(w io.Writer, dir string) error {
	files, err := migration.NewManager(dir).List()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("⚠️  No migrations found in %s", dir)
		return nil
	}

	color.Cyan("📁 %d migrations in %s", len(files), dir)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Checksum", "Fields"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, f := range files {
		table.Append([]string{f.Name, f.Checksum[:12], strings.Join(f.Fields, "\n")})
	}
	table.Render()
	return nil
}

func showSeeders(w io.Writer, dir string) error {
	files, err := seeder.ListSeeders(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("⚠️  No seeders found in %s", dir)
		return nil
	}

	color.Cyan("📁 %d seeders in %s", len(files), dir)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Tables"})
	table.SetBorder(false)
	for _, f := range files {
		tables := strings.Join(f.Tables, ", ")
		if tables == "" {
			tables = "-"
		}
		table.Append([]string{f.Name, tables})
	}
	table.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(migrationsCmd)
	rootCmd.AddCommand(seedersCmd)
}
