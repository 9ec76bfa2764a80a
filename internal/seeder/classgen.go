package seeder

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Rana718/tablesmith/internal/typemap"
	"github.com/Rana718/tablesmith/internal/types"
	"github.com/stoewer/go-strcase"
)

var (
	insertTablePattern = regexp.MustCompile(`(?s)table->insert\(\[.*?'table' => '(.*?)'`)
	dbTablePattern     = regexp.MustCompile(`DB::table\('([^']+)'\)`)
)

const seederTemplate = `<?php

namespace Database\Seeders;

use Illuminate\Database\Seeder;
use Illuminate\Support\Facades\DB;

class %s extends Seeder
{
    public function run()
    {
        DB::table(%s)->insert(%s);
    }
}
`

// SeederFile is a seeder class found on disk.
type SeederFile struct {
	Name   string
	Path   string
	Tables []string
}

func SeederClassName(table string) string {
	return strcase.UpperCamelCase(table) + "Seeder"
}

// RenderSeederClass emits a seeder that re-inserts the sampled rows.
func RenderSeederClass(table string, columns []string, rows []types.Row) string {
	return fmt.Sprintf(seederTemplate, SeederClassName(table), typemap.Quote(table), phpRows(columns, rows))
}

// WriteSeederClass writes <Class>.php into dir, replacing any previous version.
func WriteSeederClass(dir, table string, columns []string, rows []types.Row) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create seeders directory: %w", err)
	}

	path := filepath.Join(dir, SeederClassName(table)+".php")
	if err := os.WriteFile(path, []byte(RenderSeederClass(table, columns, rows)), 0644); err != nil {
		return "", fmt.Errorf("failed to write seeder: %w", err)
	}
	return path, nil
}

// ListSeeders returns the seeder classes in dir and the tables they touch.
func ListSeeders(dir string) ([]SeederFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SeederFile{}, nil
		}
		return nil, fmt.Errorf("failed to read seeders directory: %w", err)
	}

	var files []SeederFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".php") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seeder %s: %w", entry.Name(), err)
		}
		files = append(files, SeederFile{
			Name:   entry.Name(),
			Path:   path,
			Tables: ExtractTables(string(content)),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ExtractTables finds table names referenced by a seeder, preferring
// 'table' => 'x' entries inside an insert and falling back to DB::table('x').
func ExtractTables(content string) []string {
	matches := insertTablePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		matches = dbTablePattern.FindAllStringSubmatch(content, -1)
	}

	var tables []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			tables = append(tables, m[1])
		}
	}
	return tables
}

func phpRows(columns []string, rows []types.Row) string {
	if len(rows) == 0 {
		return "[]"
	}

	var b strings.Builder
	b.WriteString("[\n")
	for _, row := range rows {
		b.WriteString("            [\n")
		for _, col := range columns {
			fmt.Fprintf(&b, "                %s => %s,\n", typemap.Quote(col), phpValue(row[col]))
		}
		b.WriteString("            ],\n")
	}
	b.WriteString("        ]")
	return b.String()
}

func phpValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return typemap.Quote(val)
	case []byte:
		return typemap.Quote(string(val))
	case time.Time:
		return typemap.Quote(val.Format(dateTimeLayout))
	default:
		return typemap.Quote(fmt.Sprint(val))
	}
}
