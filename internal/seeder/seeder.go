package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/types"
	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordColumn      = "password"
	rememberTokenColumn = "remember_token"
	defaultPassword     = "secret"
	rememberTokenLength = 10
)

var ErrInvalidCount = errors.New("count must be a positive integer")

// reservedColumns are never synthesized; timestamps are stamped afterwards.
var reservedColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"deleted_at": true,
}

// specialColumns get fixed treatment regardless of their type.
var specialColumns = map[string]bool{
	passwordColumn:      true,
	rememberTokenColumn: true,
}

// VisitedSet tracks tables currently being generated within one top-level call.
type VisitedSet map[string]struct{}

func NewVisitedSet() VisitedSet {
	return make(VisitedSet)
}

// Visit marks the table and reports false if it was already marked.
func (v VisitedSet) Visit(table string) bool {
	if _, ok := v[table]; ok {
		return false
	}
	v[table] = struct{}{}
	return true
}

// Result is the outcome of one top-level generation.
type Result struct {
	// Batch holds the requested rows. It is not persisted by Generate.
	Batch types.Batch
	// Dependencies were generated for empty referenced tables and already
	// inserted, in insertion order.
	Dependencies []types.Batch
	// Skipped lists tables whose generation was cut short by a cycle.
	Skipped []string
	Notes   []string
}

func (r *Result) skip(table string) {
	for _, t := range r.Skipped {
		if t == table {
			return
		}
	}
	r.Skipped = append(r.Skipped, table)
	color.Yellow("  ↺ Skipping %s: already being generated in this run (cyclic reference)", table)
}

func (r *Result) note(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	for _, n := range r.Notes {
		if n == msg {
			return
		}
	}
	r.Notes = append(r.Notes, msg)
	color.Yellow("  ⚠️  %s", msg)
}

// Generator synthesizes rows that satisfy single-column foreign keys,
// populating empty referenced tables on demand.
type Generator struct {
	provider database.SchemaProvider
	oracle   database.RowOracle
	synth    *Synthesizer
	now      func() time.Time

	passwordHash string
}

func NewGenerator(provider database.SchemaProvider, oracle database.RowOracle, synth *Synthesizer) *Generator {
	if synth == nil {
		synth = NewSynthesizer()
	}
	return &Generator{
		provider: provider,
		oracle:   oracle,
		synth:    synth,
		now:      time.Now,
	}
}

// Generate builds count rows for the named table with a fresh visited set.
func (g *Generator) Generate(ctx context.Context, tableName string, count int) (*Result, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	table, err := database.DescribeTable(ctx, g.provider, tableName)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	rows, err := g.GenerateRows(ctx, table, count, NewVisitedSet(), result)
	if err != nil {
		return nil, err
	}
	result.Batch = batchFor(table, rows)
	return result, nil
}

// Seed generates rows for the table and inserts them after their dependencies.
func (g *Generator) Seed(ctx context.Context, tableName string, count int) (*Result, error) {
	result, err := g.Generate(ctx, tableName, count)
	if err != nil {
		return nil, err
	}
	if err := g.oracle.InsertRows(ctx, result.Batch); err != nil {
		return nil, fmt.Errorf("failed to insert rows into %s: %w", tableName, err)
	}
	return result, nil
}

// GenerateRows is the recursive core. A table already in visited yields no
// rows; referenced tables that are empty get one row generated and inserted
// before a value is drawn from them.
func (g *Generator) GenerateRows(ctx context.Context, table *types.Table, count int, visited VisitedSet, report *Result) ([]types.Row, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	if !visited.Visit(table.Name) {
		report.skip(table.Name)
		return []types.Row{}, nil
	}

	rows := make([]types.Row, 0, count)
	for i := 0; i < count; i++ {
		row := make(types.Row, len(table.Columns))

		for _, fk := range table.ForeignKeys {
			if !fk.IsSingleColumn() {
				report.note("Composite foreign key %s(%s) -> %s is not supported, columns are synthesized instead",
					table.Name, strings.Join(fk.LocalColumns, ", "), fk.ReferencedTable)
				continue
			}

			if err := g.ensureReferencedRow(ctx, fk.ReferencedTable, visited, report); err != nil {
				return nil, err
			}

			value, err := g.oracle.RandomExistingValue(ctx, fk.ReferencedTable, fk.ReferencedColumns[0])
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s.%s: %w", table.Name, fk.LocalColumns[0], err)
			}
			row[fk.LocalColumns[0]] = value
		}

		for _, col := range table.Columns {
			if reservedColumns[col.Name] {
				continue
			}
			if _, assigned := row[col.Name]; assigned {
				continue
			}
			if col.Type == types.TypeOther && !specialColumns[col.Name] {
				report.note("Unknown column type '%s' for column '%s.%s'. Using a generic value.",
					col.ReportedType, table.Name, col.Name)
			}
			value, err := g.valueFor(col)
			if err != nil {
				return nil, err
			}
			row[col.Name] = value
		}

		g.stampTimestamps(table, row)
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *Generator) ensureReferencedRow(ctx context.Context, refTable string, visited VisitedSet, report *Result) error {
	exists, err := g.oracle.RowExists(ctx, refTable)
	if err != nil {
		return fmt.Errorf("failed to check %s for rows: %w", refTable, err)
	}
	if exists {
		return nil
	}

	ref, err := database.DescribeTable(ctx, g.provider, refTable)
	if err != nil {
		return err
	}

	rows, err := g.GenerateRows(ctx, ref, 1, visited, report)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	batch := batchFor(ref, rows)
	color.Cyan("  ↪ %s is empty, inserting %d related row(s) first", refTable, batch.Len())
	if err := g.oracle.InsertRows(ctx, batch); err != nil {
		return fmt.Errorf("failed to insert related rows into %s: %w", refTable, err)
	}
	report.Dependencies = append(report.Dependencies, batch)
	return nil
}

func (g *Generator) valueFor(col types.Column) (interface{}, error) {
	switch col.Name {
	case passwordColumn:
		return g.hashedPassword()
	case rememberTokenColumn:
		return g.synth.RandomString(rememberTokenLength), nil
	}

	if col.Nullable && g.synth.Nullify() {
		return nil, nil
	}
	return g.synth.Synthesize(col.Name, col.Type), nil
}

func (g *Generator) hashedPassword() (string, error) {
	if g.passwordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		g.passwordHash = string(hash)
	}
	return g.passwordHash, nil
}

func (g *Generator) stampTimestamps(table *types.Table, row types.Row) {
	now := g.now()
	if table.HasColumn("created_at") {
		row["created_at"] = now
	}
	if table.HasColumn("updated_at") {
		row["updated_at"] = now
	}
	if table.HasColumn("deleted_at") {
		row["deleted_at"] = nil
	}
}

// batchFor orders row keys by the table's declared column order.
func batchFor(table *types.Table, rows []types.Row) types.Batch {
	present := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			present[col] = true
		}
	}

	columns := make([]string, 0, len(present))
	for _, col := range table.Columns {
		if present[col.Name] {
			columns = append(columns, col.Name)
		}
	}

	return types.Batch{Table: table.Name, Columns: columns, Rows: rows}
}
