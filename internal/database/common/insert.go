package common

import (
	"github.com/Masterminds/squirrel"
	"github.com/Rana718/tablesmith/internal/types"
)

const insertChunkSize = 500

// Clauses that insert a row made only of column defaults.
const (
	DefaultValues = "DEFAULT VALUES"
	EmptyValues   = "() VALUES ()"
)

// Quoter quotes an identifier for a specific dialect.
type Quoter func(string) string

// Dialect describes how a database spells identifiers and default-only rows.
type Dialect struct {
	Builder squirrel.StatementBuilderType
	Quote   Quoter
	// EmptyRow follows "INSERT INTO <table> " when a row has no columns.
	EmptyRow string
}

// BuildInserts splits a batch into multi-row INSERT statements. A batch
// without columns becomes one default-only INSERT per row.
func BuildInserts(d Dialect, batch types.Batch) ([]squirrel.Sqlizer, error) {
	if err := ValidateIdentifiers(append([]string{batch.Table}, batch.Columns...)...); err != nil {
		return nil, err
	}

	if len(batch.Columns) == 0 {
		statements := make([]squirrel.Sqlizer, len(batch.Rows))
		for i := range batch.Rows {
			statements[i] = squirrel.Expr("INSERT INTO " + d.Quote(batch.Table) + " " + d.EmptyRow)
		}
		return statements, nil
	}

	quoted := make([]string, len(batch.Columns))
	for i, col := range batch.Columns {
		quoted[i] = d.Quote(col)
	}

	var statements []squirrel.Sqlizer
	for start := 0; start < len(batch.Rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(batch.Rows) {
			end = len(batch.Rows)
		}

		ib := d.Builder.Insert(d.Quote(batch.Table)).Columns(quoted...)
		for _, row := range batch.Rows[start:end] {
			values := make([]interface{}, len(batch.Columns))
			for i, col := range batch.Columns {
				values[i] = InsertValue(row[col])
			}
			ib = ib.Values(values...)
		}
		statements = append(statements, ib)
	}
	return statements, nil
}
