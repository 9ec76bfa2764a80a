package migration

import (
	"fmt"
	"strings"

	"github.com/Rana718/tablesmith/internal/typemap"
	"github.com/Rana718/tablesmith/internal/types"
)

const (
	createdAtColumn = "created_at"
	updatedAtColumn = "updated_at"
)

// Migration is the compiled form of one table: an ordered statement list
// plus any non-fatal diagnostics raised while compiling it.
type Migration struct {
	Table      string
	Statements []Statement
	Warnings   []string
}

// Compile turns table metadata into Blueprint statements. It performs no I/O
// and produces the same output for the same input.
func Compile(table *types.Table) *Migration {
	m := &Migration{Table: table.Name}

	identity, hasIdentity := table.IdentityColumn()
	collapse := collapsesTimestamps(table)

	var columns []Statement
	for _, col := range table.Columns {
		if hasIdentity && col.Name == identity.Name {
			continue
		}
		if collapse && (col.Name == createdAtColumn || col.Name == updatedAtColumn) {
			continue
		}
		columns = append(columns, m.columnStatement(col))
	}

	var uniques []Statement
	for _, idx := range table.Indexes {
		if !idx.Unique || idx.Primary || len(idx.Columns) == 0 {
			continue
		}
		if len(idx.Columns) == 1 {
			for i := range columns {
				if columns[i].Column == idx.Columns[0] {
					columns[i].qualify("unique")
					break
				}
			}
			continue
		}
		uniques = append(uniques, Statement{
			Kind:   KindUnique,
			Method: "unique",
			Args:   []string{phpList(idx.Columns)},
		})
	}

	if hasIdentity {
		m.Statements = append(m.Statements, identityStatement(identity.Name))
	}
	m.Statements = append(m.Statements, columns...)
	m.Statements = append(m.Statements, uniques...)
	for _, fk := range table.ForeignKeys {
		m.Statements = append(m.Statements, foreignStatement(fk))
	}
	if collapse {
		m.Statements = append(m.Statements, Statement{Kind: KindTimestamps, Method: "timestamps"})
	}

	return m
}

func (m *Migration) columnStatement(col types.Column) Statement {
	reported := reportedType(col)
	mapping := typemap.Map(reported, col.Length, col.Precision, col.Scale)
	if !mapping.Known {
		m.Warnings = append(m.Warnings,
			fmt.Sprintf("Unknown column type '%s' for column '%s'. Defaulting to string.", reported, col.Name))
	}

	stmt := Statement{
		Kind:   KindColumn,
		Column: col.Name,
		Method: mapping.Method,
		Args:   append([]string{typemap.Quote(col.Name)}, mapping.Args...),
	}
	if col.Nullable {
		stmt.qualify("nullable")
	}
	if col.Default != nil {
		stmt.qualify("default", typemap.DefaultLiteral(reported, *col.Default))
	}
	return stmt
}

func identityStatement(column string) Statement {
	stmt := Statement{Kind: KindIdentity, Column: column, Method: "id"}
	if column != "id" {
		stmt.Args = []string{typemap.Quote(column)}
	}
	return stmt
}

func foreignStatement(fk types.ForeignKey) Statement {
	stmt := Statement{
		Kind:   KindForeign,
		Method: "foreign",
		Args:   []string{columnArg(fk.LocalColumns)},
	}
	if len(fk.LocalColumns) == 1 {
		stmt.Column = fk.LocalColumns[0]
	}
	stmt.qualify("references", columnArg(fk.ReferencedColumns))
	stmt.qualify("on", typemap.Quote(fk.ReferencedTable))
	if !fk.OnDelete.IsDefault() {
		stmt.qualify("onDelete", typemap.Quote(strings.ToLower(string(fk.OnDelete))))
	}
	if !fk.OnUpdate.IsDefault() {
		stmt.qualify("onUpdate", typemap.Quote(strings.ToLower(string(fk.OnUpdate))))
	}
	return stmt
}

// Body renders every statement once, in order.
func (m *Migration) Body() []string {
	lines := make([]string, len(m.Statements))
	for i, s := range m.Statements {
		lines[i] = s.Render()
	}
	return lines
}

func collapsesTimestamps(table *types.Table) bool {
	created, ok := table.Column(createdAtColumn)
	if !ok || !semanticType(*created).IsDateTimeFamily() {
		return false
	}
	updated, ok := table.Column(updatedAtColumn)
	return ok && semanticType(*updated).IsDateTimeFamily()
}

func reportedType(col types.Column) string {
	if col.ReportedType != "" {
		return col.ReportedType
	}
	return string(col.Type)
}

func semanticType(col types.Column) types.SemanticType {
	if col.Type != "" {
		return col.Type
	}
	return typemap.Classify(col.ReportedType)
}

func columnArg(columns []string) string {
	if len(columns) == 1 {
		return typemap.Quote(columns[0])
	}
	return phpList(columns)
}

func phpList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = typemap.Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
