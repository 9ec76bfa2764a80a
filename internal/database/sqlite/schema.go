package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/Rana718/tablesmith/internal/typemap"
	"github.com/Rana718/tablesmith/internal/types"
)

var typeMap = map[string]string{
	"varchar": "string", "character": "string", "char": "string", "nvarchar": "string", "clob": "string",
	"text": "text",
	"int": "integer", "integer": "integer", "mediumint": "integer",
	"bigint": "bigint", "smallint": "smallint", "tinyint": "smallint",
	"bool": "boolean", "boolean": "boolean",
	"date": "date", "datetime": "datetime", "timestamp": "timestamp",
	"real": "float", "float": "float", "double": "float",
	"decimal": "decimal", "numeric": "decimal",
	"json": "json", "uuid": "uuid",
}

type pragmaColumn struct {
	column types.Column
	pk     int
	base   string
}

func (s *Adapter) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (s *Adapter) tableInfo(ctx context.Context, table string) ([]pragmaColumn, error) {
	// PRAGMA does not accept bound parameters
	if err := common.ValidateIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	defer rows.Close()

	var columns []pragmaColumn
	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		base, args := splitDeclaredType(dataType)
		reported := reportedType(base)
		column := types.Column{
			Name:         name,
			ReportedType: reported,
			Type:         typemap.Classify(reported),
			Nullable:     notNull == 0 && pk == 0,
		}
		switch reported {
		case "string":
			if len(args) > 0 {
				column.Length = args[0]
			}
		case "decimal":
			if len(args) > 0 {
				column.Precision = args[0]
			}
			if len(args) > 1 {
				column.Scale = args[1]
			}
		}
		if defaultValue.Valid && !strings.EqualFold(defaultValue.String, "NULL") {
			column.Default = common.StringPtr(common.UnquoteDefault(defaultValue.String), true)
		}

		columns = append(columns, pragmaColumn{column: column, pk: pk, base: base})
	}
	return columns, rows.Err()
}

func (s *Adapter) ListColumns(ctx context.Context, table string) ([]types.Column, error) {
	info, err := s.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	pkCount := 0
	for _, c := range info {
		if c.pk > 0 {
			pkCount++
		}
	}

	columns := make([]types.Column, len(info))
	for i, c := range info {
		columns[i] = c.column
		// a lone INTEGER PRIMARY KEY aliases the rowid
		columns[i].AutoIncrement = pkCount == 1 && c.pk > 0 && c.base == "integer"
	}
	return columns, nil
}

func (s *Adapter) ListIndexes(ctx context.Context, table string) ([]types.Index, error) {
	info, err := s.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	var indexes []types.Index
	if pk := primaryKeyColumns(info); len(pk) > 0 {
		indexes = append(indexes, types.Index{Name: "primary", Columns: pk, Unique: true, Primary: true})
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read index list: %w", err)
	}

	type listed struct {
		name   string
		unique bool
	}
	var candidates []listed
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if origin == "pk" {
			continue
		}
		candidates = append(candidates, listed{name: name, unique: unique == 1})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].name < candidates[j].name })
	for _, c := range candidates {
		columns, err := s.indexColumns(ctx, c.name)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			continue
		}
		indexes = append(indexes, types.Index{Name: c.name, Columns: columns, Unique: c.unique})
	}
	return indexes, nil
}

func (s *Adapter) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteIdentifier(index)))
	if err != nil {
		return nil, fmt.Errorf("failed to read index info: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		// expression index members have no name
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

func (s *Adapter) ListForeignKeys(ctx context.Context, table string) ([]types.ForeignKey, error) {
	if err := common.ValidateIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}

	var foreignKeys []types.ForeignKey
	positions := make(map[int]int)
	for rows.Next() {
		var id, seq int
		var refTable, from, onUpdate, onDelete, match string
		var to sql.NullString
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			rows.Close()
			return nil, err
		}

		pos, seen := positions[id]
		if !seen {
			pos = len(foreignKeys)
			positions[id] = pos
			foreignKeys = append(foreignKeys, types.ForeignKey{
				Name:            fmt.Sprintf("%s_fk_%d", table, id),
				ReferencedTable: refTable,
				OnDelete:        types.ParseReferentialAction(onDelete),
				OnUpdate:        types.ParseReferentialAction(onUpdate),
			})
		}
		foreignKeys[pos].LocalColumns = append(foreignKeys[pos].LocalColumns, from)
		foreignKeys[pos].ReferencedColumns = append(foreignKeys[pos].ReferencedColumns, to.String)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// REFERENCES t without a column list points at t's primary key
	for i := range foreignKeys {
		fk := &foreignKeys[i]
		if !containsEmpty(fk.ReferencedColumns) {
			continue
		}
		info, err := s.tableInfo(ctx, fk.ReferencedTable)
		if err != nil {
			return nil, err
		}
		pk := primaryKeyColumns(info)
		for j := range fk.ReferencedColumns {
			if fk.ReferencedColumns[j] == "" && j < len(pk) {
				fk.ReferencedColumns[j] = pk[j]
			}
		}
	}

	return foreignKeys, nil
}

func primaryKeyColumns(info []pragmaColumn) []string {
	var pkCols []pragmaColumn
	for _, c := range info {
		if c.pk > 0 {
			pkCols = append(pkCols, c)
		}
	}
	sort.Slice(pkCols, func(i, j int) bool { return pkCols[i].pk < pkCols[j].pk })

	names := make([]string, len(pkCols))
	for i, c := range pkCols {
		names[i] = c.column.Name
	}
	return names
}

func containsEmpty(values []string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

// splitDeclaredType turns "VARCHAR(255)" into ("varchar", [255]).
func splitDeclaredType(declared string) (string, []*int) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	open := strings.Index(declared, "(")
	if open < 0 {
		return declared, nil
	}

	base := strings.TrimSpace(declared[:open])
	inner := strings.TrimSuffix(strings.TrimSpace(declared[open+1:]), ")")

	var args []*int
	for _, part := range strings.Split(inner, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			break
		}
		args = append(args, &n)
	}
	return base, args
}

func reportedType(base string) string {
	if mapped, ok := typeMap[base]; ok {
		return mapped
	}
	if base == "" {
		return "other"
	}
	return base
}
