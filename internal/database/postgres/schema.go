package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/Rana718/tablesmith/internal/typemap"
	"github.com/Rana718/tablesmith/internal/types"
)

// udt_name -> reported type vocabulary understood by typemap
var typeMap = map[string]string{
	"varchar": "string", "bpchar": "string", "text": "text",
	"int4": "integer", "int8": "bigint", "int2": "smallint",
	"bool": "boolean", "date": "date",
	"timestamp": "datetime", "timestamptz": "datetimetz",
	"float4": "float", "float8": "float", "numeric": "decimal",
	"json": "json", "jsonb": "json", "uuid": "uuid",
}

func (p *Adapter) ListTables(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT table_name FROM information_schema.tables
		WHERE table_schema IN (current_schema(), 'public') AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0, 32)
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

func (p *Adapter) ListColumns(ctx context.Context, table string) ([]types.Column, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT ON (c.ordinal_position)
			c.column_name,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.is_identity,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale
		FROM information_schema.columns c
		WHERE c.table_name = $1
		  AND c.table_schema IN (current_schema(), 'public')
		ORDER BY c.ordinal_position, c.table_schema
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []types.Column
	for rows.Next() {
		var column types.Column
		var udtName, isNullable, isIdentity string
		var columnDefault sql.NullString
		var charMaxLength, numericPrecision, numericScale sql.NullInt64

		err := rows.Scan(
			&column.Name,
			&udtName,
			&isNullable,
			&columnDefault,
			&isIdentity,
			&charMaxLength,
			&numericPrecision,
			&numericScale,
		)
		if err != nil {
			return nil, err
		}

		column.ReportedType = reportedType(udtName)
		column.Type = typemap.Classify(column.ReportedType)
		column.Nullable = isNullable == "YES"
		column.AutoIncrement = isIdentity == "YES"

		switch column.ReportedType {
		case "string":
			column.Length = common.IntPtr(charMaxLength.Int64, charMaxLength.Valid)
		case "decimal":
			column.Precision = common.IntPtr(numericPrecision.Int64, numericPrecision.Valid)
			column.Scale = common.IntPtr(numericScale.Int64, numericScale.Valid)
		}

		if columnDefault.Valid {
			if strings.Contains(strings.ToLower(columnDefault.String), "nextval") {
				column.AutoIncrement = true
			} else {
				column.Default = common.StringPtr(cleanDefaultValue(columnDefault.String), true)
			}
		}

		columns = append(columns, column)
	}
	return columns, rows.Err()
}

func (p *Adapter) ListIndexes(ctx context.Context, table string) ([]types.Index, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT i.relname, ix.indisunique, ix.indisprimary, a.attname
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace ns ON ns.oid = t.relnamespace
		CROSS JOIN LATERAL UNNEST(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE t.relname = $1
		  AND ns.nspname IN (current_schema(), 'public')
		ORDER BY i.relname, k.ord
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []types.Index
	positions := make(map[string]int)
	for rows.Next() {
		var name, column string
		var unique, primary bool
		if err := rows.Scan(&name, &unique, &primary, &column); err != nil {
			return nil, err
		}

		pos, seen := positions[name]
		if !seen {
			pos = len(indexes)
			positions[name] = pos
			indexes = append(indexes, types.Index{Name: name, Unique: unique, Primary: primary})
		}
		indexes[pos].Columns = append(indexes[pos].Columns, column)
	}
	return indexes, rows.Err()
}

func (p *Adapter) ListForeignKeys(ctx context.Context, table string) ([]types.ForeignKey, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT
			con.conname,
			src_attr.attname,
			tgt_table.relname,
			tgt_attr.attname,
			con.confdeltype::text,
			con.confupdtype::text
		FROM pg_constraint con
		JOIN pg_class src_table ON con.conrelid = src_table.oid
		JOIN pg_namespace ns ON src_table.relnamespace = ns.oid
		CROSS JOIN LATERAL UNNEST(con.conkey, con.confkey) WITH ORDINALITY AS cols(src_col, tgt_col, ord)
		JOIN pg_attribute src_attr ON src_attr.attrelid = src_table.oid AND src_attr.attnum = cols.src_col
		JOIN pg_class tgt_table ON con.confrelid = tgt_table.oid
		JOIN pg_attribute tgt_attr ON tgt_attr.attrelid = tgt_table.oid AND tgt_attr.attnum = cols.tgt_col
		WHERE src_table.relname = $1
		  AND ns.nspname IN (current_schema(), 'public')
		  AND con.contype = 'f'
		ORDER BY con.conname, cols.ord
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var foreignKeys []types.ForeignKey
	positions := make(map[string]int)
	for rows.Next() {
		var name, local, refTable, refColumn, onDelete, onUpdate string
		if err := rows.Scan(&name, &local, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return nil, err
		}

		pos, seen := positions[name]
		if !seen {
			pos = len(foreignKeys)
			positions[name] = pos
			foreignKeys = append(foreignKeys, types.ForeignKey{
				Name:            name,
				ReferencedTable: refTable,
				OnDelete:        actionFromCode(onDelete),
				OnUpdate:        actionFromCode(onUpdate),
			})
		}
		foreignKeys[pos].LocalColumns = append(foreignKeys[pos].LocalColumns, local)
		foreignKeys[pos].ReferencedColumns = append(foreignKeys[pos].ReferencedColumns, refColumn)
	}
	return foreignKeys, rows.Err()
}

func reportedType(udtName string) string {
	if mapped, ok := typeMap[strings.ToLower(udtName)]; ok {
		return mapped
	}
	return strings.ToLower(udtName)
}

// actionFromCode decodes pg_constraint.confdeltype / confupdtype.
func actionFromCode(code string) types.ReferentialAction {
	switch code {
	case "c":
		return types.ActionCascade
	case "r":
		return types.ActionRestrict
	case "n":
		return types.ActionSetNull
	case "d":
		return types.ActionSetDefault
	case "a":
		return types.ActionNoAction
	default:
		return types.ActionUnspecified
	}
}

// cleanDefaultValue strips type casts and quoting: 'draft'::character varying -> draft
func cleanDefaultValue(value string) string {
	if idx := strings.Index(value, "::"); idx > 0 {
		value = value[:idx]
	}
	return common.UnquoteDefault(value)
}
