package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/Rana718/tablesmith/internal/typemap"
	"github.com/Rana718/tablesmith/internal/types"
)

var typeMap = map[string]string{
	"varchar": "string", "char": "string",
	"text": "text", "longtext": "text", "mediumtext": "text", "tinytext": "text",
	"int": "integer", "integer": "integer", "mediumint": "integer",
	"bigint": "bigint", "smallint": "smallint", "tinyint": "smallint",
	"bool": "boolean", "boolean": "boolean",
	"date": "date", "datetime": "datetime", "timestamp": "timestamp",
	"decimal": "decimal", "numeric": "decimal", "float": "float", "double": "float",
	"json": "json",
}

func (m *Adapter) ListTables(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

func (m *Adapter) ListColumns(ctx context.Context, table string) ([]types.Column, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT
			c.column_name,
			c.data_type,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.extra
		FROM information_schema.columns c
		WHERE c.table_name = ? AND c.table_schema = DATABASE()
		ORDER BY c.ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []types.Column
	for rows.Next() {
		var column types.Column
		var dataType, columnType, isNullable, extra string
		var columnDefault sql.NullString
		var charMaxLength, numericPrecision, numericScale sql.NullInt64

		err := rows.Scan(
			&column.Name,
			&dataType,
			&columnType,
			&isNullable,
			&columnDefault,
			&charMaxLength,
			&numericPrecision,
			&numericScale,
			&extra,
		)
		if err != nil {
			return nil, err
		}

		column.ReportedType = reportedType(dataType, columnType)
		column.Type = typemap.Classify(column.ReportedType)
		column.Nullable = isNullable == "YES"
		column.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")

		switch column.ReportedType {
		case "string":
			column.Length = common.IntPtr(charMaxLength.Int64, charMaxLength.Valid)
		case "decimal":
			column.Precision = common.IntPtr(numericPrecision.Int64, numericPrecision.Valid)
			column.Scale = common.IntPtr(numericScale.Int64, numericScale.Valid)
		}

		if columnDefault.Valid && !strings.EqualFold(columnDefault.String, "NULL") {
			column.Default = common.StringPtr(common.UnquoteDefault(columnDefault.String), true)
		}

		columns = append(columns, column)
	}
	return columns, rows.Err()
}

func (m *Adapter) ListIndexes(ctx context.Context, table string) ([]types.Index, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT s.index_name, s.column_name, s.non_unique
		FROM information_schema.statistics s
		WHERE s.table_name = ? AND s.table_schema = DATABASE()
		ORDER BY s.index_name = 'PRIMARY' DESC, s.index_name, s.seq_in_index
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []types.Index
	positions := make(map[string]int)
	for rows.Next() {
		var indexName, columnName string
		var nonUnique int
		if err := rows.Scan(&indexName, &columnName, &nonUnique); err != nil {
			return nil, err
		}

		pos, seen := positions[indexName]
		if !seen {
			pos = len(indexes)
			positions[indexName] = pos
			indexes = append(indexes, types.Index{
				Name:    indexName,
				Unique:  nonUnique == 0,
				Primary: indexName == "PRIMARY",
			})
		}
		indexes[pos].Columns = append(indexes[pos].Columns, columnName)
	}
	return indexes, rows.Err()
}

func (m *Adapter) ListForeignKeys(ctx context.Context, table string) ([]types.ForeignKey, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT
			k.constraint_name,
			k.column_name,
			k.referenced_table_name,
			k.referenced_column_name,
			r.delete_rule,
			r.update_rule
		FROM information_schema.key_column_usage k
		JOIN information_schema.referential_constraints r
			ON r.constraint_schema = k.table_schema
			AND r.constraint_name = k.constraint_name
		WHERE k.table_name = ?
		  AND k.table_schema = DATABASE()
		  AND k.referenced_table_name IS NOT NULL
		ORDER BY k.constraint_name, k.ordinal_position
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
				OnDelete:        types.ParseReferentialAction(onDelete),
				OnUpdate:        types.ParseReferentialAction(onUpdate),
			})
		}
		foreignKeys[pos].LocalColumns = append(foreignKeys[pos].LocalColumns, local)
		foreignKeys[pos].ReferencedColumns = append(foreignKeys[pos].ReferencedColumns, refColumn)
	}
	return foreignKeys, rows.Err()
}

// reportedType folds MySQL data types into the typemap vocabulary.
// tinyint(1) is how MySQL stores BOOLEAN.
func reportedType(dataType, columnType string) string {
	dataType = strings.ToLower(dataType)
	if dataType == "tinyint" && strings.HasPrefix(strings.ToLower(columnType), "tinyint(1)") {
		return "boolean"
	}
	if mapped, ok := typeMap[dataType]; ok {
		return mapped
	}
	return dataType
}
