package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/Rana718/tablesmith/internal/types"
)

var ErrTableNotFound = errors.New("table not found")

// SchemaProvider exposes structural metadata of the connected database.
type SchemaProvider interface {
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]types.Column, error)
	ListIndexes(ctx context.Context, table string) ([]types.Index, error)
	ListForeignKeys(ctx context.Context, table string) ([]types.ForeignKey, error)
}

// RowOracle answers questions about existing rows and persists new ones.
type RowOracle interface {
	RowExists(ctx context.Context, table string) (bool, error)
	// RandomExistingValue returns nil when the table has no rows.
	RandomExistingValue(ctx context.Context, table, column string) (interface{}, error)
	InsertRows(ctx context.Context, batch types.Batch) error
}

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	SchemaProvider
	RowOracle

	// Browsing
	GetTableRows(ctx context.Context, table string, limit int) (*common.QueryResult, error)
}

// DescribeTable assembles a fresh Table snapshot from the provider.
func DescribeTable(ctx context.Context, p SchemaProvider, name string) (*types.Table, error) {
	columns, err := p.ListColumns(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", name, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	indexes, err := p.ListIndexes(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes of %s: %w", name, err)
	}

	foreignKeys, err := p.ListForeignKeys(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys of %s: %w", name, err)
	}

	return &types.Table{
		Name:        name,
		Columns:     columns,
		Indexes:     indexes,
		ForeignKeys: foreignKeys,
	}, nil
}
