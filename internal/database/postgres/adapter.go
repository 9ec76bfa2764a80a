package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/Rana718/tablesmith/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) RowExists(ctx context.Context, table string) (bool, error) {
	query, args, err := p.qb.Select("1").From(pq.QuoteIdentifier(table)).Limit(1).ToSql()
	if err != nil {
		return false, err
	}

	var one int
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check rows in %s: %w", table, err)
	}
	return true, nil
}

func (p *Adapter) RandomExistingValue(ctx context.Context, table, column string) (interface{}, error) {
	query, args, err := p.qb.Select(pq.QuoteIdentifier(column)).
		From(pq.QuoteIdentifier(table)).
		OrderBy("RANDOM()").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var value interface{}
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pick a value from %s.%s: %w", table, column, err)
	}
	return normalize(value), nil
}

func (p *Adapter) InsertRows(ctx context.Context, batch types.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	statements, err := common.BuildInserts(common.Dialect{Builder: p.qb, Quote: pq.QuoteIdentifier, EmptyRow: common.DefaultValues}, batch)
	if err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range statements {
		query, args, err := stmt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", batch.Table, err)
		}
	}

	return tx.Commit(ctx)
}

func (p *Adapter) GetTableRows(ctx context.Context, table string, limit int) (*common.QueryResult, error) {
	query, args, err := p.qb.Select("*").From(pq.QuoteIdentifier(table)).Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columns[i] = fd.Name
	}

	var results []map[string]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &common.QueryResult{
		Columns: columns,
		Rows:    results,
	}, nil
}

func normalize(v interface{}) interface{} {
	if b, ok := v.([16]byte); ok {
		return uuid.UUID(b).String()
	}
	return common.NormalizeValue(v)
}
