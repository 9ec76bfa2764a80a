package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/tablesmith/internal/database/common"
	"github.com/Rana718/tablesmith/internal/types"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Adapter) RowExists(ctx context.Context, table string) (bool, error) {
	query, args, err := s.qb.Select("1").From(quoteIdentifier(table)).Limit(1).ToSql()
	if err != nil {
		return false, err
	}

	var one int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check rows in %s: %w", table, err)
	}
	return true, nil
}

func (s *Adapter) RandomExistingValue(ctx context.Context, table, column string) (interface{}, error) {
	query, args, err := s.qb.Select(quoteIdentifier(column)).
		From(quoteIdentifier(table)).
		OrderBy("RANDOM()").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var value interface{}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pick a value from %s.%s: %w", table, column, err)
	}
	return common.NormalizeValue(value), nil
}

func (s *Adapter) InsertRows(ctx context.Context, batch types.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	statements, err := common.BuildInserts(common.Dialect{Builder: s.qb, Quote: quoteIdentifier, EmptyRow: common.DefaultValues}, batch)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		query, args, err := stmt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", batch.Table, err)
		}
	}

	return tx.Commit()
}

func (s *Adapter) GetTableRows(ctx context.Context, table string, limit int) (*common.QueryResult, error) {
	query, args, err := s.qb.Select("*").From(quoteIdentifier(table)).Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, err
	}
	return common.QueryRows(ctx, s.db, query, args...)
}
