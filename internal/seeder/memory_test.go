package seeder

import (
	"context"
	"errors"
	"math/rand"

	"github.com/Rana718/tablesmith/internal/types"
)

// memoryDB is an in-memory SchemaProvider and RowOracle.
type memoryDB struct {
	tables  map[string]*types.Table
	rows    map[string][]types.Row
	nextID  map[string]int64
	inserts []string
	rand    *rand.Rand

	failColumns error
	failInsert  error
}

func newMemoryDB(tables ...*types.Table) *memoryDB {
	db := &memoryDB{
		tables: make(map[string]*types.Table),
		rows:   make(map[string][]types.Row),
		nextID: make(map[string]int64),
		rand:   rand.New(rand.NewSource(1)),
	}
	for _, t := range tables {
		db.tables[t.Name] = t
	}
	return db
}

func (m *memoryDB) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	for name := range m.tables {
		names = append(names, name)
	}
	return names, nil
}

func (m *memoryDB) ListColumns(ctx context.Context, table string) ([]types.Column, error) {
	if m.failColumns != nil {
		return nil, m.failColumns
	}
	t, ok := m.tables[table]
	if !ok {
		return nil, nil
	}
	return append([]types.Column(nil), t.Columns...), nil
}

func (m *memoryDB) ListIndexes(ctx context.Context, table string) ([]types.Index, error) {
	return m.tables[table].Indexes, nil
}

func (m *memoryDB) ListForeignKeys(ctx context.Context, table string) ([]types.ForeignKey, error) {
	return m.tables[table].ForeignKeys, nil
}

func (m *memoryDB) RowExists(ctx context.Context, table string) (bool, error) {
	return len(m.rows[table]) > 0, nil
}

func (m *memoryDB) RandomExistingValue(ctx context.Context, table, column string) (interface{}, error) {
	rows := m.rows[table]
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[m.rand.Intn(len(rows))][column], nil
}

func (m *memoryDB) InsertRows(ctx context.Context, batch types.Batch) error {
	if m.failInsert != nil {
		return m.failInsert
	}
	if batch.Len() == 0 {
		return nil
	}
	table, ok := m.tables[batch.Table]
	if !ok {
		return errors.New("no such table: " + batch.Table)
	}

	for _, row := range batch.Rows {
		stored := make(types.Row, len(row)+1)
		for k, v := range row {
			stored[k] = v
		}
		if table.HasColumn("id") {
			if _, set := stored["id"]; !set {
				m.nextID[batch.Table]++
				stored["id"] = m.nextID[batch.Table]
			}
		}
		m.rows[batch.Table] = append(m.rows[batch.Table], stored)
	}
	m.inserts = append(m.inserts, batch.Table)
	return nil
}

func idColumn() types.Column {
	return types.Column{Name: "id", Type: types.TypeBigInt, ReportedType: "bigint", AutoIncrement: true}
}

func primary() []types.Index {
	return []types.Index{{Name: "primary", Columns: []string{"id"}, Unique: true, Primary: true}}
}

func fk(local, table string) types.ForeignKey {
	return types.ForeignKey{
		Name:              local + "_foreign",
		LocalColumns:      []string{local},
		ReferencedTable:   table,
		ReferencedColumns: []string{"id"},
	}
}
