package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Rana718/tablesmith/internal/types"
)

const fixtureSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email VARCHAR(255) NOT NULL UNIQUE,
	name TEXT,
	active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	total DECIMAL(8,2) NOT NULL DEFAULT '0.00',
	number VARCHAR(20) NOT NULL
);
CREATE UNIQUE INDEX orders_user_number_unique ON orders(user_id, number);
CREATE TABLE audits (
	entity TEXT NOT NULL,
	entity_id INTEGER NOT NULL,
	owner_id INTEGER REFERENCES users,
	PRIMARY KEY (entity, entity_id)
);
`

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	ctx := context.Background()
	a := New()
	if err := a.Connect(ctx, "sqlite://"+filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })

	if _, err := a.db.ExecContext(ctx, fixtureSchema); err != nil {
		t.Fatalf("failed to create fixture schema: %v", err)
	}
	return a
}

func TestListTables(t *testing.T) {
	a := newTestAdapter(t)

	tables, err := a.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	want := []string{"audits", "orders", "users"}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("ListTables() = %v, want %v", tables, want)
	}
}

func TestListColumns(t *testing.T) {
	a := newTestAdapter(t)

	columns, err := a.ListColumns(context.Background(), "users")
	if err != nil {
		t.Fatalf("ListColumns() error = %v", err)
	}
	if len(columns) != 6 {
		t.Fatalf("got %d columns, want 6", len(columns))
	}

	id := columns[0]
	if !id.AutoIncrement || id.Type != types.TypeInteger {
		t.Errorf("id column = %+v, want auto-increment integer", id)
	}

	email := columns[1]
	if email.Type != types.TypeString || email.Nullable || email.Length == nil || *email.Length != 255 {
		t.Errorf("email column = %+v", email)
	}

	active := columns[3]
	if active.Type != types.TypeBoolean || active.Default == nil || *active.Default != "1" {
		t.Errorf("active column = %+v", active)
	}

	if columns[4].Type != types.TypeDateTime || !columns[4].Nullable {
		t.Errorf("created_at column = %+v", columns[4])
	}

	audits, err := a.ListColumns(context.Background(), "audits")
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range audits {
		if c.AutoIncrement {
			t.Errorf("composite primary key column %s must not be auto-increment", c.Name)
		}
	}
}

func TestListIndexes(t *testing.T) {
	a := newTestAdapter(t)

	indexes, err := a.ListIndexes(context.Background(), "orders")
	if err != nil {
		t.Fatalf("ListIndexes() error = %v", err)
	}

	var primary, composite *types.Index
	for i := range indexes {
		switch {
		case indexes[i].Primary:
			primary = &indexes[i]
		case indexes[i].Name == "orders_user_number_unique":
			composite = &indexes[i]
		}
	}
	if primary == nil || !reflect.DeepEqual(primary.Columns, []string{"id"}) {
		t.Errorf("primary index = %+v", primary)
	}
	if composite == nil || !composite.Unique || !reflect.DeepEqual(composite.Columns, []string{"user_id", "number"}) {
		t.Errorf("composite unique index = %+v", composite)
	}

	userIndexes, err := a.ListIndexes(context.Background(), "users")
	if err != nil {
		t.Fatal(err)
	}
	foundEmail := false
	for _, idx := range userIndexes {
		if idx.Unique && !idx.Primary && reflect.DeepEqual(idx.Columns, []string{"email"}) {
			foundEmail = true
		}
	}
	if !foundEmail {
		t.Errorf("expected a unique index on users.email, got %+v", userIndexes)
	}
}

func TestListForeignKeys(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	fks, err := a.ListForeignKeys(ctx, "orders")
	if err != nil {
		t.Fatalf("ListForeignKeys() error = %v", err)
	}
	if len(fks) != 1 {
		t.Fatalf("got %d foreign keys, want 1", len(fks))
	}
	fk := fks[0]
	if fk.ReferencedTable != "users" || !reflect.DeepEqual(fk.LocalColumns, []string{"user_id"}) ||
		!reflect.DeepEqual(fk.ReferencedColumns, []string{"id"}) || fk.OnDelete != types.ActionCascade {
		t.Errorf("foreign key = %+v", fk)
	}

	implicit, err := a.ListForeignKeys(ctx, "audits")
	if err != nil {
		t.Fatal(err)
	}
	if len(implicit) != 1 || !reflect.DeepEqual(implicit[0].ReferencedColumns, []string{"id"}) {
		t.Errorf("implicit primary key reference = %+v", implicit)
	}
}

func TestRowOracle(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	exists, err := a.RowExists(ctx, "users")
	if err != nil || exists {
		t.Fatalf("RowExists() on empty table = %v, %v", exists, err)
	}

	value, err := a.RandomExistingValue(ctx, "users", "id")
	if err != nil || value != nil {
		t.Fatalf("RandomExistingValue() on empty table = %v, %v", value, err)
	}

	batch := types.Batch{
		Table:   "users",
		Columns: []string{"email", "name", "active"},
		Rows: []types.Row{
			{"email": "a@example.com", "name": "Ada", "active": true},
			{"email": "b@example.com", "name": nil, "active": false},
		},
	}
	if err := a.InsertRows(ctx, batch); err != nil {
		t.Fatalf("InsertRows() error = %v", err)
	}

	exists, err = a.RowExists(ctx, "users")
	if err != nil || !exists {
		t.Fatalf("RowExists() after insert = %v, %v", exists, err)
	}

	value, err = a.RandomExistingValue(ctx, "users", "id")
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := value.(int64); !ok || (id != 1 && id != 2) {
		t.Errorf("RandomExistingValue() = %#v, want 1 or 2", value)
	}

	result, err := a.GetTableRows(ctx, "users", 1)
	if err != nil {
		t.Fatalf("GetTableRows() error = %v", err)
	}
	if len(result.Rows) != 1 || len(result.Columns) != 6 {
		t.Errorf("GetTableRows() returned %d rows and %d columns", len(result.Rows), len(result.Columns))
	}
}

func TestInvalidIdentifierRejected(t *testing.T) {
	a := newTestAdapter(t)

	if _, err := a.ListColumns(context.Background(), "users; DROP TABLE users"); err == nil {
		t.Error("expected an error for an invalid table name")
	}
}

func TestSplitDeclaredType(t *testing.T) {
	base, args := splitDeclaredType("DECIMAL(10, 4)")
	if base != "decimal" || len(args) != 2 || *args[0] != 10 || *args[1] != 4 {
		t.Errorf("splitDeclaredType() = %q, %v", base, args)
	}
	if base, args := splitDeclaredType("text"); base != "text" || args != nil {
		t.Errorf("splitDeclaredType(text) = %q, %v", base, args)
	}
}
