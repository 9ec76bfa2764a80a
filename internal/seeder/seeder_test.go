package seeder

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Rana718/tablesmith/internal/database"
	"github.com/Rana718/tablesmith/internal/types"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func usersTable() *types.Table {
	return &types.Table{
		Name: "users",
		Columns: []types.Column{
			idColumn(),
			{Name: "name", Type: types.TypeString, ReportedType: "string"},
			{Name: "email", Type: types.TypeString, ReportedType: "string"},
			{Name: "password", Type: types.TypeString, ReportedType: "string"},
			{Name: "remember_token", Type: types.TypeString, ReportedType: "string", Nullable: true},
			{Name: "created_at", Type: types.TypeTimestamp, ReportedType: "timestamp", Nullable: true},
			{Name: "updated_at", Type: types.TypeTimestamp, ReportedType: "timestamp", Nullable: true},
			{Name: "deleted_at", Type: types.TypeTimestamp, ReportedType: "timestamp", Nullable: true},
		},
		Indexes: primary(),
	}
}

func ordersTable() *types.Table {
	return &types.Table{
		Name: "orders",
		Columns: []types.Column{
			idColumn(),
			{Name: "user_id", Type: types.TypeBigInt, ReportedType: "bigint"},
			{Name: "total", Type: types.TypeDecimal, ReportedType: "decimal"},
		},
		Indexes:     primary(),
		ForeignKeys: []types.ForeignKey{fk("user_id", "users")},
	}
}

func newTestGenerator(db *memoryDB) *Generator {
	g := NewGenerator(db, db, NewSynthesizerWithSeed(42))
	g.now = func() time.Time { return fixedNow }
	return g
}

func TestGenerateResolvesEmptyReferencedTable(t *testing.T) {
	db := newMemoryDB(usersTable(), ordersTable())
	g := newTestGenerator(db)

	result, err := g.Generate(context.Background(), "orders", 1)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(db.rows["users"]) != 1 {
		t.Fatalf("users has %d rows, want 1 inserted first", len(db.rows["users"]))
	}
	if len(result.Dependencies) != 1 || result.Dependencies[0].Table != "users" {
		t.Fatalf("Dependencies = %+v, want one users batch", result.Dependencies)
	}
	if len(result.Batch.Rows) != 1 {
		t.Fatalf("got %d order rows, want 1", len(result.Batch.Rows))
	}
	if got := result.Batch.Rows[0]["user_id"]; got != db.rows["users"][0]["id"] {
		t.Errorf("user_id = %v, want %v", got, db.rows["users"][0]["id"])
	}
	if len(db.rows["orders"]) != 0 {
		t.Error("Generate must not persist the top-level batch")
	}
}

func TestSeedInsertsDependenciesFirst(t *testing.T) {
	db := newMemoryDB(usersTable(), ordersTable())
	g := newTestGenerator(db)

	if _, err := g.Seed(context.Background(), "orders", 3); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if want := []string{"users", "orders"}; !reflect.DeepEqual(db.inserts, want) {
		t.Errorf("insert order = %v, want %v", db.inserts, want)
	}
	if len(db.rows["orders"]) != 3 {
		t.Errorf("orders has %d rows, want 3", len(db.rows["orders"]))
	}
}

func TestForeignKeyValuesExistInReferencedTable(t *testing.T) {
	db := newMemoryDB(usersTable(), ordersTable())
	for i := int64(1); i <= 4; i++ {
		db.rows["users"] = append(db.rows["users"], types.Row{"id": i * 10})
	}
	g := newTestGenerator(db)

	result, err := g.Generate(context.Background(), "orders", 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Dependencies) != 0 {
		t.Errorf("no dependency batches expected, got %d", len(result.Dependencies))
	}

	existing := map[interface{}]bool{int64(10): true, int64(20): true, int64(30): true, int64(40): true}
	for i, row := range result.Batch.Rows {
		if !existing[row["user_id"]] {
			t.Errorf("row %d: user_id %v does not exist in users", i, row["user_id"])
		}
	}
}

func TestGenerateTerminatesOnCycle(t *testing.T) {
	a := &types.Table{
		Name: "a",
		Columns: []types.Column{
			idColumn(),
			{Name: "b_id", Type: types.TypeBigInt, ReportedType: "bigint", Nullable: true},
		},
		Indexes:     primary(),
		ForeignKeys: []types.ForeignKey{fk("b_id", "b")},
	}
	b := &types.Table{
		Name: "b",
		Columns: []types.Column{
			idColumn(),
			{Name: "a_id", Type: types.TypeBigInt, ReportedType: "bigint", Nullable: true},
		},
		Indexes:     primary(),
		ForeignKeys: []types.ForeignKey{fk("a_id", "a")},
	}
	db := newMemoryDB(a, b)
	g := newTestGenerator(db)

	done := make(chan struct{})
	var result *Result
	var err error
	go func() {
		result, err = g.Generate(context.Background(), "a", 5)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Generate did not terminate on a cyclic schema")
	}

	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result.Batch.Rows) != 5 {
		t.Errorf("got %d rows, want 5", len(result.Batch.Rows))
	}
	if !reflect.DeepEqual(result.Skipped, []string{"a"}) {
		t.Errorf("Skipped = %v, want [a]", result.Skipped)
	}
	if len(db.rows["b"]) != 1 {
		t.Errorf("b has %d rows, want 1", len(db.rows["b"]))
	}
	if db.rows["b"][0]["a_id"] != nil {
		t.Errorf("b.a_id = %v, want nil since a was still empty", db.rows["b"][0]["a_id"])
	}
	for _, row := range result.Batch.Rows {
		if row["b_id"] != db.rows["b"][0]["id"] {
			t.Errorf("a.b_id = %v, want %v", row["b_id"], db.rows["b"][0]["id"])
		}
	}
}

func TestGenerateSelfReference(t *testing.T) {
	categories := &types.Table{
		Name: "categories",
		Columns: []types.Column{
			idColumn(),
			{Name: "parent_id", Type: types.TypeBigInt, ReportedType: "bigint", Nullable: true},
			{Name: "title", Type: types.TypeString, ReportedType: "string"},
		},
		Indexes:     primary(),
		ForeignKeys: []types.ForeignKey{fk("parent_id", "categories")},
	}
	db := newMemoryDB(categories)

	result, err := newTestGenerator(db).Generate(context.Background(), "categories", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Batch.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(result.Batch.Rows))
	}
	for _, row := range result.Batch.Rows {
		if row["parent_id"] != nil {
			t.Errorf("parent_id = %v, want nil", row["parent_id"])
		}
		if s, ok := row["title"].(string); !ok || s == "" {
			t.Errorf("title = %#v, want a phrase", row["title"])
		}
	}
	if !reflect.DeepEqual(result.Skipped, []string{"categories"}) {
		t.Errorf("Skipped = %v", result.Skipped)
	}
}

func TestGenerateRowsHonoursVisitedSet(t *testing.T) {
	db := newMemoryDB(usersTable())
	g := newTestGenerator(db)

	visited := NewVisitedSet()
	visited.Visit("users")
	report := &Result{}

	rows, err := g.GenerateRows(context.Background(), usersTable(), 4, visited, report)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows for an already visited table, want 0", len(rows))
	}
	if !reflect.DeepEqual(report.Skipped, []string{"users"}) {
		t.Errorf("Skipped = %v", report.Skipped)
	}
}

func TestGenerateUsesFreshVisitedSetPerCall(t *testing.T) {
	db := newMemoryDB(usersTable())
	g := newTestGenerator(db)

	for i := 0; i < 2; i++ {
		result, err := g.Generate(context.Background(), "users", 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Batch.Rows) != 2 || len(result.Skipped) != 0 {
			t.Errorf("call %d: rows = %d, skipped = %v", i, len(result.Batch.Rows), result.Skipped)
		}
	}
}

func TestCompositeForeignKeyIsSkipped(t *testing.T) {
	shipments := &types.Table{
		Name: "shipments",
		Columns: []types.Column{
			idColumn(),
			{Name: "order_id", Type: types.TypeInteger, ReportedType: "integer"},
			{Name: "line_no", Type: types.TypeInteger, ReportedType: "integer"},
		},
		Indexes: primary(),
		ForeignKeys: []types.ForeignKey{{
			Name:              "shipments_line_foreign",
			LocalColumns:      []string{"order_id", "line_no"},
			ReferencedTable:   "order_lines",
			ReferencedColumns: []string{"order_id", "line_no"},
		}},
	}
	db := newMemoryDB(shipments)

	result, err := newTestGenerator(db).Generate(context.Background(), "shipments", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Notes) != 1 {
		t.Errorf("Notes = %v, want exactly one composite key note", result.Notes)
	}
	if len(db.inserts) != 0 {
		t.Errorf("no dependency inserts expected, got %v", db.inserts)
	}
	for _, row := range result.Batch.Rows {
		if v, ok := row["order_id"].(int); !ok || v < 1 || v > 1000 {
			t.Errorf("order_id = %#v, want synthesized integer", row["order_id"])
		}
	}
}

func TestReservedAndSpecialColumns(t *testing.T) {
	db := newMemoryDB(usersTable())

	result, err := newTestGenerator(db).Generate(context.Background(), "users", 3)
	if err != nil {
		t.Fatal(err)
	}

	wantColumns := []string{"name", "email", "password", "remember_token", "created_at", "updated_at", "deleted_at"}
	if !reflect.DeepEqual(result.Batch.Columns, wantColumns) {
		t.Errorf("Columns = %v, want %v", result.Batch.Columns, wantColumns)
	}

	for i, row := range result.Batch.Rows {
		if _, ok := row["id"]; ok {
			t.Errorf("row %d: id must not be synthesized", i)
		}
		if row["created_at"] != fixedNow || row["updated_at"] != fixedNow {
			t.Errorf("row %d: timestamps = %v / %v, want %v", i, row["created_at"], row["updated_at"], fixedNow)
		}
		if v, ok := row["deleted_at"]; !ok || v != nil {
			t.Errorf("row %d: deleted_at = %v (present %v), want explicit nil", i, v, ok)
		}

		hash, _ := row["password"].(string)
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")); err != nil {
			t.Errorf("row %d: password is not a bcrypt hash of secret: %v", i, err)
		}

		token, _ := row["remember_token"].(string)
		if len(token) != 10 {
			t.Errorf("row %d: remember_token = %q, want 10 characters", i, token)
		}
	}
}

func TestGenerateInvalidCount(t *testing.T) {
	g := newTestGenerator(newMemoryDB(usersTable()))

	if _, err := g.Generate(context.Background(), "users", 0); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Generate(count=0) error = %v, want ErrInvalidCount", err)
	}
}

func TestGenerateUnknownTable(t *testing.T) {
	g := newTestGenerator(newMemoryDB())

	if _, err := g.Generate(context.Background(), "ghosts", 1); !errors.Is(err, database.ErrTableNotFound) {
		t.Errorf("Generate() error = %v, want ErrTableNotFound", err)
	}
}

func TestProviderAndStorageFailuresPropagate(t *testing.T) {
	boom := errors.New("connection reset")

	db := newMemoryDB(usersTable(), ordersTable())
	db.failColumns = boom
	if _, err := newTestGenerator(db).Generate(context.Background(), "orders", 1); !errors.Is(err, boom) {
		t.Errorf("schema failure: error = %v, want %v", err, boom)
	}

	db = newMemoryDB(usersTable(), ordersTable())
	db.failInsert = boom
	if _, err := newTestGenerator(db).Generate(context.Background(), "orders", 1); !errors.Is(err, boom) {
		t.Errorf("dependency insert failure: error = %v, want %v", err, boom)
	}
}

func TestUnknownColumnTypeIsNoted(t *testing.T) {
	devices := &types.Table{
		Name: "devices",
		Columns: []types.Column{
			idColumn(),
			{Name: "address", Type: types.TypeOther, ReportedType: "inet"},
			{Name: "password", Type: types.TypeOther, ReportedType: "bytea"},
		},
		Indexes: primary(),
	}
	db := newMemoryDB(devices)

	result, err := newTestGenerator(db).Generate(context.Background(), "devices", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Notes) != 1 || !strings.Contains(result.Notes[0], "'inet'") || !strings.Contains(result.Notes[0], "devices.address") {
		t.Errorf("Notes = %v, want one note for devices.address", result.Notes)
	}
	for _, row := range result.Batch.Rows {
		if v, ok := row["address"].(string); !ok || v == "" {
			t.Errorf("address = %#v, want a generic word", row["address"])
		}
	}
}
