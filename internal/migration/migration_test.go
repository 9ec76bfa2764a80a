package migration

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func fixedManager(dir string) *Manager {
	m := NewManager(dir)
	m.Now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return m
}

func TestFileName(t *testing.T) {
	m := fixedManager(t.TempDir())

	if got, want := m.FileName("OrderItems"), "2024_03_09_140507_create_order_items_table.php"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestWriteAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	m := fixedManager(dir)

	path, err := m.Write(Compile(usersTable()))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Base(path) != "2024_03_09_140507_create_users_table.php" {
		t.Errorf("unexpected path %s", path)
	}

	if _, err := m.Write(Compile(usersTable())); !errors.Is(err, ErrFileExists) {
		t.Errorf("second Write() error = %v, want ErrFileExists", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("List() returned %d files, want 1", len(files))
	}
	if len(files[0].Checksum) != 64 {
		t.Errorf("checksum %q is not a sha256 hex digest", files[0].Checksum)
	}
	want := []string{"id", "email: string", "timestamps"}
	if !reflect.DeepEqual(files[0].Fields, want) {
		t.Errorf("Fields = %v, want %v", files[0].Fields, want)
	}
}

func TestListMissingDirectory(t *testing.T) {
	files, err := NewManager(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(files) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", files, err)
	}
}

func TestExtractFields(t *testing.T) {
	content := `
        Schema::create('orders', function (Blueprint $table) {
            $table->id();
            $table->decimal('total', 8, 2)->default(0);
            $table->unique(['user_id', 'number']);
            $table->foreign('user_id')->references('id')->on('users');
        });`

	want := []string{"id", "total: decimal", "user_id: unique", "user_id: foreign"}
	if got := ExtractFields(content); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFields() = %v, want %v", got, want)
	}
}
