package migration

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/stoewer/go-strcase"
)

var ErrFileExists = errors.New("migration file already exists")

var fieldPattern = regexp.MustCompile(`\$table->(.*?)\((.*?)\)`)

// File is a migration script found on disk.
type File struct {
	Name     string
	Path     string
	Checksum string
	Fields   []string
}

// Manager writes and lists migration scripts in a single directory.
type Manager struct {
	Dir string
	Now func() time.Time
}

func NewManager(dir string) *Manager {
	return &Manager{Dir: dir, Now: time.Now}
}

// FileName follows the Y_m_d_His_create_<table>_table.php convention.
func (m *Manager) FileName(table string) string {
	return fmt.Sprintf("%s_create_%s_table.php", m.Now().Format("2006_01_02_150405"), strcase.SnakeCase(table))
}

// Write renders the migration into the managed directory and returns its path.
func (m *Manager) Write(mig *Migration) (string, error) {
	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	path := filepath.Join(m.Dir, m.FileName(mig.Table))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrFileExists, path)
	}

	if err := os.WriteFile(path, []byte(mig.Render()), 0644); err != nil {
		return "", fmt.Errorf("failed to write migration file: %w", err)
	}
	return path, nil
}

// List returns the migration scripts in the directory sorted by name.
func (m *Manager) List() ([]File, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []File{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".php") {
			continue
		}

		path := filepath.Join(m.Dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		files = append(files, File{
			Name:     entry.Name(),
			Path:     path,
			Checksum: checksum(content),
			Fields:   ExtractFields(string(content)),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// ExtractFields lists "<column>: <method>" for each Blueprint call in a script.
func ExtractFields(content string) []string {
	var fields []string
	for _, match := range fieldPattern.FindAllStringSubmatch(content, -1) {
		method := match[1]
		column := strings.Trim(strings.SplitN(match[2], ",", 2)[0], ` '"[]`)
		if column == "" {
			fields = append(fields, method)
			continue
		}
		fields = append(fields, column+": "+method)
	}
	return fields
}

func checksum(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}
