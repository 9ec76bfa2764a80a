package common

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}

// ValidateIdentifier rejects table and column names that cannot be safely
// interpolated into PRAGMA or catalog statements.
func ValidateIdentifier(name string) error {
	if !validIdentifier.MatchString(name) {
		return fmt.Errorf("invalid identifier: %q", name)
	}
	return nil
}

func ValidateIdentifiers(names ...string) error {
	for _, name := range names {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeValue converts driver-specific scan results into plain values.
func NormalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return val
	}
}

// InsertValue converts synthesized values into driver arguments.
func InsertValue(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return v
}

func IntPtr(v int64, valid bool) *int {
	if !valid {
		return nil
	}
	n := int(v)
	return &n
}

func StringPtr(s string, valid bool) *string {
	if !valid {
		return nil
	}
	return &s
}

// UnquoteDefault removes one surrounding pair of single or double quotes
// from a catalog default and collapses doubled quotes inside it.
func UnquoteDefault(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return value
	}
	for _, q := range []string{"'", `"`} {
		if strings.HasPrefix(value, q) && strings.HasSuffix(value, q) {
			return strings.ReplaceAll(value[1:len(value)-1], q+q, q)
		}
	}
	return value
}
