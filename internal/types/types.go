package types

import "strings"

// SemanticType is the provider-neutral classification of a column type.
type SemanticType string

const (
	TypeString    SemanticType = "string"
	TypeText      SemanticType = "text"
	TypeInteger   SemanticType = "integer"
	TypeBigInt    SemanticType = "bigint"
	TypeSmallInt  SemanticType = "smallint"
	TypeBoolean   SemanticType = "boolean"
	TypeDate      SemanticType = "date"
	TypeDateTime  SemanticType = "datetime"
	TypeTimestamp SemanticType = "timestamp"
	TypeFloat     SemanticType = "float"
	TypeDecimal   SemanticType = "decimal"
	TypeJSON      SemanticType = "json"
	TypeUUID      SemanticType = "uuid"
	TypeOther     SemanticType = "other"
)

func (t SemanticType) IsDateTimeFamily() bool {
	return t == TypeDateTime || t == TypeTimestamp
}

func (t SemanticType) IsInteger() bool {
	return t == TypeInteger || t == TypeBigInt || t == TypeSmallInt
}

func (t SemanticType) IsTextual() bool {
	return t == TypeString || t == TypeText
}

type Column struct {
	Name string       `json:"name" yaml:"name"`
	Type SemanticType `json:"type" yaml:"type"`
	// ReportedType is the provider's own type name (varchar, datetimetz, guid, ...).
	ReportedType  string  `json:"reported_type" yaml:"reported_type"`
	Nullable      bool    `json:"nullable" yaml:"nullable"`
	Default       *string `json:"default,omitempty" yaml:"default,omitempty"`
	Length        *int    `json:"length,omitempty" yaml:"length,omitempty"`
	Precision     *int    `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale         *int    `json:"scale,omitempty" yaml:"scale,omitempty"`
	AutoIncrement bool    `json:"auto_increment" yaml:"auto_increment"`
}

type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Unique  bool     `json:"unique" yaml:"unique"`
	Primary bool     `json:"primary" yaml:"primary"`
}

// ReferentialAction is what happens to referencing rows on delete/update.
// The zero value means the provider reported nothing.
type ReferentialAction string

const (
	ActionUnspecified ReferentialAction = ""
	ActionCascade     ReferentialAction = "CASCADE"
	ActionRestrict    ReferentialAction = "RESTRICT"
	ActionSetNull     ReferentialAction = "SET NULL"
	ActionNoAction    ReferentialAction = "NO ACTION"
	ActionSetDefault  ReferentialAction = "SET DEFAULT"
)

// IsDefault reports whether the action matches the SQL default behaviour.
func (a ReferentialAction) IsDefault() bool {
	return a == ActionUnspecified || a == ActionNoAction
}

// ParseReferentialAction normalizes provider spellings such as "set_null" or "no action".
func ParseReferentialAction(s string) ReferentialAction {
	normalized := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, "_", " ")))
	switch ReferentialAction(normalized) {
	case ActionCascade, ActionRestrict, ActionSetNull, ActionNoAction, ActionSetDefault:
		return ReferentialAction(normalized)
	}
	return ActionUnspecified
}

type ForeignKey struct {
	Name              string            `json:"name" yaml:"name"`
	LocalColumns      []string          `json:"local_columns" yaml:"local_columns"`
	ReferencedTable   string            `json:"referenced_table" yaml:"referenced_table"`
	ReferencedColumns []string          `json:"referenced_columns" yaml:"referenced_columns"`
	OnDelete          ReferentialAction `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
	OnUpdate          ReferentialAction `json:"on_update,omitempty" yaml:"on_update,omitempty"`
}

func (fk ForeignKey) IsSingleColumn() bool {
	return len(fk.LocalColumns) == 1 && len(fk.ReferencedColumns) == 1
}

// Table is a snapshot of one table's metadata, built fresh per operation.
type Table struct {
	Name        string       `json:"name" yaml:"name"`
	Columns     []Column     `json:"columns" yaml:"columns"`
	Indexes     []Index      `json:"indexes" yaml:"indexes"`
	ForeignKeys []ForeignKey `json:"foreign_keys" yaml:"foreign_keys"`
}

func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// IdentityColumn returns the auto-increment column that belongs to a primary index.
func (t *Table) IdentityColumn() (*Column, bool) {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.AutoIncrement && t.inPrimaryIndex(col.Name) {
			return col, true
		}
	}
	return nil, false
}

func (t *Table) inPrimaryIndex(column string) bool {
	for _, idx := range t.Indexes {
		if !idx.Primary {
			continue
		}
		for _, c := range idx.Columns {
			if c == column {
				return true
			}
		}
	}
	return false
}

// Row maps column names to synthesized or sampled values.
type Row map[string]interface{}

// Batch is one insert unit: rows for a single table with a fixed column order.
type Batch struct {
	Table   string
	Columns []string
	Rows    []Row
}

func (b Batch) Len() int {
	return len(b.Rows)
}
