package typemap

import (
	"reflect"
	"testing"

	"github.com/Rana718/tablesmith/internal/types"
)

func intPtr(v int) *int { return &v }

func TestMap(t *testing.T) {
	tests := []struct {
		name      string
		reported  string
		length    *int
		precision *int
		scale     *int
		want      Mapping
	}{
		{"varchar with length", "varchar", intPtr(255), nil, nil, Mapping{"string", []string{"255"}, true}},
		{"string without length", "string", nil, nil, nil, Mapping{"string", []string{}, true}},
		{"text", "text", intPtr(65535), nil, nil, Mapping{"text", []string{}, true}},
		{"integer", "integer", nil, nil, nil, Mapping{"integer", []string{}, true}},
		{"bigint", "bigint", nil, nil, nil, Mapping{"bigInteger", []string{}, true}},
		{"smallint", "smallint", nil, nil, nil, Mapping{"smallInteger", []string{}, true}},
		{"boolean", "boolean", nil, nil, nil, Mapping{"boolean", []string{}, true}},
		{"date", "date", nil, nil, nil, Mapping{"date", []string{}, true}},
		{"datetime", "datetime", nil, nil, nil, Mapping{"dateTime", []string{}, true}},
		{"datetimetz", "datetimetz", nil, nil, nil, Mapping{"dateTime", []string{}, true}},
		{"timestamp", "timestamp", nil, nil, nil, Mapping{"timestamp", []string{}, true}},
		{"float", "float", nil, nil, nil, Mapping{"float", []string{}, true}},
		{"decimal", "decimal", nil, intPtr(8), intPtr(2), Mapping{"decimal", []string{"8", "2"}, true}},
		{"json", "json", nil, nil, nil, Mapping{"json", []string{}, true}},
		{"uuid", "uuid", nil, nil, nil, Mapping{"uuid", []string{}, true}},
		{"case insensitive", "VARCHAR", intPtr(10), nil, nil, Mapping{"string", []string{"10"}, true}},
		{"unknown", "geometry", nil, nil, nil, Mapping{"string", []string{}, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.reported, tt.length, tt.precision, tt.scale)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Map(%q) = %+v, want %+v", tt.reported, got, tt.want)
			}
		})
	}
}

func TestMapIsDeterministic(t *testing.T) {
	first := Map("decimal", nil, intPtr(10), intPtr(4))
	for i := 0; i < 10; i++ {
		if got := Map("decimal", nil, intPtr(10), intPtr(4)); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]types.SemanticType{
		"varchar":    types.TypeString,
		"text":       types.TypeText,
		"bigint":     types.TypeBigInt,
		"datetimetz": types.TypeDateTime,
		"timestamp":  types.TypeTimestamp,
		"guid":       types.TypeUUID,
		"Boolean":    types.TypeBoolean,
		"blob":       types.TypeOther,
	}
	for reported, want := range tests {
		if got := Classify(reported); got != want {
			t.Errorf("Classify(%q) = %q, want %q", reported, got, want)
		}
	}
}

func TestDefaultLiteral(t *testing.T) {
	tests := []struct {
		reported, value, want string
	}{
		{"varchar", "pending", "'pending'"},
		{"string", "it's", `'it\'s'`},
		{"text", `a\b`, `'a\\b'`},
		{"boolean", "1", "true"},
		{"boolean", "false", "false"},
		{"integer", "0", "0"},
		{"decimal", "9.99", "9.99"},
		{"date", "2024-01-01", "'2024-01-01'"},
	}
	for _, tt := range tests {
		if got := DefaultLiteral(tt.reported, tt.value); got != tt.want {
			t.Errorf("DefaultLiteral(%q, %q) = %s, want %s", tt.reported, tt.value, got, tt.want)
		}
	}
}
