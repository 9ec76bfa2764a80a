// Package typemap translates provider type names into Blueprint column
// methods and into the semantic types used by the seeder.
package typemap

import (
	"strconv"
	"strings"

	"github.com/Rana718/tablesmith/internal/types"
)

// Mapping is the Blueprint method and positional arguments for one column.
type Mapping struct {
	Method string
	Args   []string
	Known  bool
}

var methods = map[string]string{
	"string":     "string",
	"varchar":    "string",
	"text":       "text",
	"integer":    "integer",
	"bigint":     "bigInteger",
	"smallint":   "smallInteger",
	"boolean":    "boolean",
	"date":       "date",
	"datetime":   "dateTime",
	"datetimetz": "dateTime",
	"timestamp":  "timestamp",
	"float":      "float",
	"decimal":    "decimal",
	"json":       "json",
	"uuid":       "uuid",
}

var semantics = map[string]types.SemanticType{
	"string":     types.TypeString,
	"varchar":    types.TypeString,
	"char":       types.TypeString,
	"guid":       types.TypeUUID,
	"text":       types.TypeText,
	"integer":    types.TypeInteger,
	"bigint":     types.TypeBigInt,
	"smallint":   types.TypeSmallInt,
	"boolean":    types.TypeBoolean,
	"date":       types.TypeDate,
	"datetime":   types.TypeDateTime,
	"datetimetz": types.TypeDateTime,
	"timestamp":  types.TypeTimestamp,
	"float":      types.TypeFloat,
	"decimal":    types.TypeDecimal,
	"json":       types.TypeJSON,
	"uuid":       types.TypeUUID,
}

// Map returns the Blueprint method for a reported type. Unrecognized types
// fall back to string with Known set to false.
func Map(reportedType string, length, precision, scale *int) Mapping {
	key := strings.ToLower(strings.TrimSpace(reportedType))
	method, ok := methods[key]
	if !ok {
		return Mapping{Method: "string", Args: []string{}, Known: false}
	}

	args := []string{}
	switch method {
	case "string":
		if length != nil {
			args = append(args, strconv.Itoa(*length))
		}
	case "decimal":
		if precision != nil {
			args = append(args, strconv.Itoa(*precision))
			if scale != nil {
				args = append(args, strconv.Itoa(*scale))
			}
		}
	}
	return Mapping{Method: method, Args: args, Known: true}
}

// Classify maps a reported type onto the semantic enum.
func Classify(reportedType string) types.SemanticType {
	if t, ok := semantics[strings.ToLower(strings.TrimSpace(reportedType))]; ok {
		return t
	}
	return types.TypeOther
}

// DefaultLiteral renders a column default the way Blueprint expects it in
// a ->default() call, based on the reported type.
func DefaultLiteral(reportedType, value string) string {
	switch strings.ToLower(reportedType) {
	case "string", "text", "guid", "char", "varchar":
		return Quote(value)
	case "boolean":
		switch strings.ToLower(value) {
		case "1", "true", "t", "yes":
			return "true"
		default:
			return "false"
		}
	case "integer", "smallint", "bigint", "float", "decimal":
		return value
	default:
		return Quote(value)
	}
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`, "\x00", `\0`)

// Quote wraps s in single quotes, backslash-escaping quotes, backslashes and NUL.
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
