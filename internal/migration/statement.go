package migration

import "strings"

type StatementKind int

const (
	KindIdentity StatementKind = iota
	KindColumn
	KindUnique
	KindForeign
	KindTimestamps
)

func (k StatementKind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindColumn:
		return "column"
	case KindUnique:
		return "unique"
	case KindForeign:
		return "foreign"
	case KindTimestamps:
		return "timestamps"
	default:
		return "unknown"
	}
}

// Qualifier is a chained call such as ->nullable() or ->onDelete('cascade').
type Qualifier struct {
	Method string
	Args   []string
}

// Statement is one Blueprint line. Args and qualifier args are PHP literals
// ready to be written out verbatim.
type Statement struct {
	Kind       StatementKind
	Column     string
	Method     string
	Args       []string
	Qualifiers []Qualifier
}

func (s *Statement) qualify(method string, args ...string) {
	s.Qualifiers = append(s.Qualifiers, Qualifier{Method: method, Args: args})
}

func (s Statement) Render() string {
	var b strings.Builder
	b.WriteString("$table->")
	writeCall(&b, s.Method, s.Args)
	for _, q := range s.Qualifiers {
		b.WriteString("->")
		writeCall(&b, q.Method, q.Args)
	}
	b.WriteString(";")
	return b.String()
}

func writeCall(b *strings.Builder, method string, args []string) {
	b.WriteString(method)
	b.WriteString("(")
	b.WriteString(strings.Join(args, ", "))
	b.WriteString(")")
}
