package value

// A Value is a node in a structured data tree.  There are three shapes of
// value:
//
//   - *Primitive: a scalar (string, integer, decimal, boolean or nothing)
//   - *Record: an ordered mapping from field names to values
//   - *Table: an ordered sequence of values, typically records
//
// Every value carries a Tag recording where it came from.  Pipelines pass
// tags through unchanged so that errors reported far downstream can still
// point at the original input.
type Value interface {
	Kind() Kind
	Tag() Tag
	WithTag(Tag) Value
	String() string
}

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNothing Kind = iota
	KindBool
	KindInt
	KindDecimal
	KindString
	KindRecord
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindRecord:
		return "record"
	case KindTable:
		return "table"
	default:
		return "invalid"
	}
}
