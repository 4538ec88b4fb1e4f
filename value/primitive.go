package value

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// A Primitive is a scalar value.  Integers and decimals are kept apart so
// that whole numbers survive round trips exactly; non-integer numbers use
// arbitrary precision decimals.
type Primitive struct {
	kind Kind
	b    bool
	i    int64
	d    decimal.Decimal
	s    string
	tag  Tag
}

var _ Value = &Primitive{}

// Nothing is the null marker: it denotes "no data present", as opposed to a
// field being absent altogether.
func Nothing(tag Tag) *Primitive {
	return &Primitive{kind: KindNothing, tag: tag}
}

func NewBool(b bool, tag Tag) *Primitive {
	return &Primitive{kind: KindBool, b: b, tag: tag}
}

func NewInt(i int64, tag Tag) *Primitive {
	return &Primitive{kind: KindInt, i: i, tag: tag}
}

func NewDecimal(d decimal.Decimal, tag Tag) *Primitive {
	return &Primitive{kind: KindDecimal, d: d, tag: tag}
}

func NewString(s string, tag Tag) *Primitive {
	return &Primitive{kind: KindString, s: s, tag: tag}
}

func (p *Primitive) Kind() Kind {
	return p.kind
}

func (p *Primitive) Tag() Tag {
	return p.tag
}

func (p *Primitive) WithTag(tag Tag) Value {
	q := *p
	q.tag = tag
	return &q
}

func (p *Primitive) IsNothing() bool {
	return p.kind == KindNothing
}

func (p *Primitive) Bool() bool {
	return p.b
}

func (p *Primitive) Int() int64 {
	return p.i
}

func (p *Primitive) Decimal() decimal.Decimal {
	return p.d
}

func (p *Primitive) Str() string {
	return p.s
}

// String renders the scalar in display form.  Strings are returned verbatim,
// without quotes.
func (p *Primitive) String() string {
	switch p.kind {
	case KindNothing:
		return ""
	case KindBool:
		return strconv.FormatBool(p.b)
	case KindInt:
		return strconv.FormatInt(p.i, 10)
	case KindDecimal:
		return p.d.String()
	case KindString:
		return p.s
	default:
		return "invalid"
	}
}

// Equal compares two primitives by kind and content, ignoring tags.
func (p *Primitive) Equal(q *Primitive) bool {
	if p.kind != q.kind {
		return false
	}
	switch p.kind {
	case KindNothing:
		return true
	case KindBool:
		return p.b == q.b
	case KindInt:
		return p.i == q.i
	case KindDecimal:
		return p.d.Equal(q.d)
	case KindString:
		return p.s == q.s
	default:
		return false
	}
}
