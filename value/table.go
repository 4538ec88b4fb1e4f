package value

import "strings"

// A Table is an ordered sequence of values, typically records sharing a
// common set of fields.
type Table struct {
	items []Value
	tag   Tag
}

var _ Value = &Table{}

func NewTable(items []Value, tag Tag) *Table {
	return &Table{items: items, tag: tag}
}

func (t *Table) Kind() Kind {
	return KindTable
}

func (t *Table) Tag() Tag {
	return t.tag
}

func (t *Table) WithTag(tag Tag) Value {
	return &Table{items: t.items, tag: tag}
}

func (t *Table) Len() int {
	return len(t.items)
}

// At returns the item at index i, reporting false when i is out of range.
func (t *Table) At(i int) (Value, bool) {
	if i < 0 || i >= len(t.items) {
		return nil, false
	}
	return t.items[i], true
}

// Items returns the underlying item slice.  Callers must not mutate it.
func (t *Table) Items() []Value {
	return t.items
}

func (t *Table) Append(v Value) {
	t.items = append(t.items, v)
}

func (t *Table) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range t.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteByte(']')
	return b.String()
}
