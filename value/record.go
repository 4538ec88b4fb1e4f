package value

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// A Record is an ordered mapping from field names to values.  Field order is
// insertion order and is preserved through every operation; keys are unique
// (setting an existing key overwrites its value in place).
type Record struct {
	fields *orderedmap.OrderedMap[string, Value]
	tag    Tag
}

var _ Value = &Record{}

func NewRecord(tag Tag) *Record {
	return &Record{
		fields: orderedmap.New[string, Value](),
		tag:    tag,
	}
}

func (r *Record) Kind() Kind {
	return KindRecord
}

func (r *Record) Tag() Tag {
	return r.tag
}

func (r *Record) WithTag(tag Tag) Value {
	return &Record{fields: r.fields, tag: tag}
}

func (r *Record) Len() int {
	return r.fields.Len()
}

func (r *Record) Get(name string) (Value, bool) {
	return r.fields.Get(name)
}

func (r *Record) Set(name string, v Value) {
	r.fields.Set(name, v)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls f for each field in insertion order, stopping early if f
// returns false.
func (r *Record) Each(f func(name string, v Value) bool) {
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !f(pair.Key, pair.Value) {
			return
		}
	}
}

func (r *Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	r.Each(func(name string, v Value) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(v.String())
		return true
	})
	b.WriteByte('}')
	return b.String()
}

// A RecordBuilder constructs a tagged record field by field.
type RecordBuilder struct {
	rec *Record
}

func NewRecordBuilder(tag Tag) *RecordBuilder {
	return &RecordBuilder{rec: NewRecord(tag)}
}

// Insert adds a field holding v with its own tag intact.
func (b *RecordBuilder) Insert(name string, v Value) {
	b.rec.Set(name, v)
}

// InsertUntagged adds a field holding v re-tagged with the builder's tag.
func (b *RecordBuilder) InsertUntagged(name string, v Value) {
	b.rec.Set(name, v.WithTag(b.rec.tag))
}

func (b *RecordBuilder) Len() int {
	return b.rec.Len()
}

func (b *RecordBuilder) Value() *Record {
	return b.rec
}
