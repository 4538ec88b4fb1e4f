package transform

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// ErrNoColumns is returned by NewSelect when no column paths are given.
var ErrNoColumns = errors.New("select requires columns to select")

// MissingColumnPolicy controls what Select does when a requested column path
// does not resolve against an input value.
type MissingColumnPolicy uint8

const (
	// LenientMissing skips the cell: the column still appears in the
	// output, showing nothing for that input value.
	LenientMissing MissingColumnPolicy = iota
	// FailOnMissing aborts the operator with the resolution error.
	FailOnMissing
)

// Select is the column projection operator: it reduces a stream of records
// to just the requested columns, in request order.
//
// Select works in two phases.  While input lasts it accumulates, per
// requested column, the list of values that column resolved to; a cell that
// resolves to a table fans out into one entry per table row, lengthening
// that column alone.  On input exhaustion it emits one output record per
// index up to the longest column's length, filling cells past a column's
// end with nothing.
//
// Because columns grow independently, output rows are an index-aligned
// stitch of per-column lists, not a filter of the input records: a
// table-valued cell shifts the pairing between its column and the others
// for all subsequent rows.
//
// Requesting the same column path twice accumulates both occurrences into
// the same column, doubling its list.
type Select struct {
	paths  []value.ColumnPath
	policy MissingColumnPolicy
	tag    value.Tag
}

var _ stream.Transformer = &Select{}

// A SelectOption configures a Select operator.
type SelectOption func(*Select)

// WithMissingColumnPolicy sets the policy applied when a column path does
// not resolve.  The default is LenientMissing.
func WithMissingColumnPolicy(policy MissingColumnPolicy) SelectOption {
	return func(s *Select) {
		s.policy = policy
	}
}

// WithTag sets the tag applied to the records Select builds, typically the
// span of the invocation that requested the selection.
func WithTag(tag value.Tag) SelectOption {
	return func(s *Select) {
		s.tag = tag
	}
}

// NewSelect builds a Select for the given column paths, in request order.
// It returns ErrNoColumns if paths is empty.
func NewSelect(paths []value.ColumnPath, opts ...SelectOption) (*Select, error) {
	if len(paths) == 0 {
		return nil, ErrNoColumns
	}
	s := &Select{paths: paths}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Transform implements the Select operator.
func (s *Select) Transform(in <-chan value.Value, out chan<- value.Value) error {
	columns, err := s.accumulate(in)
	if err != nil {
		return err
	}
	s.synthesize(columns, out)
	return nil
}

// accumulate consumes the input once.  The returned map is keyed by the
// canonical path rendering; key order is first-seen order, which is request
// order since every input value visits the paths in request order.  Each
// entry of a column's list is a single-field wrapper record {key: cell}.
func (s *Select) accumulate(in <-chan value.Value) (*orderedmap.OrderedMap[string, []*value.Record], error) {
	columns := orderedmap.New[string, []*value.Record]()
	for v := range in {
		for _, path := range s.paths {
			key := path.String()
			resolved, pathErr := value.Resolve(v, path)
			if pathErr != nil {
				if s.policy == FailOnMissing {
					return nil, pathErr
				}
				// The column must still materialize, as all
				// nothing cells, even if it never resolves.
				if _, ok := columns.Get(key); !ok {
					columns.Set(key, nil)
				}
				continue
			}
			if table, ok := resolved.(*value.Table); ok {
				for _, item := range table.Items() {
					s.appendCell(columns, key, item)
				}
			} else {
				s.appendCell(columns, key, resolved)
			}
		}
	}
	return columns, nil
}

func (s *Select) appendCell(columns *orderedmap.OrderedMap[string, []*value.Record], key string, cell value.Value) {
	wrapper := value.NewRecordBuilder(s.tag)
	wrapper.InsertUntagged(key, cell)
	cells, _ := columns.Get(key)
	columns.Set(key, append(cells, wrapper.Value()))
}

// synthesize re-aligns the column lists into rows.  The row count is the
// longest column's length; each row takes the column's entry at that index,
// or nothing once the column is exhausted.  Rows are sent one at a time, so
// production suspends until the consumer pulls.
func (s *Select) synthesize(columns *orderedmap.OrderedMap[string, []*value.Record], out chan<- value.Value) {
	width := 0
	for pair := columns.Oldest(); pair != nil; pair = pair.Next() {
		if n := len(pair.Value); n > width {
			width = n
		}
	}
	for i := 0; i < width; i++ {
		row := value.NewRecordBuilder(s.tag)
		for pair := columns.Oldest(); pair != nil; pair = pair.Next() {
			if i < len(pair.Value) {
				if cell, ok := pair.Value[i].Get(pair.Key); ok {
					row.InsertUntagged(pair.Key, cell)
					continue
				}
			}
			row.Insert(pair.Key, value.Nothing(s.tag))
		}
		out <- row.Value()
	}
}
