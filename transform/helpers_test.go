package transform

import (
	"testing"

	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// runTransformer feeds input through the transformer and gathers its whole
// output, returning the transformer's error.
func runTransformer(t *testing.T, transformer stream.Transformer, input []value.Value) ([]value.Value, error) {
	t.Helper()
	in := make(chan value.Value)
	go func() {
		defer close(in)
		for _, v := range input {
			in <- v
		}
	}()
	out := make(chan value.Value)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		err := transformer.Transform(in, out)
		if err != nil {
			for range in {
			}
		}
		errs <- err
	}()
	var results []value.Value
	for v := range out {
		results = append(results, v)
	}
	return results, <-errs
}

func record(t *testing.T, pairs ...any) *value.Record {
	t.Helper()
	rec := value.NewRecord(value.Tag{})
	for i := 0; i < len(pairs); i += 2 {
		rec.Set(pairs[i].(string), toValue(t, pairs[i+1]))
	}
	return rec
}

func table(t *testing.T, items ...any) *value.Table {
	t.Helper()
	values := make([]value.Value, len(items))
	for i, item := range items {
		values[i] = toValue(t, item)
	}
	return value.NewTable(values, value.Tag{})
}

func toValue(t *testing.T, x any) value.Value {
	t.Helper()
	switch x := x.(type) {
	case value.Value:
		return x
	case string:
		return value.NewString(x, value.Tag{})
	case int:
		return value.NewInt(int64(x), value.Tag{})
	case bool:
		return value.NewBool(x, value.Tag{})
	case nil:
		return value.Nothing(value.Tag{})
	default:
		t.Fatalf("cannot make a value from %T", x)
		return nil
	}
}

func paths(t *testing.T, exprs ...string) []value.ColumnPath {
	t.Helper()
	result := make([]value.ColumnPath, len(exprs))
	for i, expr := range exprs {
		path, err := value.ParsePath(expr)
		if err != nil {
			t.Fatalf("ParsePath(%q): %s", expr, err)
		}
		result[i] = path
	}
	return result
}

// assertRows checks that got is a sequence of records matching want, where
// each want entry is a flat list of key, display-value pairs in field order.
// A nil expected value means the nothing cell.
func assertRows(t *testing.T, got []value.Value, want [][]any) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, row := range got {
		rec, ok := row.(*value.Record)
		if !ok {
			t.Fatalf("row %d: expected a record, got %s", i, row.Kind())
		}
		wantRow := want[i]
		if rec.Len()*2 != len(wantRow) {
			t.Fatalf("row %d: expected %d fields, got %d", i, len(wantRow)/2, rec.Len())
		}
		j := 0
		rec.Each(func(name string, v value.Value) bool {
			wantName := wantRow[j].(string)
			if name != wantName {
				t.Errorf("row %d field %d: expected key %q, got %q", i, j/2, wantName, name)
			}
			wantValue := wantRow[j+1]
			if wantValue == nil {
				p, ok := v.(*value.Primitive)
				if !ok || !p.IsNothing() {
					t.Errorf("row %d field %q: expected nothing, got %s", i, name, v)
				}
			} else if v.String() != wantValue.(string) {
				t.Errorf("row %d field %q: expected %q, got %q", i, name, wantValue, v.String())
			}
			j += 2
			return true
		})
	}
}
