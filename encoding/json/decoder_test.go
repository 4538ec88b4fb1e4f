package json

import (
	"strings"
	"testing"

	"github.com/stormasm/nucommand/value"
)

func decodeAll(t *testing.T, input string) []value.Value {
	t.Helper()
	values, err := tryDecodeAll(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return values
}

func tryDecodeAll(input string) ([]value.Value, error) {
	decoder := NewDecoder(strings.NewReader(input))
	decoder.SetAnchor("test")
	out := make(chan value.Value)
	done := make(chan error, 1)
	go func() {
		err := decoder.Produce(out)
		close(out)
		done <- err
	}()
	var values []value.Value
	for v := range out {
		values = append(values, v)
	}
	return values, <-done
}

func decodeOne(t *testing.T, input string) value.Value {
	t.Helper()
	values := decodeAll(t, input)
	if len(values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(values))
	}
	return values[0]
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		input string
		kind  value.Kind
		want  string
	}{
		{`"hello"`, value.KindString, "hello"},
		{`""`, value.KindString, ""},
		{`"a\nb"`, value.KindString, "a\nb"},
		{`"A"`, value.KindString, "A"},
		{`"😀"`, value.KindString, "\U0001F600"},
		{`42`, value.KindInt, "42"},
		{`-7`, value.KindInt, "-7"},
		{`3.14`, value.KindDecimal, "3.14"},
		{`1e3`, value.KindDecimal, "1000"},
		{`123456789012345678901234567890`, value.KindDecimal, "123456789012345678901234567890"},
		{`true`, value.KindBool, "true"},
		{`false`, value.KindBool, "false"},
		{`null`, value.KindNothing, ""},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			v := decodeOne(t, test.input)
			if v.Kind() != test.kind {
				t.Errorf("expected kind %s, got %s", test.kind, v.Kind())
			}
			if v.String() != test.want {
				t.Errorf("expected %q, got %q", test.want, v.String())
			}
		})
	}
}

func TestDecodeObjectKeepsKeyOrder(t *testing.T) {
	v := decodeOne(t, `{"zulu": 1, "alpha": 2, "mike": 3}`)
	rec, ok := v.(*value.Record)
	if !ok {
		t.Fatalf("expected a record, got %s", v.Kind())
	}
	want := []string{"zulu", "alpha", "mike"}
	keys := rec.Keys()
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Errorf("key %d: expected %q, got %q", i, key, keys[i])
		}
	}
}

func TestDecodeNested(t *testing.T) {
	v := decodeOne(t, `{"user": {"name": "ada"}, "tags": ["x", "y"]}`)
	if got := v.String(); got != "{user: {name: ada}, tags: [x, y]}" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeEmptyContainers(t *testing.T) {
	if v := decodeOne(t, `{}`); v.Kind() != value.KindRecord || v.(*value.Record).Len() != 0 {
		t.Errorf("expected empty record, got %s", v)
	}
	if v := decodeOne(t, `[]`); v.Kind() != value.KindTable || v.(*value.Table).Len() != 0 {
		t.Errorf("expected empty table, got %s", v)
	}
}

func TestDecodeMultipleValues(t *testing.T) {
	values := decodeAll(t, "{\"a\": 1}\n{\"a\": 2}\n")
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
	if values[1].String() != "{a: 2}" {
		t.Errorf("got %q", values[1].String())
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if values := decodeAll(t, "  \n "); len(values) != 0 {
		t.Fatalf("expected no values, got %d", len(values))
	}
}

func TestDecodeTags(t *testing.T) {
	v := decodeOne(t, `[1, "x"]`)
	if v.Tag() != value.NewTag(value.NewSpan(0, 8), "test") {
		t.Errorf("table tag: got %v", v.Tag())
	}
	table := v.(*value.Table)
	first, _ := table.At(0)
	if first.Tag().Span != value.NewSpan(1, 2) {
		t.Errorf("first item span: got %v", first.Tag().Span)
	}
	second, _ := table.At(1)
	if second.Tag().Span != value.NewSpan(4, 7) {
		t.Errorf("second item span: got %v", second.Tag().Span)
	}
}

func TestDecodeSyntaxErrors(t *testing.T) {
	tests := []string{
		`{`,
		`{"a"}`,
		`{"a": }`,
		`[1,`,
		`[1 2]`,
		`tru`,
		`"unterminated`,
		`"bad escape \q"`,
		`{"a": 1,}`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := tryDecodeAll(input); err == nil {
				t.Errorf("expected an error for %q", input)
			}
		})
	}
}
