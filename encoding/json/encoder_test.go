package json

import (
	"strings"
	"testing"

	"github.com/stormasm/nucommand/internal/format"
	"github.com/stormasm/nucommand/value"
)

func encodeAll(t *testing.T, indentSize int, values ...value.Value) string {
	t.Helper()
	var sb strings.Builder
	encoder := &Encoder{
		Printer: &format.DefaultPrinter{Writer: &sb, IndentSize: indentSize},
	}
	in := make(chan value.Value)
	go func() {
		defer close(in)
		for _, v := range values {
			in <- v
		}
	}()
	if err := encoder.Consume(in); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return sb.String()
}

func TestEncodeCompact(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, `"hello"`},
		{`42`, `42`},
		{`3.14`, `3.14`},
		{`true`, `true`},
		{`null`, `null`},
		{`{}`, `{}`},
		{`[]`, `[]`},
		{`{"a": 1,"b": [1,2]}`, `{"a": 1,"b": [1,2]}`},
		{`"with \"quotes\""`, `"with \"quotes\""`},
		{`"line\nbreak"`, `"line\nbreak"`},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got := encodeAll(t, -1, decodeOne(t, test.input))
			if got != test.want+"\n" {
				t.Errorf("expected %q, got %q", test.want+"\n", got)
			}
		})
	}
}

func TestEncodeIndented(t *testing.T) {
	got := encodeAll(t, 2, decodeOne(t, `{"a": 1, "b": [1, 2]}`))
	want := `{
  "a": 1,
  "b": [
    1,
    2
  ]
}
`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEncodeMultipleValues(t *testing.T) {
	got := encodeAll(t, -1, decodeAll(t, `{"a": 1} {"a": 2}`)...)
	want := "{\"a\": 1}\n{\"a\": 2}\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEncodeControlCharacters(t *testing.T) {
	got := encodeAll(t, -1, value.NewString("a\x01b", value.Tag{}))
	want := "\"a\\u0001b\"\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
