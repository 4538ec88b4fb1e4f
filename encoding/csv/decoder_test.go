package csv

import (
	"strings"
	"testing"

	"github.com/stormasm/nucommand/value"
)

func decodeAll(t *testing.T, setup func(*Decoder), input string) []value.Value {
	t.Helper()
	decoder := NewDecoder(strings.NewReader(input))
	if setup != nil {
		setup(decoder)
	}
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
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return values
}

func TestDecodeWithHeader(t *testing.T) {
	input := "name,size\na,1\nb,2\n"
	values := decodeAll(t, func(d *Decoder) {
		d.HasHeader = true
		d.RecordsProduceObjects = true
	}, input)
	if len(values) != 2 {
		t.Fatalf("expected 2 records, got %d", len(values))
	}
	if got := values[0].String(); got != "{name: a, size: 1}" {
		t.Errorf("got %q", got)
	}
	if got := values[1].String(); got != "{name: b, size: 2}" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeWithFieldNames(t *testing.T) {
	values := decodeAll(t, func(d *Decoder) {
		d.SetFieldNames([]string{"x", "y"})
		d.RecordsProduceObjects = true
	}, "1,2\n")
	if len(values) != 1 || values[0].String() != "{x: 1, y: 2}" {
		t.Fatalf("got %v", values)
	}
}

func TestDecodeWithoutHeader(t *testing.T) {
	values := decodeAll(t, nil, "a,1\nb,2\n")
	if len(values) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(values))
	}
	if values[0].Kind() != value.KindTable {
		t.Fatalf("expected a table, got %s", values[0].Kind())
	}
	if got := values[0].String(); got != "[a, 1]" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeSynthesizedFieldNames(t *testing.T) {
	values := decodeAll(t, func(d *Decoder) {
		d.SetFieldNames([]string{"a"})
		d.RecordsProduceObjects = true
	}, "1,2,3\n")
	if got := values[0].String(); got != "{a: 1, field_2: 2, field_3: 3}" {
		t.Errorf("got %q", got)
	}
}

func TestFieldSniffing(t *testing.T) {
	tests := []struct {
		field string
		kind  value.Kind
	}{
		{"", value.KindNothing},
		{"true", value.KindBool},
		{"false", value.KindBool},
		{"42", value.KindInt},
		{"-1", value.KindInt},
		{"2.5", value.KindDecimal},
		{"1e3", value.KindDecimal},
		{"hello", value.KindString},
		{"12abc", value.KindString},
	}
	for _, test := range tests {
		t.Run(test.field, func(t *testing.T) {
			v := fieldValue(test.field, value.Tag{})
			if v.Kind() != test.kind {
				t.Errorf("expected %s, got %s", test.kind, v.Kind())
			}
		})
	}
}

func TestUnevenRows(t *testing.T) {
	values := decodeAll(t, func(d *Decoder) {
		d.HasHeader = true
		d.RecordsProduceObjects = true
	}, "a,b\n1\n1,2,3\n")
	if len(values) != 2 {
		t.Fatalf("expected 2 records, got %d", len(values))
	}
	if got := values[0].String(); got != "{a: 1}" {
		t.Errorf("got %q", got)
	}
	if got := values[1].String(); got != "{a: 1, b: 2, field_3: 3}" {
		t.Errorf("got %q", got)
	}
}
