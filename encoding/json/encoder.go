package json

import (
	"unicode/utf8"

	"github.com/stormasm/nucommand/internal/format"
	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// An Encoder formats a stream of values as JSON, one top-level value per
// line (or indented block).  It can colorize its output with a Colorizer.
type Encoder struct {
	Printer   format.Printer
	Colorizer *format.Colorizer
}

var _ stream.Sink = &Encoder{}

// Consume writes each incoming value as a JSON value.  It returns an error
// if writing the output fails.
func (e *Encoder) Consume(in <-chan value.Value) (err error) {
	defer format.CatchPrinterError(&err)
	for v := range in {
		e.encodeValue(v)
		e.Printer.PrintBytes([]byte{'\n'})
		if f, ok := e.Printer.(interface{ Flush() }); ok {
			f.Flush()
		}
	}
	return nil
}

func (e *Encoder) encodeValue(v value.Value) {
	p := e.Printer
	switch v := v.(type) {
	case *value.Record:
		if v.Len() == 0 {
			p.PrintBytes([]byte("{}"))
			return
		}
		p.PrintBytes([]byte{'{'})
		p.Indent()
		first := true
		v.Each(func(name string, field value.Value) bool {
			if !first {
				p.PrintBytes([]byte{','})
				p.NewLine()
			}
			first = false
			e.Colorizer.PrintKey(p, quoteString(name))
			p.PrintBytes([]byte(": "))
			e.encodeValue(field)
			return true
		})
		p.Dedent()
		p.PrintBytes([]byte{'}'})
	case *value.Table:
		if v.Len() == 0 {
			p.PrintBytes([]byte("[]"))
			return
		}
		p.PrintBytes([]byte{'['})
		p.Indent()
		for i, item := range v.Items() {
			if i > 0 {
				p.PrintBytes([]byte{','})
				p.NewLine()
			}
			e.encodeValue(item)
		}
		p.Dedent()
		p.PrintBytes([]byte{']'})
	case *value.Primitive:
		e.Colorizer.PrintScalar(p, v.Kind(), scalarBytes(v))
	}
}

func scalarBytes(p *value.Primitive) []byte {
	switch p.Kind() {
	case value.KindNothing:
		return nullBytes
	case value.KindString:
		return quoteString(p.Str())
	default:
		return []byte(p.String())
	}
}

// quoteString renders s as a JSON string literal.
func quoteString(s string) []byte {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			if r < 0x20 {
				buf = append(buf, []byte{'\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xF]}...)
			} else {
				buf = utf8.AppendRune(buf, r)
			}
		}
	}
	return append(buf, '"')
}

var hexDigits = [...]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}
