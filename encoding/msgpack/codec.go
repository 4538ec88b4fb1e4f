// Package msgpack encodes value streams in MessagePack, a compact binary
// form suited to piping structured data between processes.  Records encode
// as maps in field order, tables as arrays, nothing as nil.  Decimals
// travel as float64, so very high precision decimals lose digits; the JSON
// codec is the lossless one.
package msgpack

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// An Encoder writes a stream of values as a concatenation of MessagePack
// values.
type Encoder struct {
	enc *msgpack.Encoder
}

var _ stream.Sink = &Encoder{}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: msgpack.NewEncoder(w)}
}

// Consume writes each incoming value in MessagePack encoding.
func (e *Encoder) Consume(in <-chan value.Value) error {
	for v := range in {
		if err := e.encodeValue(v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeValue(v value.Value) error {
	switch v := v.(type) {
	case *value.Record:
		if err := e.enc.EncodeMapLen(v.Len()); err != nil {
			return err
		}
		var fieldErr error
		v.Each(func(name string, field value.Value) bool {
			if fieldErr = e.enc.EncodeString(name); fieldErr != nil {
				return false
			}
			fieldErr = e.encodeValue(field)
			return fieldErr == nil
		})
		return fieldErr
	case *value.Table:
		if err := e.enc.EncodeArrayLen(v.Len()); err != nil {
			return err
		}
		for _, item := range v.Items() {
			if err := e.encodeValue(item); err != nil {
				return err
			}
		}
		return nil
	case *value.Primitive:
		switch v.Kind() {
		case value.KindNothing:
			return e.enc.EncodeNil()
		case value.KindBool:
			return e.enc.EncodeBool(v.Bool())
		case value.KindInt:
			return e.enc.EncodeInt(v.Int())
		case value.KindDecimal:
			f, _ := v.Decimal().Float64()
			return e.enc.EncodeFloat64(f)
		case value.KindString:
			return e.enc.EncodeString(v.Str())
		}
	}
	return fmt.Errorf("cannot encode value of kind %s", v.Kind())
}

// A Decoder reads a concatenation of MessagePack values and streams them as
// tagged values.  MessagePack carries no source spans, so tags only name
// the input anchor.
type Decoder struct {
	dec    *msgpack.Decoder
	anchor string
}

var _ stream.Source = &Decoder{}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: msgpack.NewDecoder(r)}
}

// SetAnchor names the input source in the tags of produced values.  Should
// be called before Produce.
func (d *Decoder) SetAnchor(anchor string) {
	d.anchor = anchor
}

// Produce reads values until the input is exhausted.
func (d *Decoder) Produce(out chan<- value.Value) error {
	for {
		if _, err := d.dec.PeekCode(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		v, err := d.decodeValue()
		if err != nil {
			return err
		}
		out <- v
	}
}

func (d *Decoder) tag() value.Tag {
	return value.NewTag(value.Span{}, d.anchor)
}

func (d *Decoder) decodeValue() (value.Value, error) {
	c, err := d.dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case c == msgpcode.Nil:
		if err := d.dec.DecodeNil(); err != nil {
			return nil, err
		}
		return value.Nothing(d.tag()), nil
	case c == msgpcode.True || c == msgpcode.False:
		b, err := d.dec.DecodeBool()
		if err != nil {
			return nil, err
		}
		return value.NewBool(b, d.tag()), nil
	case msgpcode.IsFixedNum(c),
		c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32, c == msgpcode.Uint64,
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		i, err := d.dec.DecodeInt64()
		if err != nil {
			return nil, err
		}
		return value.NewInt(i, d.tag()), nil
	case c == msgpcode.Float, c == msgpcode.Double:
		f, err := d.dec.DecodeFloat64()
		if err != nil {
			return nil, err
		}
		return value.NewDecimal(decimal.NewFromFloat(f), d.tag()), nil
	case msgpcode.IsFixedString(c), c == msgpcode.Str8, c == msgpcode.Str16, c == msgpcode.Str32:
		s, err := d.dec.DecodeString()
		if err != nil {
			return nil, err
		}
		return value.NewString(s, d.tag()), nil
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := d.dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		rec := value.NewRecord(d.tag())
		for i := 0; i < n; i++ {
			name, err := d.dec.DecodeString()
			if err != nil {
				return nil, err
			}
			field, err := d.decodeValue()
			if err != nil {
				return nil, err
			}
			rec.Set(name, field)
		}
		return rec, nil
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		n, err := d.dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		items := make([]value.Value, 0, n)
		for i := 0; i < n; i++ {
			item, err := d.decodeValue()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return value.NewTable(items, d.tag()), nil
	default:
		return nil, fmt.Errorf("unsupported msgpack code 0x%02x", c)
	}
}
