// Package json decodes JSON input into tagged value trees and encodes value
// streams back to JSON.
package json

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/stormasm/nucommand/internal/scanner"
	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// A Decoder reads JSON input and streams it as a sequence of tagged values,
// one per top-level JSON value.  Object key order is preserved; object
// values become records, arrays become tables, integral numbers become
// ints and other numbers become decimals.  Every value is tagged with the
// byte span it was parsed from and the decoder's anchor.
type Decoder struct {
	scanr  *scanner.Scanner
	anchor string
}

var _ stream.Source = &Decoder{}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(in)}
}

// SetAnchor names the input source (e.g. "stdin") in the tags of produced
// values.  Should be called before Produce.
func (d *Decoder) SetAnchor(anchor string) {
	d.anchor = anchor
}

// Produce reads a stream of JSON values and sends them on out, until it
// runs out of input or encounters invalid JSON, in which case it returns an
// error.
func (d *Decoder) Produce(out chan<- value.Value) error {
	for {
		b, err := d.scanr.SkipSpaceAndPeek()
		if err != nil || b == scanner.EOF {
			return err
		}
		v, err := d.ParseValue()
		if err != nil {
			return err
		}
		out <- v
	}
}

// ParseValue reads a single JSON value and returns its value tree.  It can
// return a non-nil error if the input is invalid JSON.
func (d *Decoder) ParseValue() (value.Value, error) {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return nil, err
	}
	if b == scanner.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	start := d.scanr.Offset()
	switch b {
	case '"':
		s, err := parseString(d.scanr)
		if err != nil {
			return nil, err
		}
		return value.NewString(s, d.tagFrom(start)), nil
	case '[':
		return d.parseArray()
	case '{':
		return d.parseObject()
	case 't':
		if err := checkBytes(d.scanr, trueBytes); err != nil {
			return nil, err
		}
		return value.NewBool(true, d.tagFrom(start)), nil
	case 'f':
		if err := checkBytes(d.scanr, falseBytes); err != nil {
			return nil, err
		}
		return value.NewBool(false, d.tagFrom(start)), nil
	case 'n':
		if err := checkBytes(d.scanr, nullBytes); err != nil {
			return nil, err
		}
		return value.Nothing(d.tagFrom(start)), nil
	default:
		if b == '-' || b >= '0' && b <= '9' {
			raw, err := parseNumber(d.scanr)
			if err != nil {
				return nil, err
			}
			return numberValue(raw, d.tagFrom(start))
		}
		return nil, unexpectedByte(d.scanr, "unexpected")
	}
}

func (d *Decoder) tagFrom(start int) value.Tag {
	return value.NewTag(value.NewSpan(start, d.scanr.Offset()), d.anchor)
}

func (d *Decoder) parseArray() (value.Value, error) {
	start := d.scanr.Offset()
	if err := expectByte(d.scanr, '['); err != nil {
		return nil, err
	}
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return nil, err
	}
	var items []value.Value
	if b == ']' {
		d.scanr.Read()
		return value.NewTable(items, d.tagFrom(start)), nil
	}
	for {
		item, err := d.ParseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return nil, err
		}
		switch b {
		case ']':
			d.scanr.Read()
			return value.NewTable(items, d.tagFrom(start)), nil
		case ',':
			d.scanr.Read()
		default:
			return nil, unexpectedByte(d.scanr, "expected ']' or ',', got")
		}
	}
}

func (d *Decoder) parseObject() (value.Value, error) {
	start := d.scanr.Offset()
	if err := expectByte(d.scanr, '{'); err != nil {
		return nil, err
	}
	rec := value.NewRecord(value.Tag{})
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return nil, err
	}
	if b == '}' {
		d.scanr.Read()
		return rec.WithTag(d.tagFrom(start)), nil
	}
	for {
		if _, err := d.scanr.SkipSpaceAndPeek(); err != nil {
			return nil, err
		}
		key, err := parseString(d.scanr)
		if err != nil {
			return nil, err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return nil, err
		}
		if b != ':' {
			return nil, unexpectedByte(d.scanr, "expected ':', got")
		}
		d.scanr.Read()
		fieldValue, err := d.ParseValue()
		if err != nil {
			return nil, err
		}
		rec.Set(key, fieldValue)
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return nil, err
		}
		switch b {
		case '}':
			d.scanr.Read()
			return rec.WithTag(d.tagFrom(start)), nil
		case ',':
			d.scanr.Read()
		default:
			return nil, unexpectedByte(d.scanr, "expected '}' or ',' got")
		}
	}
}

// numberValue classifies a raw JSON number: integral numbers that fit an
// int64 become ints, everything else becomes a decimal.
func numberValue(raw []byte, tag value.Tag) (value.Value, error) {
	s := string(raw)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.NewInt(i, tag), nil
		}
	}
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return value.NewDecimal(dec, tag), nil
}

func expectByte(scanr *scanner.Scanner, xb byte) error {
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b != xb {
		scanr.Back()
		return unexpectedByte(scanr, "expected %q, got", xb)
	}
	return nil
}

func unexpectedByte(scanr *scanner.Scanner, expected string, args ...interface{}) error {
	pos := scanr.CurrentPos()
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b == scanner.EOF {
		return fmt.Errorf("syntax error at L%d,C%d: %s: <EOF>", pos.Line+1, pos.Col+1, fmt.Sprintf(expected, args...))
	}
	return fmt.Errorf("syntax error at L%d,C%d: %s: %q", pos.Line+1, pos.Col+1, fmt.Sprintf(expected, args...), b)
}

func checkBytes(scanr *scanner.Scanner, expected []byte) error {
	for _, xb := range expected {
		b, err := scanr.Read()
		if err != nil {
			return err
		}
		if b != xb {
			scanr.Back()
			return unexpectedByte(scanr, "expected %q, got", xb)
		}
	}
	return nil
}

// parseString parses a JSON string literal and returns its decoded contents.
func parseString(scanr *scanner.Scanner) (string, error) {
	scanr.StartToken()
	if err := expectByte(scanr, '"'); err != nil {
		scanr.EndToken()
		return "", err
	}
	isUnescaped := true
	for {
		b, err := scanr.Read()
		if err != nil {
			scanr.EndToken()
			return "", err
		}
		switch b {
		case '\\':
			isUnescaped = false
			x, err := scanr.Read()
			if err != nil {
				scanr.EndToken()
				return "", err
			}
			switch x {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				continue
			case 'u':
				for i := 0; i < 4; i++ {
					b, err = scanr.Read()
					if err != nil {
						scanr.EndToken()
						return "", err
					}
					if !isHexDigit(b) {
						scanr.Back()
						defer scanr.EndToken()
						return "", unexpectedByte(scanr, "expected hex, got")
					}
				}
			default:
				scanr.Back()
				defer scanr.EndToken()
				return "", unexpectedByte(scanr, "invalid escape character")
			}
		case '"':
			raw := scanr.EndToken()
			contents := raw[1 : len(raw)-1]
			if isUnescaped {
				return string(contents), nil
			}
			return unescape(contents)
		default:
			if scanner.IsCtrl(b) {
				scanr.Back()
				defer scanr.EndToken()
				return "", unexpectedByte(scanr, "invalid control character in string")
			}
		}
	}
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// unescape decodes the backslash escapes of a JSON string body, surrogate
// pairs included.  The input has already been validated by parseString.
func unescape(contents []byte) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(contents); {
		b := contents[i]
		if b != '\\' {
			sb.WriteByte(b)
			i++
			continue
		}
		i++
		switch contents[i] {
		case '"', '\\', '/':
			sb.WriteByte(contents[i])
			i++
		case 'b':
			sb.WriteByte('\b')
			i++
		case 'f':
			sb.WriteByte('\f')
			i++
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case 'u':
			r, err := hexRune(contents[i+1 : i+5])
			if err != nil {
				return "", err
			}
			i += 5
			if utf16.IsSurrogate(r) && i+5 < len(contents) && contents[i] == '\\' && contents[i+1] == 'u' {
				r2, err := hexRune(contents[i+2 : i+6])
				if err != nil {
					return "", err
				}
				if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
					r = combined
					i += 6
				}
			}
			sb.WriteRune(r)
		}
	}
	return sb.String(), nil
}

func hexRune(digits []byte) (rune, error) {
	n, err := strconv.ParseUint(string(digits), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape %q", digits)
	}
	return rune(n), nil
}

// parseNumber parses a JSON number and returns its raw bytes.
func parseNumber(scanr *scanner.Scanner) ([]byte, error) {
	scanr.StartToken()
	var n int
	b, err := scanr.Read()

	// Sign part
	if b == '-' {
		b, err = scanr.Read()
	}
	if err != nil {
		scanr.EndToken()
		return nil, err
	}

	// Integer part
	if b == '0' {
		b, err = scanr.Read()
		if err != nil {
			scanr.EndToken()
			return nil, err
		}
	} else if b >= '1' && b <= '9' {
		b, _, err = readDigits(scanr)
		if err != nil {
			scanr.EndToken()
			return nil, err
		}
	} else {
		scanr.Back()
		defer scanr.EndToken()
		return nil, unexpectedByte(scanr, "expected digit, got")
	}

	// Fraction part
	if b == '.' {
		b, n, err = readDigits(scanr)
		if err != nil {
			scanr.EndToken()
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			defer scanr.EndToken()
			return nil, unexpectedByte(scanr, "expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = scanr.Peek()
		if err != nil {
			scanr.EndToken()
			return nil, err
		}
		if b == '-' || b == '+' {
			scanr.Read()
		}
		b, n, err = readDigits(scanr)
		if err != nil {
			scanr.EndToken()
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			defer scanr.EndToken()
			return nil, unexpectedByte(scanr, "expected digit, got")
		}
	}

	if b != scanner.EOF {
		scanr.Back()
	}
	raw := scanr.EndToken()
	if b == scanner.EOF {
		return raw, nil
	}
	return raw, nil
}

// readDigits reads consecutive digits, returning the first non-digit byte
// and the number of digits read.
func readDigits(scanr *scanner.Scanner) (byte, int, error) {
	n := 0
	for {
		b, err := scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)
