// Package csv decodes CSV input into a stream of values.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// A Decoder reads CSV input and streams each row as a value.  Rows become
// records when field names are available (from a header row or
// SetFieldNames), tables of scalars otherwise.  Field contents are sniffed:
// empty fields become nothing, "true"/"false" become booleans, numeric
// fields become ints or decimals, everything else is a string.
type Decoder struct {
	reader                *csv.Reader
	HasHeader             bool // When true, treat the first row as a header
	RecordsProduceObjects bool // When false, produce a table for each row, else a record
	anchor                string
	fieldNames            []string
}

var _ stream.Source = &Decoder{}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	reader := csv.NewReader(in)
	// Rows may have uneven lengths, missing cells just come out as absent
	// fields.
	reader.FieldsPerRecord = -1
	return &Decoder{reader: reader}
}

// SetAnchor names the input source in the tags of produced values.  Should
// be called before Produce.
func (d *Decoder) SetAnchor(anchor string) {
	d.anchor = anchor
}

// SetFieldNames sets the field names for rows.  Should be called before
// Produce.
func (d *Decoder) SetFieldNames(names []string) {
	d.fieldNames = names
}

// Produce reads a stream of CSV rows, until it runs out of input or
// encounters invalid CSV, in which case it returns an error.
func (d *Decoder) Produce(out chan<- value.Value) error {
	rowCount := 0
	for {
		start := d.reader.InputOffset()
		row, err := d.reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if rowCount > 0 || !d.HasHeader {
			out <- d.rowValue(row, start, d.reader.InputOffset())
		} else {
			// Field names come from the first row
			d.SetFieldNames(row)
		}
		rowCount++
	}
}

func (d *Decoder) rowValue(row []string, start, end int64) value.Value {
	tag := value.NewTag(value.NewSpan(int(start), int(end)), d.anchor)
	if d.RecordsProduceObjects {
		builder := value.NewRecordBuilder(tag)
		for i, field := range row {
			builder.Insert(d.fieldName(i), fieldValue(field, tag))
		}
		return builder.Value()
	}
	items := make([]value.Value, len(row))
	for i, field := range row {
		items[i] = fieldValue(field, tag)
	}
	return value.NewTable(items, tag)
}

func (d *Decoder) fieldName(i int) string {
	if i >= len(d.fieldNames) {
		for j := len(d.fieldNames); j <= i; j++ {
			d.fieldNames = append(d.fieldNames, fmt.Sprintf("field_%d", j+1))
		}
	}
	return d.fieldNames[i]
}

func fieldValue(field string, tag value.Tag) value.Value {
	switch field {
	case "":
		return value.Nothing(tag)
	case "true":
		return value.NewBool(true, tag)
	case "false":
		return value.NewBool(false, tag)
	}
	if i, err := strconv.ParseInt(field, 10, 64); err == nil {
		return value.NewInt(i, tag)
	}
	if d, err := decimal.NewFromString(field); err == nil {
		return value.NewDecimal(d, tag)
	}
	return value.NewString(field, tag)
}
