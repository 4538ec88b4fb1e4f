package transform

import (
	"log"

	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// Flatten turns each table in the stream into a stream of its rows.  It
// passes other values through unchanged.
//
// E.g.
//
//	[1, 2, 3]    -> 1 2 3
//	{x: 2, y: 5} -> {x: 2, y: 5}
type Flatten struct{}

var _ stream.Transformer = Flatten{}

// Transform implements the Flatten operator.
func (Flatten) Transform(in <-chan value.Value, out chan<- value.Value) error {
	for v := range in {
		if table, ok := v.(*value.Table); ok {
			for _, item := range table.Items() {
				out <- item
			}
		} else {
			out <- v
		}
	}
	return nil
}

// Collect is the reverse of Flatten.  It gathers the whole input stream
// into a single table.
//
// E.g.
//
//	1 2 3          -> [1, 2, 3]
//	[1, 2, 3]      -> [[1, 2, 3]]
//	<empty stream> -> []
type Collect struct {
	Tag value.Tag
}

var _ stream.Transformer = Collect{}

// Transform implements the Collect operator.
func (c Collect) Transform(in <-chan value.Value, out chan<- value.Value) error {
	var items []value.Value
	for v := range in {
		items = append(items, v)
	}
	out <- value.NewTable(items, c.Tag)
	return nil
}

// Trace logs every value in the stream and doesn't send any values on.
// It's useful for debugging pipelines.
type Trace struct{}

var _ stream.Transformer = Trace{}

// Transform implements the Trace operator.
func (Trace) Transform(in <-chan value.Value, out chan<- value.Value) error {
	for v := range in {
		log.Printf("%s", v)
	}
	return nil
}
