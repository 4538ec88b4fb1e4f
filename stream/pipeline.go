// Package stream provides the plumbing that connects value sources,
// transformers and sinks into a pipeline.  Each stage runs in its own
// goroutine and stages communicate over unbuffered channels, so a stage is
// suspended whenever it awaits its next input or whenever its consumer has
// not yet pulled its last output.
package stream

import "github.com/stormasm/nucommand/value"

// A Source produces a stream of values.  Produce must send every value on
// out and return nil on normal exhaustion, or return an error if the input
// cannot be read further.
type Source interface {
	Produce(out chan<- value.Value) error
}

// A Sink consumes a stream of values until the channel is closed.
type Sink interface {
	Consume(in <-chan value.Value) error
}

// A Transformer turns a stream of values into another stream of values.  It
// must consume in to exhaustion unless it returns an error.  Use
// TransformStream to apply it.
type Transformer interface {
	Transform(in <-chan value.Value, out chan<- value.Value) error
}

// StartStream uses the source to start producing values and returns the
// channel on which they appear.  This is always fast because the source runs
// in a goroutine.  A source error is reported through handleError, which may
// be nil.
func StartStream(source Source, handleError func(error)) <-chan value.Value {
	out := make(chan value.Value)
	go func() {
		defer close(out)
		if err := source.Produce(out); err != nil && handleError != nil {
			handleError(err)
		}
	}()
	return out
}

// TransformStream applies the transformer to the incoming stream, returning
// a new stream.  This is always fast because the transformer runs in a
// goroutine.  If the transformer fails its error is reported through
// handleError (which may be nil), the output stream is closed and the rest
// of the input is drained so upstream stages can finish.
func TransformStream(in <-chan value.Value, transformer Transformer, handleError func(error)) <-chan value.Value {
	out := make(chan value.Value)
	go func() {
		defer close(out)
		if err := transformer.Transform(in, out); err != nil {
			if handleError != nil {
				handleError(err)
			}
			for range in {
			}
		}
	}()
	return out
}

// ConsumeStream feeds the incoming stream to the sink.
func ConsumeStream(in <-chan value.Value, sink Sink) error {
	return sink.Consume(in)
}
