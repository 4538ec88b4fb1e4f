package stream

import "github.com/stormasm/nucommand/value"

// SliceSource produces each value of the slice in order.  Handy in tests.
type SliceSource []value.Value

var _ Source = SliceSource{}

func (s SliceSource) Produce(out chan<- value.Value) error {
	for _, v := range s {
		out <- v
	}
	return nil
}

// CollectSink accumulates every consumed value.  Handy in tests.
type CollectSink struct {
	Values []value.Value
}

var _ Sink = &CollectSink{}

func (s *CollectSink) Consume(in <-chan value.Value) error {
	for v := range in {
		s.Values = append(s.Values, v)
	}
	return nil
}
