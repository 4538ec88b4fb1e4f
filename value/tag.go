package value

import "fmt"

// A Span is a byte range into an input source.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

func (s Span) IsZero() bool {
	return s == Span{}
}

// A Tag records the provenance of a value: the byte span it covers and the
// name of the input it came from (e.g. "stdin" or a file name).  Tags travel
// with values through a pipeline but are never interpreted by operators.
type Tag struct {
	Span   Span
	Anchor string
}

func NewTag(span Span, anchor string) Tag {
	return Tag{Span: span, Anchor: anchor}
}

func (t Tag) String() string {
	if t.Anchor == "" {
		if t.Span.IsZero() {
			return "unknown"
		}
		return fmt.Sprintf("[%d:%d]", t.Span.Start, t.Span.End)
	}
	if t.Span.IsZero() {
		return t.Anchor
	}
	return fmt.Sprintf("%s[%d:%d]", t.Anchor, t.Span.Start, t.Span.End)
}
