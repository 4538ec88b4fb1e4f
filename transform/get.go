package transform

import (
	"errors"

	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/value"
)

// ErrNoPath is returned by NewGet when no column path is given.
var ErrNoPath = errors.New("get requires a column path")

// Get extracts the value at a column path from each input value.  A table
// result is emitted row by row; a path that does not resolve is a fatal
// operator error.  Where Select projects columns leniently, Get is the
// precise accessor its diagnostics point at.
type Get struct {
	path value.ColumnPath
}

var _ stream.Transformer = &Get{}

func NewGet(path value.ColumnPath) (*Get, error) {
	if len(path) == 0 {
		return nil, ErrNoPath
	}
	return &Get{path: path}, nil
}

// Transform implements the Get operator.
func (g *Get) Transform(in <-chan value.Value, out chan<- value.Value) error {
	for v := range in {
		resolved, pathErr := value.Resolve(v, g.path)
		if pathErr != nil {
			return pathErr
		}
		if table, ok := resolved.(*value.Table); ok {
			for _, item := range table.Items() {
				out <- item
			}
		} else {
			out <- resolved
		}
	}
	return nil
}
