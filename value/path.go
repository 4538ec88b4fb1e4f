package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// A PathMember is one step of a column path: either a field name, used to
// index into a record, or an integer, used to index into a table.
type PathMember struct {
	name    string
	index   int
	isIndex bool
	span    Span
}

func NameMember(name string, span Span) PathMember {
	return PathMember{name: name, span: span}
}

func IndexMember(index int, span Span) PathMember {
	return PathMember{index: index, isIndex: true, span: span}
}

func (m PathMember) IsIndex() bool {
	return m.isIndex
}

func (m PathMember) Name() string {
	return m.name
}

func (m PathMember) Index() int {
	return m.index
}

func (m PathMember) Span() Span {
	return m.span
}

func (m PathMember) String() string {
	if m.isIndex {
		return strconv.Itoa(m.index)
	}
	return m.name
}

// A ColumnPath is a non-empty sequence of path members navigating into a
// nested record/table structure.
type ColumnPath []PathMember

// String renders the canonical dot-joined form of the path.  Two paths with
// the same rendering address the same column.
func (p ColumnPath) String() string {
	parts := make([]string, len(p))
	for i, m := range p {
		parts[i] = m.String()
	}
	return strings.Join(parts, ".")
}

// ParsePath parses the dotted column path syntax, e.g. "name", "a.b.0" or
// `"dotted.name".x`.  Unquoted members consisting only of digits (with an
// optional leading minus sign) are indexes; quoted members are always field
// names.  Member spans are byte ranges into s.
func ParsePath(s string) (ColumnPath, error) {
	if s == "" {
		return nil, errors.New("empty column path")
	}
	var path ColumnPath
	i := 0
	for {
		start := i
		var name string
		var quoted bool
		if i < len(s) && s[i] == '"' {
			j := strings.IndexByte(s[i+1:], '"')
			if j < 0 {
				return nil, fmt.Errorf("column path %q: unterminated quote", s)
			}
			name = s[i+1 : i+1+j]
			i += j + 2
			quoted = true
		} else {
			j := strings.IndexByte(s[i:], '.')
			if j < 0 {
				name = s[i:]
				i = len(s)
			} else {
				name = s[i : i+j]
				i += j
			}
			if name == "" {
				return nil, fmt.Errorf("column path %q: empty member at offset %d", s, start)
			}
		}
		span := NewSpan(start, i)
		if n, err := strconv.Atoi(name); err == nil && !quoted {
			path = append(path, IndexMember(n, span))
		} else {
			path = append(path, NameMember(name, span))
		}
		if i == len(s) {
			return path, nil
		}
		if s[i] != '.' {
			return nil, fmt.Errorf("column path %q: unexpected character %q at offset %d", s, s[i], i)
		}
		i++
		if i == len(s) {
			return nil, fmt.Errorf("column path %q: trailing dot", s)
		}
	}
}
