package value

import "fmt"

// A PathError reports the first path member that could not be followed while
// resolving a column path against a value.  Origin is the tag of the value
// the resolution started from, so the error can point back at the input.
type PathError struct {
	Member PathMember
	Origin Tag
}

func (e *PathError) Error() string {
	if e.Member.IsIndex() {
		return fmt.Sprintf("no row %d in table (input from %s)", e.Member.Index(), e.Origin)
	}
	return fmt.Sprintf("cannot select column %q: no data to fetch; "+
		"try exploring the value with \"get\" (input from %s)", e.Member.Name(), e.Origin)
}

// Resolve walks path member by member into v: a name member indexes into a
// record's fields, an index member into a table.  It fails at the first
// member that cannot be satisfied, whether because of a missing field, an
// out of range index, or a scalar encountered mid-path.  Resolve has no side
// effects and never mutates v.
func Resolve(v Value, path ColumnPath) (Value, *PathError) {
	origin := v.Tag()
	for _, member := range path {
		if member.IsIndex() {
			table, ok := v.(*Table)
			if !ok {
				return nil, &PathError{Member: member, Origin: origin}
			}
			item, ok := table.At(member.Index())
			if !ok {
				return nil, &PathError{Member: member, Origin: origin}
			}
			v = item
		} else {
			record, ok := v.(*Record)
			if !ok {
				return nil, &PathError{Member: member, Origin: origin}
			}
			field, ok := record.Get(member.Name())
			if !ok {
				return nil, &PathError{Member: member, Origin: origin}
			}
			v = field
		}
	}
	return v, nil
}
