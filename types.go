package csvchain

import "fmt"

// Cell is one raw field of a row. A Cell with Valid set to false carries
// no value, which is distinct from a valid empty string.
type Cell struct {
	Value string
	Valid bool
}

// Value creates a Cell holding s
func Value(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// NoValue creates a Cell without a value
func NoValue() Cell {
	return Cell{}
}

// Any returns the cell as a processor input: nil for no value, otherwise the string
func (c Cell) Any() any {
	if !c.Valid {
		return nil
	}
	return c.Value
}

// String returns the value, or the empty string when there is none
func (c Cell) String() string {
	return c.Value
}

// Record represents one row as an ordered sequence of cells.
type Record []Cell

// NewRecord creates a Record in which every cell holds a value.
func NewRecord(values ...string) Record {
	r := make(Record, len(values))
	for i, v := range values {
		r[i] = Value(v)
	}
	return r
}

// Strings returns the cell values; cells without a value become empty strings.
func (r Record) Strings() []string {
	s := make([]string, len(r))
	for i, c := range r {
		s[i] = c.Value
	}
	return s
}

// Values returns the record as processor inputs.
func (r Record) Values() []any {
	v := make([]any, len(r))
	for i, c := range r {
		v[i] = c.Any()
	}
	return v
}

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// cellOf converts a processed value into a cell for writing
func cellOf(v any) Cell {
	switch t := v.(type) {
	case nil:
		return NoValue()
	case Cell:
		return t
	case string:
		return Value(t)
	case []byte:
		return Value(string(t))
	case fmt.Stringer:
		return Value(t.String())
	default:
		return Value(fmt.Sprint(t))
	}
}
