package store

import (
	"fmt"
	"strconv"
)

// Frame is a column-ordered in-memory table, the unit the statistical
// jobs consume. Cell values are whatever the driver produced; missing
// values are nil.
type Frame struct {
	cols []string
	rows [][]any
}

// NewFrame builds a frame from explicit columns and rows. Rows must
// match the column arity.
func NewFrame(cols []string, rows [][]any) (*Frame, error) {
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(cols))
		}
	}
	return &Frame{cols: cols, rows: rows}, nil
}

func (f *Frame) Columns() []string { return f.cols }

func (f *Frame) Len() int { return len(f.rows) }

func (f *Frame) Row(i int) []any { return f.rows[i] }

func (f *Frame) colIndex(col string) (int, error) {
	for i, c := range f.cols {
		if c == col {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column %q", col)
}

// Value returns the cell at (row, col).
func (f *Frame) Value(i int, col string) (any, error) {
	j, err := f.colIndex(col)
	if err != nil {
		return nil, err
	}
	return f.rows[i][j], nil
}

// Float extracts a column as float64s. Nil cells are skipped, so the
// result may be shorter than Len; call DropNull first when row
// alignment matters.
func (f *Frame) Float(col string) ([]float64, error) {
	j, err := f.colIndex(col)
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, row := range f.rows {
		if row[j] == nil {
			continue
		}
		v, err := asFloat(row[j])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DropNull returns a frame without the rows that have a nil cell in
// any of the given columns, or in any column at all when none are
// named.
func (f *Frame) DropNull(cols ...string) (*Frame, error) {
	idxs := make([]int, 0, len(f.cols))
	if len(cols) == 0 {
		for i := range f.cols {
			idxs = append(idxs, i)
		}
	} else {
		for _, col := range cols {
			j, err := f.colIndex(col)
			if err != nil {
				return nil, err
			}
			idxs = append(idxs, j)
		}
	}

	out := &Frame{cols: f.cols}
	for _, row := range f.rows {
		keep := true
		for _, j := range idxs {
			if row[j] == nil {
				keep = false
				break
			}
		}
		if keep {
			out.rows = append(out.rows, row)
		}
	}
	return out, nil
}

// Group is one partition of a GroupBy.
type Group struct {
	Key   any
	Frame *Frame
}

// GroupBy partitions the frame by a column's values, preserving
// first-seen key order.
func (f *Frame) GroupBy(col string) ([]Group, error) {
	j, err := f.colIndex(col)
	if err != nil {
		return nil, err
	}

	index := map[any]int{}
	var groups []Group
	for _, row := range f.rows {
		key := row[j]
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Frame: &Frame{cols: f.cols}})
		}
		groups[i].Frame.rows = append(groups[i].Frame.rows, row)
	}
	return groups, nil
}

func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
