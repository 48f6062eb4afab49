package frame

import "strconv"

// Frame is a small ordered-column table used to pass tabular data between
// the provider, the data manager, and the store. Cells are untyped; a nil
// cell (or empty string) counts as null.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty frame with the given column order.
func New(columns ...string) *Frame {
	return &Frame{Columns: columns}
}

func (f *Frame) Len() int    { return len(f.Rows) }
func (f *Frame) Empty() bool { return f == nil || len(f.Rows) == 0 }

// Index returns the position of a column, or -1 if absent.
func (f *Frame) Index(col string) int {
	for i, c := range f.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

func (f *Frame) Has(col string) bool { return f.Index(col) >= 0 }

// Append adds a row, padding with nil if shorter than the column set.
func (f *Frame) Append(row ...any) {
	for len(row) < len(f.Columns) {
		row = append(row, nil)
	}
	f.Rows = append(f.Rows, row[:len(f.Columns)])
}

// Value returns the cell at (row, col), or nil if the column is absent.
func (f *Frame) Value(row int, col string) any {
	i := f.Index(col)
	if i < 0 {
		return nil
	}
	return f.Rows[row][i]
}

// Float coerces a cell to float64. Null cells and unparseable values
// coerce to 0.
func (f *Frame) Float(row int, col string) float64 {
	switch v := f.Value(row, col).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// String coerces a cell to its string form; null cells coerce to "".
func (f *Frame) String(row int, col string) string {
	switch v := f.Value(row, col).(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Rename relabels columns in place. Only mapped columns that are present
// get renamed; unknown keys are ignored.
func (f *Frame) Rename(mapping map[string]string) {
	for i, c := range f.Columns {
		if to, ok := mapping[c]; ok {
			f.Columns[i] = to
		}
	}
}

// SetColumn assigns the same value to a column for every row, adding the
// column if it does not exist yet.
func (f *Frame) SetColumn(col string, value any) {
	i := f.Index(col)
	if i < 0 {
		f.Columns = append(f.Columns, col)
		i = len(f.Columns) - 1
	}
	for r := range f.Rows {
		for len(f.Rows[r]) < len(f.Columns) {
			f.Rows[r] = append(f.Rows[r], nil)
		}
		f.Rows[r][i] = value
	}
}

// AddColumn appends a column whose cells are computed per row.
func (f *Frame) AddColumn(col string, fn func(row int) any) {
	f.Columns = append(f.Columns, col)
	for r := range f.Rows {
		f.Rows[r] = append(f.Rows[r], fn(r))
	}
}

// Select returns a new frame projected down to the listed columns, in the
// listed order, skipping any that are absent.
func (f *Frame) Select(cols ...string) *Frame {
	var keep []string
	var idx []int
	for _, c := range cols {
		if i := f.Index(c); i >= 0 {
			keep = append(keep, c)
			idx = append(idx, i)
		}
	}
	out := New(keep...)
	for _, row := range f.Rows {
		projected := make([]any, len(idx))
		for j, i := range idx {
			if i < len(row) {
				projected[j] = row[i]
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// DropNull returns a new frame without the rows whose cell in col is null.
// If the column is absent, every row is dropped: a row that cannot be
// keyed cannot be kept.
func (f *Frame) DropNull(col string) *Frame {
	out := New(append([]string(nil), f.Columns...)...)
	i := f.Index(col)
	if i < 0 {
		return out
	}
	for _, row := range f.Rows {
		if isNull(row[i]) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
