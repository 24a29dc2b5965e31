// Package frame holds the labeled tabular values a report consumes: a single
// indexed column (Series) and a multi-column table (Frame).
package frame

import "sort"

// missing marks an absent cell value.
type missing struct{}

func (missing) String() string { return "NaN" }

// Missing is the sentinel for an absent value. nil is treated the same way.
var Missing any = missing{}

// Series is a single column of values indexed by key, like a value count.
type Series struct {
	Name   string
	Index  []any
	Values []any
}

// NewSeries builds a series from parallel index and value slices.
func NewSeries(name string, index, values []any) Series {
	return Series{Name: name, Index: index, Values: values}
}

// SeriesFromMap builds a series from a map, ordering keys lexically so the
// result is deterministic.
func SeriesFromMap[V any](name string, m map[string]V) Series {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := Series{Name: name, Index: make([]any, 0, len(keys)), Values: make([]any, 0, len(keys))}
	for _, k := range keys {
		s.Index = append(s.Index, k)
		s.Values = append(s.Values, m[k])
	}
	return s
}

// Len returns the number of entries in the series.
func (s Series) Len() int { return len(s.Index) }

// Frame is a table with labeled columns. Rows are expected to match the
// column count; the normalizer rejects ragged input.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// NewFrame builds a frame from column labels and rows.
func NewFrame(columns []string, rows [][]any) Frame {
	return Frame{Columns: columns, Rows: rows}
}

// FromStrings builds a frame from string records, the shape CSV and
// spreadsheet readers produce.
func FromStrings(columns []string, records [][]string) Frame {
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		rows[i] = row
	}
	return Frame{Columns: columns, Rows: rows}
}

// Len returns the number of data rows.
func (f Frame) Len() int { return len(f.Rows) }

// Select returns a frame restricted to the named columns in the given order.
// Unknown column names are reported as false.
func (f Frame) Select(columns ...string) (Frame, bool) {
	idx := make([]int, len(columns))
	for i, name := range columns {
		found := -1
		for j, col := range f.Columns {
			if col == name {
				found = j
				break
			}
		}
		if found < 0 {
			return Frame{}, false
		}
		idx[i] = found
	}
	out := Frame{Columns: append([]string(nil), columns...), Rows: make([][]any, len(f.Rows))}
	for r, row := range f.Rows {
		sel := make([]any, len(idx))
		for i, j := range idx {
			if j < len(row) {
				sel[i] = row[j]
			} else {
				sel[i] = Missing
			}
		}
		out.Rows[r] = sel
	}
	return out, true
}
