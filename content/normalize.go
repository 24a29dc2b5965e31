package content

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ByLCY/statprint/frame"
)

const (
	// MissingValue replaces nil and NaN cells.
	MissingValue = "NaN"
	// DefaultSeriesLabel heads the index column of an unnamed series.
	DefaultSeriesLabel = "Value"
	// CountLabel heads the value column of a series.
	CountLabel = "Count"
)

// Grid is the rectangular header/rows structure both backends render.
type Grid struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Columns returns the column count.
func (g Grid) Columns() int { return len(g.Headers) }

// Normalize converts a frame.Series or frame.Frame (value or pointer) into a
// Grid. headers, when non-nil, replaces the derived column labels and must
// match the column count.
func Normalize(data any, headers []string) (Grid, error) {
	switch d := data.(type) {
	case frame.Series:
		return normalizeSeries(d, headers)
	case *frame.Series:
		if d == nil {
			return Grid{}, NewError(KindSchema, "nil series", nil)
		}
		return normalizeSeries(*d, headers)
	case frame.Frame:
		return normalizeFrame(d, headers)
	case *frame.Frame:
		if d == nil {
			return Grid{}, NewError(KindSchema, "nil frame", nil)
		}
		return normalizeFrame(*d, headers)
	default:
		return Grid{}, NewError(KindSchema, fmt.Sprintf("unsupported tabular input %T", data), nil)
	}
}

func normalizeSeries(s frame.Series, headers []string) (Grid, error) {
	if len(s.Index) != len(s.Values) {
		return Grid{}, NewError(KindSchema, fmt.Sprintf("series has %d index labels for %d values", len(s.Index), len(s.Values)), nil)
	}
	if headers == nil {
		name := s.Name
		if name == "" {
			name = DefaultSeriesLabel
		}
		headers = []string{name, CountLabel}
	} else if len(headers) != 2 {
		return Grid{}, NewError(KindSchema, fmt.Sprintf("series needs 2 headers, got %d", len(headers)), nil)
	}

	grid := Grid{Headers: append([]string(nil), headers...), Rows: make([][]string, len(s.Index))}
	for i := range s.Index {
		grid.Rows[i] = []string{Stringify(s.Index[i]), Stringify(s.Values[i])}
	}
	return grid, nil
}

func normalizeFrame(f frame.Frame, headers []string) (Grid, error) {
	if len(f.Columns) == 0 {
		return Grid{}, NewError(KindSchema, "frame has no columns", nil)
	}
	if headers == nil {
		headers = f.Columns
	} else if len(headers) != len(f.Columns) {
		return Grid{}, NewError(KindSchema, fmt.Sprintf("got %d headers for %d columns", len(headers), len(f.Columns)), nil)
	}

	grid := Grid{Headers: append([]string(nil), headers...), Rows: make([][]string, len(f.Rows))}
	for i, row := range f.Rows {
		if len(row) != len(f.Columns) {
			return Grid{}, NewError(KindSchema, fmt.Sprintf("row %d has %d cells, want %d", i, len(row), len(f.Columns)), nil)
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = Stringify(v)
		}
		grid.Rows[i] = cells
	}
	return grid, nil
}

// Stringify converts a cell value to its canonical text.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return MissingValue
	case string:
		return v
	case float64:
		if math.IsNaN(v) {
			return MissingValue
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(v)) {
			return MissingValue
		}
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		if value == frame.Missing {
			return MissingValue
		}
		return fmt.Sprint(value)
	}
}
