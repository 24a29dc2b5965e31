// Package binding resolves ${path} expressions and data paths against decoded
// JSON and turns the values it finds into frames and series.
package binding

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/frame"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces ${path.to.value} in text with values from data.
// Unresolved placeholders are left as written.
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := Resolve(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Resolve walks a dotted path such as "sales.rows[0].total". A leading
// "data" segment names the root and is skipped.
func Resolve(data any, path string) (any, bool) {
	current := data
	segments := strings.Split(path, ".")
	if len(segments) > 1 && segments[0] == "data" {
		segments = segments[1:]
	}
	for _, segment := range segments {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	indexes := []string{}
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]interface{}:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []interface{}:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

// Frame converts a list of records ([{"region": "East", "total": 1}, ...]) or
// a {"columns": [...], "rows": [[...], ...]} object into a frame. columns,
// when given, selects and orders the record fields; otherwise the sorted
// union of record keys is used. Missing fields become frame.Missing.
func Frame(value any, columns []string) (frame.Frame, error) {
	switch v := value.(type) {
	case []interface{}:
		return recordsFrame(v, columns)
	case map[string]interface{}:
		return tableFrame(v, columns)
	default:
		return frame.Frame{}, content.NewError(content.KindSchema, fmt.Sprintf("cannot build a table from %T", value), nil)
	}
}

func recordsFrame(records []interface{}, columns []string) (frame.Frame, error) {
	rows := make([]map[string]interface{}, len(records))
	keys := map[string]bool{}
	for i, rec := range records {
		m, ok := rec.(map[string]interface{})
		if !ok {
			return frame.Frame{}, content.NewError(content.KindSchema, fmt.Sprintf("record %d is %T, want an object", i, rec), nil)
		}
		rows[i] = m
		for k := range m {
			keys[k] = true
		}
	}
	if len(columns) == 0 {
		for k := range keys {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	out := frame.Frame{Columns: append([]string(nil), columns...), Rows: make([][]any, len(rows))}
	for i, m := range rows {
		row := make([]any, len(columns))
		for j, col := range columns {
			if v, ok := m[col]; ok {
				row[j] = v
			} else {
				row[j] = frame.Missing
			}
		}
		out.Rows[i] = row
	}
	return out, nil
}

func tableFrame(obj map[string]interface{}, columns []string) (frame.Frame, error) {
	rawCols, ok := obj["columns"].([]interface{})
	if !ok {
		return frame.Frame{}, content.NewError(content.KindSchema, "table object needs a columns list", nil)
	}
	rawRows, _ := obj["rows"].([]interface{})
	f := frame.Frame{Columns: make([]string, len(rawCols)), Rows: make([][]any, len(rawRows))}
	for i, c := range rawCols {
		f.Columns[i] = fmt.Sprint(c)
	}
	for i, r := range rawRows {
		cells, ok := r.([]interface{})
		if !ok {
			return frame.Frame{}, content.NewError(content.KindSchema, fmt.Sprintf("row %d is %T, want a list", i, r), nil)
		}
		f.Rows[i] = append([]any(nil), cells...)
	}
	if len(columns) == 0 {
		return f, nil
	}
	selected, ok := f.Select(columns...)
	if !ok {
		return frame.Frame{}, content.NewError(content.KindSchema, fmt.Sprintf("columns %v not all present in %v", columns, f.Columns), nil)
	}
	return selected, nil
}

// Series converts an object ({"A": 1, "B": 2}, sorted by key) or a list of
// [label, value] pairs into a named series.
func Series(name string, value any) (frame.Series, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		return frame.SeriesFromMap(name, v), nil
	case []interface{}:
		s := frame.Series{Name: name, Index: make([]any, len(v)), Values: make([]any, len(v))}
		for i, item := range v {
			pair, ok := item.([]interface{})
			if !ok || len(pair) != 2 {
				return frame.Series{}, content.NewError(content.KindSchema, fmt.Sprintf("series entry %d is not a [label, value] pair", i), nil)
			}
			s.Index[i], s.Values[i] = pair[0], pair[1]
		}
		return s, nil
	default:
		return frame.Series{}, content.NewError(content.KindSchema, fmt.Sprintf("cannot build a series from %T", value), nil)
	}
}
