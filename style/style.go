// Package style turns a normalized grid and a theme into per-cell table
// directives. Both backends draw tables from the same Directives so header
// emphasis, striping and indentation stay consistent between them.
package style

import (
	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/layout"
)

// BorderMask selects which table edges are drawn.
type BorderMask uint8

const (
	BorderTop BorderMask = 1 << iota
	BorderLeft
	BorderBottom
	BorderRight
	BorderInsideH
	BorderInsideV
)

// TableBorders draws horizontal rules only.
const TableBorders = BorderTop | BorderBottom | BorderInsideH

// Has reports whether every edge in edge is set.
func (m BorderMask) Has(edge BorderMask) bool { return m&edge == edge }

// IndentWidth is the left indent applied to the first cell of indented rows.
var IndentWidth = layout.Inches(0.25)

// Cell is the styling of one table cell.
type Cell struct {
	Bold       bool           `json:"bold,omitempty"`
	Background *content.Color `json:"background,omitempty"`
	LeftIndent layout.Length  `json:"leftIndent,omitempty"`
	Borders    BorderMask     `json:"borders"`
}

// Indented reports whether the cell carries a left indent.
func (c Cell) Indented() bool { return !c.LeftIndent.IsZero() }

// Directives is the computed styling of one table.
type Directives struct {
	Header  []Cell         `json:"header"`
	Rows    [][]Cell       `json:"rows"`
	Borders BorderMask     `json:"borders"`
	Width   *layout.Length `json:"width,omitempty"`
}

// Compute derives the table directives. It has no side effects.
func Compute(grid content.Grid, theme content.Theme, indentRows []int) Directives {
	cols := grid.Columns()
	d := Directives{
		Header:  make([]Cell, cols),
		Rows:    make([][]Cell, len(grid.Rows)),
		Borders: TableBorders,
		Width:   theme.FixedTableWidth,
	}
	for j := range d.Header {
		d.Header[j] = Cell{Bold: true, Background: theme.HeaderBackground, Borders: TableBorders}
	}

	indented := make(map[int]bool, len(indentRows))
	for _, r := range indentRows {
		if r >= 0 && r < len(grid.Rows) {
			indented[r] = true
		}
	}

	for i := range grid.Rows {
		bg := RowBackground(theme, i)
		row := make([]Cell, cols)
		for j := range row {
			row[j] = Cell{Background: bg, Borders: TableBorders}
		}
		if indented[i] && cols > 0 {
			row[0].LeftIndent = IndentWidth
		}
		d.Rows[i] = row
	}
	return d
}

// RowBackground returns the fill of data row i: even rows take the even
// color, odd rows the odd color.
func RowBackground(theme content.Theme, i int) *content.Color {
	if i%2 == 0 {
		return theme.EvenRowBackground
	}
	return theme.OddRowBackground
}
