package frame

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSeriesFromMapOrdersKeys(t *testing.T) {
	s := SeriesFromMap("Category", map[string]int{"B": 2, "A": 1, "C": 3})
	if s.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", s.Len())
	}
	if s.Index[0] != "A" || s.Index[2] != "C" {
		t.Fatalf("keys not sorted: %v", s.Index)
	}
	if s.Values[1] != 2 {
		t.Fatalf("value mismatch: %v", s.Values)
	}
}

func TestFrameSelect(t *testing.T) {
	f := NewFrame([]string{"a", "b", "c"}, [][]any{{1, 2, 3}, {4, 5}})
	sel, ok := f.Select("c", "a")
	if !ok {
		t.Fatalf("select failed")
	}
	if len(sel.Columns) != 2 || sel.Columns[0] != "c" {
		t.Fatalf("unexpected columns: %v", sel.Columns)
	}
	if sel.Rows[0][0] != 3 || sel.Rows[0][1] != 1 {
		t.Fatalf("unexpected row: %v", sel.Rows[0])
	}
	if sel.Rows[1][0] != Missing {
		t.Fatalf("short row should yield Missing, got %v", sel.Rows[1][0])
	}
	if _, ok := f.Select("zzz"); ok {
		t.Fatalf("unknown column should fail")
	}
}

func TestReadCSV(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("Region,Total\nEast,100\nWest,200\n"))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(f.Columns) != 2 || f.Columns[1] != "Total" {
		t.Fatalf("unexpected header: %v", f.Columns)
	}
	if f.Len() != 2 || f.Rows[1][0] != "West" {
		t.Fatalf("unexpected rows: %v", f.Rows)
	}
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatalf("empty csv should fail")
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	cells := map[string]string{"A1": "Region", "B1": "Total", "A2": "East", "B2": "100", "A3": "West"}
	for cell, v := range cells {
		if err := book.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	if err := book.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	book.Close()

	f, err := LoadXLSX(path, "")
	if err != nil {
		t.Fatalf("load xlsx: %v", err)
	}
	if len(f.Columns) != 2 || f.Columns[0] != "Region" {
		t.Fatalf("unexpected header: %v", f.Columns)
	}
	if f.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", f.Len())
	}
	if len(f.Rows[1]) != 2 || f.Rows[1][1] != "" {
		t.Fatalf("short row should be padded: %v", f.Rows[1])
	}
}
