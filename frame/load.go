package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// ReadCSV reads a frame from CSV; the first record is the header.
func ReadCSV(r io.Reader) (Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Frame{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Frame{}, fmt.Errorf("csv has no header row")
	}
	return FromStrings(records[0], records[1:]), nil
}

// LoadCSV reads a frame from a CSV file.
func LoadCSV(path string) (Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return Frame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// LoadXLSX reads a sheet of a workbook into a frame. An empty sheet name picks
// the first sheet. The first row is the header; shorter rows are padded with
// empty strings because spreadsheets drop trailing blank cells.
func LoadXLSX(path, sheet string) (Frame, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer book.Close()

	if sheet == "" {
		sheet = book.GetSheetName(0)
	}
	rows, err := book.GetRows(sheet)
	if err != nil {
		return Frame{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Frame{}, fmt.Errorf("sheet %q has no header row", sheet)
	}
	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		records = append(records, row)
	}
	return FromStrings(header, records), nil
}
