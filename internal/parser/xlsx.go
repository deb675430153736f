package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Read loads the selected sheet (first sheet by default). The first row is the header.
func (xlsxReader) Read(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet := opt.SheetName
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, emptyInput(path)
		}
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'; available sheets: %s",
			sheet, filepath.Base(path), strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	// excelize reports fully blank rows as empty slices; drop them like the csv reader does.
	var kept [][]string
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return nil, emptyInput(path)
	}
	return &Table{Name: filepath.Base(path), Header: kept[0], Rows: kept[1:]}, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
