// Package report writes the multi-sheet workbook.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
	"github.com/KaramelBytes/bizreport-cli/internal/utils"
)

// Sheet names, in workbook order.
const (
	SheetKPI      = "KPI_Summary"
	SheetCleaned  = "Cleaned_Data"
	SheetCategory = "Category_Analysis"
)

var (
	kpiHeader      = []string{"Metric", "Value"}
	categoryHeader = []string{"Category", "Total_Sales", "Total_Profit", "Profit_Margin (%)", "High_Rev_Low_Profit"}
)

// Export writes the KPI table, the cleaned rows and the category summary to
// a new workbook at path, replacing any existing file.
func Export(path string, kpis []analysis.KPI, cleaned *analysis.Table, cats []analysis.CategorySummary) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetKPI); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetCleaned, SheetCategory} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	if err := writeKPIs(f, bold, kpis); err != nil {
		return err
	}
	if err := writeCleaned(f, bold, cleaned); err != nil {
		return err
	}
	if err := writeCategories(f, bold, cats); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeKPIs(f *excelize.File, bold int, kpis []analysis.KPI) error {
	rows := make([][]any, 0, len(kpis))
	for _, k := range kpis {
		rows = append(rows, []any{k.Metric, k.Text})
	}
	if err := writeSheet(f, SheetKPI, bold, kpiHeader, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetKPI, "A", "B", 22)
}

func writeCategories(f *excelize.File, bold int, cats []analysis.CategorySummary) error {
	rows := make([][]any, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []any{c.Category, c.TotalSales, c.TotalProfit, c.ProfitMargin, c.HighRevLowProfit})
	}
	return writeSheet(f, SheetCategory, bold, categoryHeader, rows)
}

func writeSheet(f *excelize.File, sheet string, bold int, header []string, rows [][]any) error {
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// writeCleaned streams the cleaned rows with the original header.
func writeCleaned(f *excelize.File, bold int, t *analysis.Table) error {
	sw, err := f.NewStreamWriter(SheetCleaned)
	if err != nil {
		return fmt.Errorf("open %s: %w", SheetCleaned, err)
	}
	hdr := make([]any, len(t.Columns))
	for i, h := range t.Columns {
		hdr[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", hdr); err != nil {
		return fmt.Errorf("write %s header: %w", SheetCleaned, err)
	}
	for i, r := range t.Rows {
		vals := t.Values(r)
		for j, v := range vals {
			if s, ok := v.(string); ok && t.IsExtra(j) {
				vals[j] = cellValue(s)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return fmt.Errorf("write %s row %d: %w", SheetCleaned, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", SheetCleaned, err)
	}
	return nil
}

// cellValue writes numeric-looking passthrough cells as numbers.
func cellValue(s string) any {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return s
	}
	return x
}
