// Package chart draws the sales vs profit bar chart.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
	"github.com/KaramelBytes/bizreport-cli/internal/utils"
)

const (
	Title  = "Sales vs Profit by Category"
	YLabel = "Amount ($)"
)

var (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch

	barWidth    = vg.Points(14)
	salesColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	profitColor = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// Build lays out one pair of bars per category, Sales on the left and
// Profit on the right, in the order given.
func Build(cats []analysis.CategorySummary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = analysis.ColCategory
	p.Y.Label.Text = YLabel
	p.Add(plotter.NewGrid())

	if len(cats) == 0 {
		return p, nil
	}

	sales := make(plotter.Values, len(cats))
	profit := make(plotter.Values, len(cats))
	names := make([]string, len(cats))
	for i, c := range cats {
		sales[i] = c.TotalSales
		profit[i] = c.TotalProfit
		names[i] = c.Category
	}

	salesBars, err := plotter.NewBarChart(sales, barWidth)
	if err != nil {
		return nil, fmt.Errorf("sales bars: %w", err)
	}
	salesBars.Color = salesColor
	salesBars.LineStyle.Width = vg.Length(0)
	salesBars.Offset = -barWidth / 2

	profitBars, err := plotter.NewBarChart(profit, barWidth)
	if err != nil {
		return nil, fmt.Errorf("profit bars: %w", err)
	}
	profitBars.Color = profitColor
	profitBars.LineStyle.Width = vg.Length(0)
	profitBars.Offset = barWidth / 2

	p.Add(salesBars, profitBars)
	p.Legend.Add("Total_Sales", salesBars)
	p.Legend.Add("Total_Profit", profitBars)
	p.Legend.Top = true

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

// Render writes the chart to path. The image format follows the file
// extension (png, svg, pdf, jpg, ...).
func Render(path string, cats []analysis.CategorySummary) error {
	p, err := Build(cats)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("chart format %q: %w", format, err)
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart: %w", err)
	}
	return nil
}
