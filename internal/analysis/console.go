package analysis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// FlaggedHeading introduces the flagged category listing.
const FlaggedHeading = "⚠ Categories with high revenue but low profit margin:"

var warnColor = color.New(color.FgYellow, color.Bold)

// WriteFlagged prints the flagged categories as a table under a highlighted
// heading. It prints nothing when no category is flagged.
func WriteFlagged(w io.Writer, cats []CategorySummary) {
	flagged := Flagged(cats)
	if len(flagged) == 0 {
		return
	}
	warnColor.Fprintln(w, FlaggedHeading)
	tw := newTable(w, []string{"Category", "Total_Sales", "Total_Profit", "Profit_Margin (%)"})
	for _, c := range flagged {
		tw.Append([]string{c.Category, fmtNum(c.TotalSales), fmtNum(c.TotalProfit), fmtNum(c.ProfitMargin)})
	}
	tw.Render()
}

// WriteKPIs prints the KPI table.
func WriteKPIs(w io.Writer, kpis []KPI) {
	tw := newTable(w, []string{"Metric", "Value"})
	for _, k := range kpis {
		tw.Append([]string{k.Metric, k.Text})
	}
	tw.Render()
}

// WriteCategories prints the full category table.
func WriteCategories(w io.Writer, cats []CategorySummary) {
	tw := newTable(w, []string{"Category", "Total_Sales", "Total_Profit", "Profit_Margin (%)", "High_Rev_Low_Profit"})
	for _, c := range cats {
		tw.Append([]string{c.Category, fmtNum(c.TotalSales), fmtNum(c.TotalProfit), fmtNum(c.ProfitMargin), strconv.FormatBool(c.HighRevLowProfit)})
	}
	tw.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(header)
	return tw
}

func fmtNum(x float64) string { return fmt.Sprintf("%.2f", x) }
