package analysis

import "sort"

// DefaultMarginThreshold is the margin (%) below which a category is flagged.
const DefaultMarginThreshold = 20.0

// CategorySummary aggregates one category.
type CategorySummary struct {
	Category     string  `json:"category"`
	TotalSales   float64 `json:"total_sales"`
	TotalProfit  float64 `json:"total_profit"`
	ProfitMargin float64 `json:"profit_margin_pct"`
	// HighRevLowProfit is set when ProfitMargin is strictly below the threshold.
	HighRevLowProfit bool `json:"high_rev_low_profit"`
}

// AnalyzeCategories groups t by Category, sums Sales and Profit, and flags
// every category whose margin is below threshold. A category with zero total
// sales has margin 0. Results are sorted by category name.
func AnalyzeCategories(t *Table, threshold float64) []CategorySummary {
	type sums struct{ sales, profit amount }
	idx := map[string]int{}
	var out []CategorySummary
	var acc []sums
	for _, r := range t.Rows {
		i, ok := idx[r.Category]
		if !ok {
			i = len(out)
			idx[r.Category] = i
			out = append(out, CategorySummary{Category: r.Category})
			acc = append(acc, sums{})
		}
		acc[i].sales.add(r.Sales)
		acc[i].profit.add(r.Profit)
	}
	for i := range out {
		c := &out[i]
		c.TotalSales, c.TotalProfit = acc[i].sales.float(), acc[i].profit.float()
		c.ProfitMargin = marginPct(c.TotalProfit, c.TotalSales)
		c.HighRevLowProfit = c.ProfitMargin < threshold
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Flagged returns the categories with HighRevLowProfit set, preserving order.
func Flagged(cats []CategorySummary) []CategorySummary {
	var out []CategorySummary
	for _, c := range cats {
		if c.HighRevLowProfit {
			out = append(out, c)
		}
	}
	return out
}
