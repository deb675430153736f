package analysis

// KPI metric names, in report order.
const (
	MetricTotalSales        = "Total Sales"
	MetricTotalProfit       = "Total Profit"
	MetricProfitMargin      = "Profit Margin (%)"
	MetricAverageOrderValue = "Average Order Value"
)

// KPI is one headline metric. Value is rounded to two decimals and Text is
// its presentation form.
type KPI struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Text   string  `json:"text"`
}

// Metrics holds the unrounded headline figures.
type Metrics struct {
	TotalSales        float64
	TotalProfit       float64
	ProfitMargin      float64
	AverageOrderValue float64
}

// ComputeMetrics reduces t to its headline figures. Profit margin is 0 when
// total sales is 0, and the average order value of an empty table is 0.
func ComputeMetrics(t *Table) Metrics {
	var m Metrics
	var sales, profit amount
	for _, r := range t.Rows {
		sales.add(r.Sales)
		profit.add(r.Profit)
	}
	m.TotalSales, m.TotalProfit = sales.float(), profit.float()
	m.ProfitMargin = marginPct(m.TotalProfit, m.TotalSales)
	if n := len(t.Rows); n > 0 {
		m.AverageOrderValue = m.TotalSales / float64(n)
	}
	return m
}

// KPIs returns the four metrics in report order.
func (m Metrics) KPIs() []KPI {
	pairs := []struct {
		name string
		v    float64
	}{
		{MetricTotalSales, m.TotalSales},
		{MetricTotalProfit, m.TotalProfit},
		{MetricProfitMargin, m.ProfitMargin},
		{MetricAverageOrderValue, m.AverageOrderValue},
	}
	out := make([]KPI, len(pairs))
	for i, p := range pairs {
		out[i] = KPI{Metric: p.name, Value: Round2(p.v), Text: FormatAmount(p.v)}
	}
	return out
}

// CalculateKPIs is ComputeMetrics followed by KPIs.
func CalculateKPIs(t *Table) []KPI {
	return ComputeMetrics(t).KPIs()
}
