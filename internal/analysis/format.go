package analysis

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// Round2 rounds x to two decimal places the way %.2f does: the exact binary
// value is rounded, ties to even.
func Round2(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return r
}

// FormatAmount renders x as fixed-point text with two decimals and
// thousands separators, e.g. 1234.5 -> "1,234.50".
func FormatAmount(x float64) string {
	return amountPrinter.Sprintf("%.2f", Round2(x))
}

// marginPct returns profit as a percentage of sales, or 0 when sales is 0.
func marginPct(profit, sales float64) float64 {
	if sales == 0 {
		return 0
	}
	return profit * 100 / sales
}

// amount accumulates money values exactly, so long columns of cents do not
// drift before rounding.
type amount struct{ d decimal.Decimal }

func (a *amount) add(x float64) { a.d = a.d.Add(decimal.NewFromFloat(x)) }

func (a amount) float() float64 { return a.d.InexactFloat64() }
