package analysis

import (
	"strconv"
	"strings"
)

// UnknownLabel replaces missing Category and Segment values.
const UnknownLabel = "Unknown"

// CleanStats counts what Clean changed.
type CleanStats struct {
	Input             int `json:"input_rows"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	ValuesFilled      int `json:"values_filled"`
	NegativeDropped   int `json:"negative_sales_dropped"`
	Output            int `json:"output_rows"`
}

// Clean removes exact duplicate rows (keeping the first), fills missing
// Sales/Profit with 0 and Category/Segment with "Unknown", then drops rows
// with negative Sales, in that order. The input table is not modified.
func Clean(t *Table) (*Table, CleanStats) {
	st := CleanStats{Input: len(t.Rows)}

	seen := make(map[string]struct{}, len(t.Rows))
	unique := make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		k := rowKey(r)
		if _, dup := seen[k]; dup {
			st.DuplicatesRemoved++
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, r)
	}

	out := make([]Record, 0, len(unique))
	for _, r := range unique {
		r.Extra = append([]*string(nil), r.Extra...)
		if r.IsMissing(FieldSales) {
			r.Sales = 0
			st.ValuesFilled++
		}
		if r.IsMissing(FieldProfit) {
			r.Profit = 0
			st.ValuesFilled++
		}
		if r.IsMissing(FieldCategory) {
			r.Category = UnknownLabel
			st.ValuesFilled++
		}
		if r.IsMissing(FieldSegment) {
			r.Segment = UnknownLabel
			st.ValuesFilled++
		}
		r.Missing = 0
		if r.Sales < 0 {
			st.NegativeDropped++
			continue
		}
		out = append(out, r)
	}
	st.Output = len(out)
	return t.withRows(out), st
}

// rowKey encodes every cell of r, distinguishing missing cells from values.
func rowKey(r Record) string {
	const sep, missing = "\x1f", "\x00"
	var b strings.Builder
	num := func(f Field, v float64) {
		if r.IsMissing(f) {
			b.WriteString(missing)
		} else {
			if v == 0 {
				v = 0 // fold -0 into 0
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteString(sep)
	}
	text := func(f Field, v string) {
		if r.IsMissing(f) {
			b.WriteString(missing)
		} else {
			b.WriteString(v)
		}
		b.WriteString(sep)
	}
	num(FieldSales, r.Sales)
	num(FieldProfit, r.Profit)
	text(FieldCategory, r.Category)
	text(FieldSegment, r.Segment)
	for _, e := range r.Extra {
		if e == nil {
			b.WriteString(missing)
		} else {
			b.WriteString(*e)
		}
		b.WriteString(sep)
	}
	return b.String()
}
