// Package analysis turns raw sales rows into a typed table and derives the
// cleaned dataset, headline KPIs, and per-category breakdown from it.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/bizreport-cli/internal/parser"
)

// Required column names.
const (
	ColSales    = "Sales"
	ColProfit   = "Profit"
	ColCategory = "Category"
	ColSegment  = "Segment"
)

// RequiredColumns lists the columns every input must carry, in validation order.
var RequiredColumns = []string{ColSales, ColProfit, ColCategory, ColSegment}

// ErrMissingColumn is wrapped by SchemaError.
var ErrMissingColumn = errors.New("missing required column")

// SchemaError reports the first required column absent from the input.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumn }

// Field identifies one of the required typed fields.
type Field uint8

const (
	FieldSales Field = 1 << iota
	FieldProfit
	FieldCategory
	FieldSegment
)

// Record is one typed row. Extra holds passthrough cells aligned with
// Table.ExtraColumns; an entry is nil when the cell was missing.
type Record struct {
	Sales    float64
	Profit   float64
	Category string
	Segment  string
	// Missing marks required fields that had no value in the input.
	Missing Field
	Extra   []*string
}

// IsMissing reports whether f had no value in the input.
func (r Record) IsMissing(f Field) bool { return r.Missing&f != 0 }

// Table is an ordered set of records plus the column layout of the input.
type Table struct {
	Name string
	// Columns is the trimmed input header in original order.
	Columns []string
	// ExtraColumns are the passthrough columns, in original order.
	ExtraColumns []string
	Rows         []Record
	Warnings     []string

	layout []slot
}

// slot maps an input column position to a typed field or a passthrough index.
type slot struct {
	field Field
	extra int
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Values returns the cells of r in column order: float64 for Sales/Profit,
// string for text, nil for missing cells.
func (t *Table) Values(r Record) []any {
	out := make([]any, len(t.layout))
	for i, s := range t.layout {
		if s.field == 0 {
			if s.extra < len(r.Extra) && r.Extra[s.extra] != nil {
				out[i] = *r.Extra[s.extra]
			}
			continue
		}
		if r.IsMissing(s.field) {
			continue
		}
		switch s.field {
		case FieldSales:
			out[i] = r.Sales
		case FieldProfit:
			out[i] = r.Profit
		case FieldCategory:
			out[i] = r.Category
		case FieldSegment:
			out[i] = r.Segment
		}
	}
	return out
}

// IsExtra reports whether column i is a passthrough column.
func (t *Table) IsExtra(i int) bool { return i < len(t.layout) && t.layout[i].field == 0 }

// withRows returns a table sharing t's layout with the given rows.
func (t *Table) withRows(rows []Record) *Table {
	return &Table{
		Name:         t.Name,
		Columns:      t.Columns,
		ExtraColumns: t.ExtraColumns,
		Rows:         rows,
		Warnings:     append([]string(nil), t.Warnings...),
		layout:       t.layout,
	}
}

// LoadFile reads path and builds a typed table from it.
func LoadFile(path string, opt parser.Options) (*Table, error) {
	raw, err := parser.ReadFile(path, opt)
	if err != nil {
		return nil, err
	}
	return Load(raw)
}

// Load validates the raw header and converts every row to a Record.
// No row-level validation happens here.
func Load(raw *parser.Table) (*Table, error) {
	t := &Table{Name: raw.Name}
	pos := map[string]int{}
	for i, h := range raw.Header {
		name := strings.TrimSpace(h)
		t.Columns = append(t.Columns, name)
		if _, seen := pos[name]; !seen {
			pos[name] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := pos[col]; !ok {
			return nil, &SchemaError{Column: col}
		}
	}
	fieldAt := map[int]Field{
		pos[ColSales]:    FieldSales,
		pos[ColProfit]:   FieldProfit,
		pos[ColCategory]: FieldCategory,
		pos[ColSegment]:  FieldSegment,
	}
	t.layout = make([]slot, len(t.Columns))
	for i, name := range t.Columns {
		if f, ok := fieldAt[i]; ok {
			t.layout[i] = slot{field: f}
			continue
		}
		t.layout[i] = slot{extra: len(t.ExtraColumns)}
		t.ExtraColumns = append(t.ExtraColumns, name)
	}

	unparsed := map[string]int{}
	t.Rows = make([]Record, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		rec := Record{Extra: make([]*string, len(t.ExtraColumns))}
		for i, s := range t.layout {
			v, ok := "", false
			if i < len(cells) {
				v, ok = cells[i], true
			}
			if s.field == 0 {
				if ok && !isMissing(v) {
					cell := v
					rec.Extra[s.extra] = &cell
				}
				continue
			}
			v = strings.TrimSpace(v)
			if !ok || isMissing(v) {
				rec.Missing |= s.field
				continue
			}
			switch s.field {
			case FieldSales, FieldProfit:
				x, okNum := parseNumeric(v)
				if !okNum {
					rec.Missing |= s.field
					unparsed[t.Columns[i]]++
					continue
				}
				if s.field == FieldSales {
					rec.Sales = x
				} else {
					rec.Profit = x
				}
			case FieldCategory:
				rec.Category = v
			case FieldSegment:
				rec.Segment = v
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	for _, col := range []string{ColSales, ColProfit} {
		if n := unparsed[col]; n > 0 {
			t.Warnings = append(t.Warnings, fmt.Sprintf("%d non-numeric %s values treated as missing", n, col))
		}
	}
	return t, nil
}

// naTokens are cell spellings read as missing values.
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "<NA>": {},
	"1.#IND": {}, "-1.#IND": {}, "1.#QNAN": {}, "-1.#QNAN": {},
}

func isMissing(v string) bool {
	_, ok := naTokens[strings.TrimSpace(v)]
	return ok
}

// parseNumeric parses plain or comma-grouped decimals ("1,234.50").
// Infinite values are rejected so they never reach the report.
func parseNumeric(s string) (float64, bool) {
	raw := strings.ReplaceAll(s, " ", "")
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, ",") {
		if strings.Count(raw, ".") > 1 {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, ",", "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
