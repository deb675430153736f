package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/bizreport-cli/internal/parser"
)

func raw(header []string, rows ...[]string) *parser.Table {
	return &parser.Table{Name: "test.csv", Header: header, Rows: rows}
}

func TestLoadTrimsHeaderAndKeepsPassthrough(t *testing.T) {
	tbl, err := Load(raw(
		[]string{" Order ID", "Sales ", " Profit", "Category", "Segment", "Region "},
		[]string{"CA-1", "1,200.50", "-3", "Office", "Consumer", "West"},
		[]string{"CA-2", "7"},
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"Order ID", "Sales", "Profit", "Category", "Segment", "Region"}, tbl.Columns)
	assert.Equal(t, []string{"Order ID", "Region"}, tbl.ExtraColumns)
	assert.True(t, tbl.IsExtra(0))
	assert.False(t, tbl.IsExtra(1))
	assert.True(t, tbl.IsExtra(5))
	require.Equal(t, 2, tbl.Len())

	first := tbl.Rows[0]
	assert.Equal(t, 1200.5, first.Sales)
	assert.Equal(t, -3.0, first.Profit)
	assert.Equal(t, "Office", first.Category)
	assert.Zero(t, first.Missing)
	assert.Equal(t, []any{"CA-1", 1200.5, -3.0, "Office", "Consumer", "West"}, tbl.Values(first))

	short := tbl.Rows[1]
	assert.Equal(t, 7.0, short.Sales)
	assert.True(t, short.IsMissing(FieldProfit))
	assert.True(t, short.IsMissing(FieldCategory))
	assert.True(t, short.IsMissing(FieldSegment))
	assert.Equal(t, []any{"CA-2", 7.0, nil, nil, nil, nil}, tbl.Values(short))
}

func TestLoadSchemaErrorNamesFirstMissingColumn(t *testing.T) {
	_, err := Load(raw([]string{"Sales", "Segment"}))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Profit", se.Column)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Equal(t, "missing required column: Profit", err.Error())
}

func TestLoadMissingTokensAndNonNumeric(t *testing.T) {
	tbl, err := Load(raw(
		[]string{"Sales", "Profit", "Category", "Segment", "Note"},
		[]string{"NaN", "abc", "N/A", "", "NULL"},
		[]string{"inf", "2", " Tech ", "Home", "ok"},
	))
	require.NoError(t, err)

	r := tbl.Rows[0]
	assert.Equal(t, FieldSales|FieldProfit|FieldCategory|FieldSegment, r.Missing)
	assert.Nil(t, r.Extra[0])

	r = tbl.Rows[1]
	assert.True(t, r.IsMissing(FieldSales), "infinite values are not accepted")
	assert.Equal(t, "Tech", r.Category)
	require.NotNil(t, r.Extra[0])
	assert.Equal(t, "ok", *r.Extra[0])

	assert.Equal(t, []string{
		"1 non-numeric Sales values treated as missing",
		"1 non-numeric Profit values treated as missing",
	}, tbl.Warnings)
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(p, []byte("Sales,Profit,Category,Segment\n10,1,A,X\n"), 0o644))

	tbl, err := LoadFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, "data.csv", tbl.Name)
	assert.Equal(t, 1, tbl.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.csv"), parser.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100", 100, true},
		{" -5.25 ", -5.25, true},
		{"1,234.50", 1234.5, true},
		{"1e3", 1000, true},
		{"twelve", 0, false},
		{"Infinity", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumeric(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
