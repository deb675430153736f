package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
)

var cats = []analysis.CategorySummary{
	{Category: "Furniture", TotalSales: 1200, TotalProfit: 90},
	{Category: "Office Supplies", TotalSales: 640.5, TotalProfit: 210},
	{Category: "Technology", TotalSales: 2300, TotalProfit: -45.25},
}

func TestRenderPNG(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "chart.png")
	require.NoError(t, Render(p, cats))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")))
}

func TestRenderSVG(t *testing.T) {
	p := filepath.Join(t.TempDir(), "chart.SVG")
	require.NoError(t, Render(p, cats))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	svg := string(b)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, Title)
	assert.Contains(t, svg, "Total_Sales")
	assert.Contains(t, svg, "Total_Profit")
	assert.Contains(t, svg, "Office Supplies")
}

func TestRenderEmptySummary(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, Render(p, nil))

	st, err := os.Stat(p)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestRenderUnsupportedFormat(t *testing.T) {
	p := filepath.Join(t.TempDir(), "chart.bmp")
	err := Render(p, cats)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bmp")
	assert.NoFileExists(t, p)
}

func TestBuild(t *testing.T) {
	p, err := Build(cats)
	require.NoError(t, err)
	assert.Equal(t, Title, p.Title.Text)
	assert.Equal(t, YLabel, p.Y.Label.Text)
}
