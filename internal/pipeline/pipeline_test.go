package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
	"github.com/KaramelBytes/bizreport-cli/internal/config"
	"github.com/KaramelBytes/bizreport-cli/internal/logging"
	"github.com/KaramelBytes/bizreport-cli/internal/manifest"
	"github.com/KaramelBytes/bizreport-cli/internal/report"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeInput(t *testing.T, dir string, content string) string {
	t.Helper()
	p := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func options(dir, input string) Options {
	return Options{
		InputPath:       input,
		ChartPath:       filepath.Join(dir, "sales_profit_by_category.png"),
		ReportPath:      filepath.Join(dir, "output_report.xlsx"),
		MarginThreshold: analysis.DefaultMarginThreshold,
	}
}

func TestRunScenario(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Sales,Profit,Category,Segment\n100,20,A,X\n100,20,A,X\n-5,1,B,Y\n")
	opts := options(dir, input)
	opts.ManifestPath = filepath.Join(dir, "manifest.json")

	var out, logs bytes.Buffer
	res, err := Run(context.Background(), opts, logging.New("debug", "json", &logs), &out)
	require.NoError(t, err)

	assert.Equal(t, 3, res.RowsLoaded)
	assert.Equal(t, 1, res.Cleaned.Len())
	texts := make([]string, len(res.KPIs))
	for i, k := range res.KPIs {
		texts[i] = k.Text
	}
	assert.Equal(t, []string{"100.00", "20.00", "20.00", "100.00"}, texts)
	require.Len(t, res.Categories, 1)
	assert.False(t, res.Categories[0].HighRevLowProfit)

	assert.Equal(t, SuccessMessage+"\n", out.String(), "nothing is flagged at exactly 20%")
	assert.FileExists(t, opts.ChartPath)
	assert.FileExists(t, opts.ReportPath)
	assert.Contains(t, logs.String(), `"run_id":"`+res.RunID+`"`)
	assert.Contains(t, logs.String(), `"stage":"report"`)

	m, err := manifest.Load(opts.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, m.RunID)
	assert.Equal(t, res.Stats, m.Clean)
	assert.Empty(t, m.Flagged)
}

func TestRunFlagsLatin1Categories(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Order,Sales,Profit,Category,Segment\n"+
		"1,200,10,Caf\xe9,Home\n"+
		"2,0,0,C,Home\n"+
		"3,300,120,Tech,\n")
	opts := options(dir, input)

	var out bytes.Buffer
	res, err := Run(context.Background(), opts, quiet(), &out)
	require.NoError(t, err)

	names := []string{}
	for _, c := range analysis.Flagged(res.Categories) {
		names = append(names, c.Category)
	}
	assert.Equal(t, []string{"C", "Café"}, names)

	s := out.String()
	assert.Contains(t, s, analysis.FlaggedHeading)
	assert.Contains(t, s, "Café")
	assert.True(t, strings.HasSuffix(s, SuccessMessage+"\n"))
	assert.Less(t, strings.Index(s, analysis.FlaggedHeading), strings.Index(s, SuccessMessage))

	f, err := excelize.OpenFile(opts.ReportPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.SheetCleaned)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Café", rows[1][3])
	assert.Equal(t, "Unknown", rows[3][4])
}

func TestRunSchemaError(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Sales,Category,Segment\n1,A,X\n")
	opts := options(dir, input)

	var out bytes.Buffer
	_, err := Run(context.Background(), opts, quiet(), &out)
	require.Error(t, err)
	var se *analysis.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Profit", se.Column)
	assert.Empty(t, out.String())
	assert.NoFileExists(t, opts.ChartPath)
	assert.NoFileExists(t, opts.ReportPath)
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	opts := options(dir, filepath.Join(dir, "missing.csv"))
	_, err := Run(context.Background(), opts, quiet(), &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, opts.ReportPath)
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Sales,Profit,Category,Segment\n1,1,A,X\n")
	opts := options(dir, input)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, opts, quiet(), &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, opts.ChartPath)
}

func TestRunEmptyAfterCleaning(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Sales,Profit,Category,Segment\n-1,0,A,X\n")
	opts := options(dir, input)

	res, err := Run(context.Background(), opts, quiet(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Cleaned.Len())
	assert.Empty(t, res.Categories)
	assert.Equal(t, 0.0, res.KPIs[3].Value)
	assert.Contains(t, res.Warnings[len(res.Warnings)-1], "average order value")
	assert.FileExists(t, opts.ChartPath)
}

func TestOptionsFromConfig(t *testing.T) {
	c := &config.Global{InputPath: "in.tsv", InputEncoding: "utf-8", Delimiter: "tab", SheetName: "Orders",
		ChartPath: "c.svg", ReportPath: "r.xlsx", MarginThreshold: 15}
	opts, err := OptionsFromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, '\t', opts.Parse.Delimiter)
	assert.Equal(t, "utf-8", opts.Parse.Encoding)
	assert.Equal(t, "Orders", opts.Parse.SheetName)
	assert.Equal(t, 15.0, opts.MarginThreshold)

	c.Delimiter = "colon"
	_, err = OptionsFromConfig(c)
	assert.Error(t, err)
}
