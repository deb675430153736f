// Package pipeline sequences load, clean, compute and export for one report run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
	"github.com/KaramelBytes/bizreport-cli/internal/chart"
	"github.com/KaramelBytes/bizreport-cli/internal/config"
	"github.com/KaramelBytes/bizreport-cli/internal/manifest"
	"github.com/KaramelBytes/bizreport-cli/internal/parser"
	"github.com/KaramelBytes/bizreport-cli/internal/report"
)

// SuccessMessage is printed after every output has been written.
const SuccessMessage = "✅ Business performance report generated successfully."

// Options controls one run.
type Options struct {
	InputPath       string
	Parse           parser.Options
	ChartPath       string
	ReportPath      string
	MarginThreshold float64
	// ManifestPath is optional; no manifest is written when empty.
	ManifestPath string
}

// OptionsFromConfig maps validated configuration to run options.
func OptionsFromConfig(c *config.Global) (Options, error) {
	delim, err := config.ParseDelimiter(c.Delimiter)
	if err != nil {
		return Options{}, err
	}
	return Options{
		InputPath: c.InputPath,
		Parse: parser.Options{
			Encoding:  c.InputEncoding,
			Delimiter: delim,
			SheetName: c.SheetName,
		},
		ChartPath:       c.ChartPath,
		ReportPath:      c.ReportPath,
		MarginThreshold: c.MarginThreshold,
		ManifestPath:    c.ManifestPath,
	}, nil
}

// Result carries every intermediate product of a run.
type Result struct {
	RunID      string
	RowsLoaded int
	Stats      analysis.CleanStats
	Cleaned    *analysis.Table
	KPIs       []analysis.KPI
	Categories []analysis.CategorySummary
	Warnings   []string
}

// Analyze loads, cleans and summarizes the input without writing anything.
func Analyze(ctx context.Context, opts Options, log *slog.Logger) (*Result, error) {
	res := &Result{}

	start := time.Now()
	tbl, err := analysis.LoadFile(opts.InputPath, opts.Parse)
	if err != nil {
		return nil, err
	}
	res.RowsLoaded = tbl.Len()
	res.Warnings = tbl.Warnings
	for _, w := range tbl.Warnings {
		log.Warn(w, "stage", "load")
	}
	log.Info("loaded input", "stage", "load", "path", opts.InputPath, "rows", tbl.Len(), "columns", len(tbl.Columns), "elapsed", time.Since(start))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned, st := analysis.Clean(tbl)
	res.Cleaned, res.Stats = cleaned, st
	log.Info("cleaned data", "stage", "clean",
		"duplicates_removed", st.DuplicatesRemoved,
		"values_filled", st.ValuesFilled,
		"negative_sales_dropped", st.NegativeDropped,
		"rows", st.Output)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := analysis.ComputeMetrics(cleaned)
	if cleaned.Len() == 0 {
		msg := "no rows left after cleaning; average order value reported as 0"
		res.Warnings = append(res.Warnings, msg)
		log.Warn(msg, "stage", "kpi")
	}
	res.KPIs = m.KPIs()
	log.Info("computed KPIs", "stage", "kpi", "total_sales", res.KPIs[0].Value, "total_profit", res.KPIs[1].Value, "margin_pct", res.KPIs[2].Value)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Categories = analysis.AnalyzeCategories(cleaned, opts.MarginThreshold)
	log.Info("analyzed categories", "stage", "category", "categories", len(res.Categories), "flagged", len(analysis.Flagged(res.Categories)), "threshold", opts.MarginThreshold)
	return res, nil
}

// Run executes the whole pipeline: it prints the flagged categories and the
// success message to stdout, writes the chart and the workbook, and the
// manifest when requested.
func Run(ctx context.Context, opts Options, log *slog.Logger, stdout io.Writer) (*Result, error) {
	mf := manifest.New(opts.InputPath)
	log = log.With("run_id", mf.RunID)

	res, err := Analyze(ctx, opts, log)
	if err != nil {
		return nil, err
	}
	res.RunID = mf.RunID
	analysis.WriteFlagged(stdout, res.Categories)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := chart.Render(opts.ChartPath, res.Categories); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	log.Info("wrote chart", "stage", "chart", "path", opts.ChartPath)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := report.Export(opts.ReportPath, res.KPIs, res.Cleaned, res.Categories); err != nil {
		return nil, fmt.Errorf("export report: %w", err)
	}
	log.Info("wrote report", "stage", "report", "path", opts.ReportPath)

	if opts.ManifestPath != "" {
		mf.RowsLoaded = res.RowsLoaded
		mf.Clean = res.Stats
		mf.Warnings = res.Warnings
		mf.KPIs = res.KPIs
		mf.Threshold = opts.MarginThreshold
		mf.SetCategories(res.Categories)
		mf.Outputs = manifest.Outputs{Chart: opts.ChartPath, Report: opts.ReportPath}
		if err := mf.Save(opts.ManifestPath); err != nil {
			return nil, err
		}
		log.Debug("wrote manifest", "path", opts.ManifestPath)
	}

	fmt.Fprintln(stdout, SuccessMessage)
	return res, nil
}
