package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/bizreport-cli/internal/config"
	"github.com/KaramelBytes/bizreport-cli/internal/logging"
	"github.com/KaramelBytes/bizreport-cli/internal/pipeline"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Input flags (override config if set)
	flagInput     string
	flagEncoding  string
	flagDelimiter string
	flagSheet     string
	flagThreshold float64
	// Output flags
	flagChart    string
	flagReport   string
	flagManifest string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "bizreport",
	Short: "Build a business performance report from a sales CSV",
	Long: `bizreport loads a sales dataset, cleans it, computes headline KPIs and a
per-category breakdown, then writes a sales vs profit chart and a multi-sheet
Excel report.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := pipeline.OptionsFromConfig(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		_, err = pipeline.Run(ctx, opts, newLogger(cmd), cmd.OutOrStdout())
		return err
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.bizreport/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVarP(&flagInput, "input", "i", "", "input CSV/TSV/XLSX file (default data.csv)")
	pf.StringVar(&flagEncoding, "encoding", "", "input text encoding: latin1 | windows-1252 | utf-8")
	pf.StringVar(&flagDelimiter, "delimiter", "", "field delimiter: ',' | ';' | 'tab' | '|' (auto from extension if omitted)")
	pf.StringVar(&flagSheet, "sheet", "", "worksheet to read from an .xlsx input (default first sheet)")
	pf.Float64Var(&flagThreshold, "threshold", cfgpkg.DefaultMarginThreshold, "profit margin (%) below which a category is flagged")

	f := rootCmd.Flags()
	f.StringVar(&flagChart, "chart", "", "chart output path; format from extension (default sales_profit_by_category.png)")
	f.StringVar(&flagReport, "report", "", "Excel report output path (default output_report.xlsx)")
	f.StringVar(&flagManifest, "manifest", "", "optional path for a JSON run manifest")
}

// loadConfig resolves configuration and applies flag overrides. Precedence:
// flags > env > config file > defaults.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("input") {
		c.InputPath = flagInput
	}
	if f.Changed("encoding") {
		c.InputEncoding = flagEncoding
	}
	if f.Changed("delimiter") {
		c.Delimiter = flagDelimiter
	}
	if f.Changed("sheet") {
		c.SheetName = flagSheet
	}
	if f.Changed("threshold") {
		c.MarginThreshold = flagThreshold
	}
	if f.Changed("chart") {
		c.ChartPath = flagChart
	}
	if f.Changed("report") {
		c.ReportPath = flagReport
	}
	if f.Changed("manifest") {
		c.ManifestPath = flagManifest
	}
	if debug {
		c.LogLevel = "debug"
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
}
