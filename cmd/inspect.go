package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
	"github.com/KaramelBytes/bizreport-cli/internal/pipeline"
	"github.com/KaramelBytes/bizreport-cli/internal/utils"
)

var inspJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print KPIs and the category breakdown without writing any files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.InputPath = args[0]
		}
		opts, err := pipeline.OptionsFromConfig(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		res, err := pipeline.Analyze(ctx, opts, newLogger(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if inspJSON {
			b, err := utils.PrettyJSON(struct {
				Input      string                      `json:"input"`
				Clean      analysis.CleanStats         `json:"clean"`
				KPIs       []analysis.KPI              `json:"kpis"`
				Categories []analysis.CategorySummary `json:"categories"`
			}{opts.InputPath, res.Stats, res.KPIs, res.Categories})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}

		fmt.Fprintf(out, "%s: %d rows loaded, %d after cleaning\n\n", opts.InputPath, res.RowsLoaded, res.Stats.Output)
		analysis.WriteKPIs(out, res.KPIs)
		fmt.Fprintln(out)
		analysis.WriteCategories(out, res.Categories)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspJSON, "json", false, "print the summary as JSON")
}
