package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bizreport-cli/internal/analysis"
	"github.com/KaramelBytes/bizreport-cli/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect run manifests written with --manifest",
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a recorded run (default: configured manifest_path)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.ManifestPath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no manifest given and manifest_path is not set")
		}
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run_id: %s\n", m.RunID)
		fmt.Fprintf(out, "input: %s\n", m.Input)
		fmt.Fprintf(out, "started: %s (took %s)\n", m.StartedAt.Format(time.RFC3339), m.FinishedAt.Sub(m.StartedAt).Round(time.Millisecond))
		fmt.Fprintf(out, "rows: %d loaded, %d duplicates removed, %d values filled, %d negative sales dropped, %d kept\n",
			m.RowsLoaded, m.Clean.DuplicatesRemoved, m.Clean.ValuesFilled, m.Clean.NegativeDropped, m.Clean.Output)
		for _, w := range m.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		fmt.Fprintln(out)
		analysis.WriteKPIs(out, m.KPIs)
		fmt.Fprintln(out)
		if len(m.Flagged) == 0 {
			fmt.Fprintf(out, "flagged (margin < %.2f%%): none\n", m.Threshold)
		} else {
			fmt.Fprintf(out, "flagged (margin < %.2f%%): %s\n", m.Threshold, strings.Join(m.Flagged, ", "))
		}
		fmt.Fprintf(out, "chart: %s\nreport: %s\n", m.Outputs.Chart, m.Outputs.Report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.AddCommand(manifestShowCmd)
}
