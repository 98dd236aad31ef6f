package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/spf13/cobra"
)

func roiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Analyze per-channel return on investment",
		Long: `Run the campaign branch of the pipeline and show the per-channel
rollup and the overall ROI report.

Both branches execute, since they share one pass over the source; a
customer-side failure is reported as a warning without blocking the
channel analysis.`,
		RunE: runROI,
	}
	return cmd
}

func runROI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println(cli.FormatTitle("📊 Channel ROI analysis")) //nolint:forbidigo // User-facing output

	result, _, err := runPipeline(ctx)
	if result == nil || result.Artifacts.Report == nil {
		return err
	}
	if err != nil {
		fmt.Println(cli.FormatWarning("Customer branch failed; channel results are complete.")) //nolint:forbidigo // User-facing output
		slog.Warn("Continuing without customer artifacts", "error", err)
	}

	fmt.Println(cli.RenderChannelTable(result.Artifacts.Channels)) //nolint:forbidigo // User-facing output
	fmt.Println(cli.RenderROIReport(*result.Artifacts.Report))     //nolint:forbidigo // User-facing output
	return nil
}
