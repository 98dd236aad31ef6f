package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/spf13/cobra"
)

func segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Segment customers by behavior",
		Long: `Run the customer branch of the pipeline and show the resulting
segment profiles.

Both branches execute, since they share one pass over the source; a
campaign-side failure is reported as a warning without blocking the
segmentation.`,
		RunE: runSegment,
	}
	return cmd
}

func runSegment(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println(cli.FormatTitle("👥 Customer segmentation")) //nolint:forbidigo // User-facing output

	result, cfg, err := runPipeline(ctx)
	if result == nil || len(result.Artifacts.Segments) == 0 {
		return err
	}
	if err != nil {
		fmt.Println(cli.FormatWarning("Campaign branch failed; segmentation results are complete.")) //nolint:forbidigo // User-facing output
		slog.Warn("Continuing without campaign artifacts", "error", err)
	}

	fmt.Println(cli.RenderSegmentTable(result.Artifacts.Segments, cfg.Segmentation.Features)) //nolint:forbidigo // User-facing output
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Segmented %d customers into %d segments (method: %s, k=%d)", //nolint:forbidigo // User-facing output
		result.Stats.CustomersCleaned, result.Stats.Segments,
		result.Artifacts.SegmentMethod, result.Stats.ChosenK)))
	return nil
}
