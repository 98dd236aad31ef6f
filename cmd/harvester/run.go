package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/Veraticus/spice-harvester/internal/config"
	"github.com/Veraticus/spice-harvester/internal/export"
	"github.com/Veraticus/spice-harvester/internal/pipeline"
	"github.com/Veraticus/spice-harvester/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full harvest pipeline",
		Long: `Validate, clean, and enrich campaign and customer records, then write
every downstream artifact in one pass.

The campaign and customer branches are independent: a fatal error on one
side still produces the other side's results in full. Dashboard exports
and the HTML executive report are only written when both branches succeed.

Examples:
  harvester run                  # Full run with exports and report
  harvester run --skip-errors    # Exclude rule-violating rows instead of aborting
  harvester run --export=false   # Skip the dashboard CSV files`,
		RunE: runRun,
	}

	// Flags
	cmd.Flags().Bool("export", true, "Write dashboard CSV files after the run")
	cmd.Flags().Bool("report", true, "Render the HTML executive summary after the run")

	// Bind to viper
	_ = viper.BindPFlag("run.export", cmd.Flags().Lookup("export"))
	_ = viper.BindPFlag("run.report", cmd.Flags().Lookup("report"))

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println(cli.FormatTitle("🌶️  Harvesting the spice...")) //nolint:forbidigo // User-facing output

	result, cfg, err := runPipeline(ctx)
	if result != nil {
		printRunResult(result, cfg)
	}
	if err != nil {
		fmt.Println(cli.FormatError("Pipeline finished with errors; exports and report were skipped.")) //nolint:forbidigo // User-facing output
		return err
	}

	if viper.GetBool("run.export") {
		if exportErr := writeExports(ctx, cfg, result); exportErr != nil {
			return exportErr
		}
	}
	if viper.GetBool("run.report") {
		if reportErr := writeReport(ctx, cfg, result); reportErr != nil {
			return reportErr
		}
	}

	fmt.Println(cli.FormatSuccess("Harvest complete!")) //nolint:forbidigo // User-facing output
	return nil
}

// printRunResult renders whatever the run produced, which may be one
// branch's artifacts on a partial failure.
func printRunResult(result *pipeline.Result, cfg config.Config) {
	fmt.Println(cli.RenderRunSummary(result.Stats)) //nolint:forbidigo // User-facing output
	if len(result.Artifacts.Channels) > 0 {
		fmt.Println(cli.RenderChannelTable(result.Artifacts.Channels)) //nolint:forbidigo // User-facing output
	}
	if len(result.Artifacts.Segments) > 0 {
		fmt.Println(cli.RenderSegmentTable(result.Artifacts.Segments, cfg.Segmentation.Features)) //nolint:forbidigo // User-facing output
	}
}

func writeExports(ctx context.Context, cfg config.Config, result *pipeline.Result) error {
	writer, err := export.NewWriter(export.Config{
		Dir:       cfg.Output.ExportDir,
		Delimiter: []rune(cfg.Export.Delimiter)[0],
		Features:  cfg.Segmentation.Features,
	}, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	paths, err := writer.Write(ctx, result.Artifacts)
	if err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d dashboard files to %s", len(paths), cfg.Output.ExportDir))) //nolint:forbidigo // User-facing output
	return nil
}

func writeReport(ctx context.Context, cfg config.Config, result *pipeline.Result) error {
	renderer, err := report.NewRenderer(report.Config{
		Dir:      cfg.Output.ReportsDir,
		Currency: viper.GetString("report.currency"),
	}, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create report renderer: %w", err)
	}

	path, err := renderer.Render(ctx, result.Artifacts)
	if err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess("Executive report written to " + path)) //nolint:forbidigo // User-facing output
	return nil
}
