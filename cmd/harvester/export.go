package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/Veraticus/spice-harvester/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write dashboard-ready CSV files",
		Long: `Run the pipeline and write the enriched campaign, channel,
customer segment, and segment profile tables as delimited files, plus a
JSON manifest describing them.

Exports require a fully successful run; use 'harvester run' to inspect
partial results when one branch fails.`,
		RunE: runExport,
	}

	// Flags
	cmd.Flags().String("dir", "", "Directory for export files (defaults to output.export_dir)")
	cmd.Flags().String("delimiter", ",", "Field delimiter for export files")

	// Bind to viper
	_ = viper.BindPFlag("output.export_dir", cmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("export.delimiter", cmd.Flags().Lookup("delimiter"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println(cli.FormatTitle("📤 Exporting dashboard files")) //nolint:forbidigo // User-facing output

	result, cfg, err := runPipeline(ctx)
	if err != nil {
		return err
	}

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
	for _, path := range paths {
		fmt.Println(cli.FormatSuccess("Wrote " + path)) //nolint:forbidigo // User-facing output
	}
	return nil
}
