package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/clean"
	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/Veraticus/spice-harvester/internal/export"
	"github.com/Veraticus/spice-harvester/internal/pipeline"
	"github.com/Veraticus/spice-harvester/internal/validate"
	"github.com/spf13/cobra"
)

func cleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Validate and clean source records",
		Long: `Run the validation and cleaning stages only, writing the cleaned
tables to the processed-data directory for inspection.

Rows are deduplicated, channels canonicalized, and missing values
imputed exactly as a full run would; no metrics are derived and no
segments are built.`,
		RunE: runClean,
	}
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	src, cfg, err := openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource(src)

	opts := clean.Options{
		OutlierIQRMultiplier:   cfg.Cleaning.OutlierIQRMultiplier,
		SkipErrors:             cfg.Pipeline.SkipErrors,
		CoerceUnmappedChannels: cfg.Pipeline.CoerceUnmappedChannels,
	}

	campaignTable, err := src.LoadCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("failed to load campaigns: %w", err)
	}
	campaignOpts := opts
	campaignOpts.Exclusions, err = pipeline.ResolveValidation(validate.Campaigns(campaignTable), cfg.Pipeline.SkipErrors)
	if err != nil {
		return err
	}
	campaigns, err := clean.Campaigns(campaignTable, campaignOpts)
	if err != nil {
		return err
	}

	customerTable, err := src.LoadCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	customerOpts := opts
	customerOpts.Exclusions, err = pipeline.ResolveValidation(validate.Customers(customerTable), cfg.Pipeline.SkipErrors)
	if err != nil {
		return err
	}
	customers, err := clean.Customers(customerTable, customerOpts)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderQualityReport(campaigns.Report)) //nolint:forbidigo // User-facing output
	fmt.Println(cli.RenderQualityReport(customers.Report)) //nolint:forbidigo // User-facing output

	writer, err := export.NewWriter(export.Config{
		Dir:       cfg.Output.ProcessedDir,
		Delimiter: []rune(cfg.Export.Delimiter)[0],
	}, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	paths, err := writer.WriteCleaned(ctx, campaigns.Records, customers.Records)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Println(cli.FormatSuccess("Wrote " + path)) //nolint:forbidigo // User-facing output
	}
	return nil
}
