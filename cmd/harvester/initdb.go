package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/Veraticus/spice-harvester/internal/dataset"
	"github.com/Veraticus/spice-harvester/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// insertChunkSize limits the rows per insert batch so the progress bar
// moves at a useful granularity.
const insertChunkSize = 50

func initdbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the source store schema",
		Long: `Create the campaigns and customers tables in the configured source
store, optionally seeding them with reproducible demo data.

Schema creation is only supported for the sqlite3 driver; MySQL and
Postgres stores are expected to be provisioned by their owners.

Examples:
  harvester initdb                       # Create empty tables
  harvester initdb --demo                # Seed 60 campaigns, 400 customers
  harvester initdb --demo --seed 7       # Different reproducible dataset`,
		RunE: runInitdb,
	}

	// Flags
	cmd.Flags().Bool("demo", false, "Seed the store with generated demo data")
	cmd.Flags().Int64("seed", 42, "Random seed for demo data")
	cmd.Flags().Int("campaigns", 60, "Number of demo campaign rows")
	cmd.Flags().Int("customers", 400, "Number of demo customer rows")

	// Bind to viper
	_ = viper.BindPFlag("initdb.demo", cmd.Flags().Lookup("demo"))
	_ = viper.BindPFlag("initdb.seed", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("initdb.campaigns", cmd.Flags().Lookup("campaigns"))
	_ = viper.BindPFlag("initdb.customers", cmd.Flags().Lookup("customers"))

	return cmd
}

func runInitdb(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	src, cfg, err := openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource(src)

	if err := src.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	fmt.Println(cli.FormatSuccess("Schema ready in " + cfg.Database.DSN)) //nolint:forbidigo // User-facing output

	if !viper.GetBool("initdb.demo") {
		return nil
	}

	campaignRows, customerRows := storage.DemoRows(
		viper.GetInt64("initdb.seed"),
		viper.GetInt("initdb.campaigns"),
		viper.GetInt("initdb.customers"))

	bar := cli.NewProgressBar(len(campaignRows)+len(customerRows), "Seeding demo data", os.Stderr)
	if err := insertChunked(ctx, src.InsertCampaigns, campaignRows, bar.Add); err != nil {
		return fmt.Errorf("failed to seed campaigns: %w", err)
	}
	if err := insertChunked(ctx, src.InsertCustomers, customerRows, bar.Add); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}
	_ = bar.Finish()

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Seeded %d campaigns and %d customers", //nolint:forbidigo // User-facing output
		len(campaignRows), len(customerRows))))
	return nil
}

func insertChunked(ctx context.Context, insert func(context.Context, []dataset.Row) error, rows []dataset.Row, progress func(int) error) error {
	for start := 0; start < len(rows); start += insertChunkSize {
		end := min(start+insertChunkSize, len(rows))
		if err := insert(ctx, rows[start:end]); err != nil {
			return err
		}
		_ = progress(end - start)
	}
	return nil
}
