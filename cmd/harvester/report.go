package main

import (
	"fmt"

	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the HTML executive summary",
		Long: `Run the pipeline and render a static HTML executive summary of
channel performance and customer segments for stakeholders.

The report requires a fully successful run.`,
		RunE: runReport,
	}

	// Flags
	cmd.Flags().String("currency", "", "Currency prefix for monetary values (default Rs.)")

	// Bind to viper
	_ = viper.BindPFlag("report.currency", cmd.Flags().Lookup("currency"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println(cli.FormatTitle("📝 Executive summary")) //nolint:forbidigo // User-facing output

	result, cfg, err := runPipeline(ctx)
	if err != nil {
		return err
	}

	return writeReport(ctx, cfg, result)
}
