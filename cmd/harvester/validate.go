package main

import (
	"fmt"

	"github.com/Veraticus/spice-harvester/internal/cli"
	"github.com/Veraticus/spice-harvester/internal/validate"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check source records against the store contract",
		Long: `Load campaign and customer records and report schema issues and
business-rule violations without changing anything.

Schema issues (missing or unparseable columns) are fatal for any later
run. Rule violations list the exact rows a --skip-errors run would
exclude. The command exits non-zero when either kind of problem exists,
so it can gate data drops in automation.`,
		RunE: runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	src, _, err := openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSource(src)

	campaignTable, err := src.LoadCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("failed to load campaigns: %w", err)
	}
	campaignsOK := printValidation(validate.Campaigns(campaignTable))

	customerTable, err := src.LoadCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}
	customersOK := printValidation(validate.Customers(customerTable))

	if !campaignsOK || !customersOK {
		return fmt.Errorf("validation found problems")
	}
	fmt.Println(cli.FormatSuccess("All records pass validation")) //nolint:forbidigo // User-facing output
	return nil
}

// printValidation renders one entity's validation outcome and reports
// whether the record set was clean.
func printValidation(res validate.Result) bool {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("📋 Validating %s records", res.Entity))) //nolint:forbidigo // User-facing output

	for _, issue := range res.Issues {
		fmt.Println(cli.FormatError(fmt.Sprintf("Schema: column %q: %s", issue.Column, issue.Reason))) //nolint:forbidigo // User-facing output
	}
	for _, v := range res.Violations {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Rule %s: %s: %s", v.Rule, v.Identity, v.Detail))) //nolint:forbidigo // User-facing output
	}

	if res.SchemaOK() && res.RulesOK() {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d rows checked, no problems found", res.RowsChecked))) //nolint:forbidigo // User-facing output
		return true
	}
	fmt.Println(cli.FormatError(fmt.Sprintf("%d rows checked: %d schema issues, %d rule violations", //nolint:forbidigo // User-facing output
		res.RowsChecked, len(res.Issues), len(res.Violations))))
	return false
}
