// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/Veraticus/spice-harvester/internal/service"
)

// RenderRunSummary renders the completion box shown after a full run.
func RenderRunSummary(stats service.RunStats) string {
	summary := fmt.Sprintf("%s Pipeline Complete!\n\n", SpiceIcon) +
		fmt.Sprintf("%s Statistics:\n", ChartIcon) +
		fmt.Sprintf("  • Campaigns loaded: %d\n", stats.CampaignsLoaded) +
		fmt.Sprintf("  • Campaigns cleaned: %d (%d dropped)\n", stats.CampaignsCleaned, stats.CampaignsDropped) +
		fmt.Sprintf("  • Customers loaded: %d\n", stats.CustomersLoaded) +
		fmt.Sprintf("  • Customers segmented: %d into %d segments\n", stats.CustomersCleaned, stats.Segments) +
		fmt.Sprintf("  • Channels ranked: %d\n", stats.Channels) +
		fmt.Sprintf("  • Time taken: %s\n", stats.Duration.Round(time.Millisecond))

	return RenderBox("Run "+stats.RunID, summary)
}

// RenderQualityReport renders a post-cleaning data quality box for one
// record set.
func RenderQualityReport(report model.QualityReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Records: %d total, %d dropped\n", report.TotalRecords, report.DroppedRecords)
	fmt.Fprintf(&b, "Duplicates removed: %d\n", report.DuplicatesFound)
	fmt.Fprintf(&b, "Outliers flagged: %d\n", report.OutliersFlagged)
	if report.UnmappedValues > 0 {
		fmt.Fprintf(&b, "Unmapped channel values: %d\n", report.UnmappedValues)
	}

	if len(report.MissingByColumn) > 0 {
		cols := make([]string, 0, len(report.MissingByColumn))
		for col := range report.MissingByColumn {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		b.WriteString("\nMissing values by column:\n")
		for _, col := range cols {
			fmt.Fprintf(&b, "  • %s: %d\n", col, report.MissingByColumn[col])
		}
	}

	if len(report.NumericStats) > 0 {
		b.WriteString("\nNumeric columns:\n")
		for _, s := range report.NumericStats {
			fmt.Fprintf(&b, "  • %s: mean %.2f, stddev %.2f, range [%.2f, %.2f]\n",
				s.Column, s.Mean, s.StdDev, s.Min, s.Max)
		}
	}

	return RenderBox(fmt.Sprintf("%s data quality", report.Entity), b.String())
}

// RenderChannelTable renders the per-channel ROI rollup as a text table.
func RenderChannelTable(channels []model.ChannelSummary) string {
	header := []string{"Rank", "Channel", "Campaigns", "Cost", "Revenue", "Profit", "Mean ROI", "Mean ROAS"}
	rows := make([][]string, 0, len(channels))
	for _, ch := range channels {
		rows = append(rows, []string{
			fmt.Sprintf("%d", ch.Rank),
			ch.Channel,
			fmt.Sprintf("%d", ch.Campaigns),
			fmt.Sprintf("$%.2f", ch.TotalCost),
			fmt.Sprintf("$%.2f", ch.TotalRevenue),
			fmt.Sprintf("$%.2f", ch.TotalProfit),
			fmt.Sprintf("%.2f%%", ch.MeanROI),
			fmt.Sprintf("%.2f", ch.MeanROAS),
		})
	}
	return renderTable(header, rows)
}

// RenderROIReport renders the run-level ROI rollup box.
func RenderROIReport(rep model.ROIReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total cost:    $%.2f\n", rep.TotalCost)
	fmt.Fprintf(&b, "Total revenue: $%.2f\n", rep.TotalRevenue)
	fmt.Fprintf(&b, "Total profit:  $%.2f\n", rep.TotalProfit)
	fmt.Fprintf(&b, "Mean ROI:      %.2f%%\n", rep.MeanROI)
	fmt.Fprintf(&b, "Mean ROAS:     %.2f\n", rep.MeanROAS)
	if rep.BestChannel != "" {
		fmt.Fprintf(&b, "\nBest channel:  %s\n", rep.BestChannel)
		fmt.Fprintf(&b, "Worst channel: %s\n", rep.WorstChannel)
	}
	if len(rep.TopCampaigns) > 0 {
		b.WriteString("\nTop campaigns by ROI:\n")
		for _, c := range rep.TopCampaigns {
			fmt.Fprintf(&b, "  • %s (%s): %.2f%%\n", c.Name, c.Channel, c.ROI)
		}
	}
	if len(rep.BottomCampaigns) > 0 {
		b.WriteString("\nBottom campaigns by ROI:\n")
		for _, c := range rep.BottomCampaigns {
			fmt.Fprintf(&b, "  • %s (%s): %.2f%%\n", c.Name, c.Channel, c.ROI)
		}
	}
	return RenderBox("ROI Report", b.String())
}

// RenderSegmentTable renders segment profiles as a text table. Feature
// columns follow the given order.
func RenderSegmentTable(profiles []model.SegmentProfile, features []string) string {
	header := []string{"Segment", "Label", "Customers", "Share"}
	header = append(header, features...)

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		row := []string{
			fmt.Sprintf("%d", p.Segment),
			p.Label,
			fmt.Sprintf("%d", p.Customers),
			fmt.Sprintf("%.1f%%", p.Share),
		}
		for _, f := range features {
			row = append(row, fmt.Sprintf("%.2f", p.FeatureMeans[f]))
		}
		rows = append(rows, row)
	}
	return renderTable(header, rows)
}

// renderTable lays out rows under a styled header with aligned columns.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			parts = append(parts, style.Width(widths[i]+2).Render(cell))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(header, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, renderRow(row, TableCellStyle))
	}
	return strings.Join(lines, "\n")
}

// NewProgressBar builds a progress bar with the house theme.
func NewProgressBar(total int, description string, writer io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}
