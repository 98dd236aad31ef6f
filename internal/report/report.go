// Package report renders run artifacts into a static HTML executive
// summary for stakeholders who do not open the BI dashboard.
package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/Veraticus/spice-harvester/internal/service"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const reportFile = "executive_summary.html"

// Config holds the report destination and formatting options.
type Config struct {
	// Dir is the directory the report is written to. It is created if
	// it does not exist.
	Dir string

	// Currency prefixes every monetary value. Empty means "Rs.", the
	// unit the source spend data is denominated in.
	Currency string
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("report directory is required")
	}
	return nil
}

// Renderer implements the ReportRenderer interface with an embedded
// HTML template.
type Renderer struct {
	tmpl    *template.Template
	printer *message.Printer
	logger  *slog.Logger
	config  Config
}

// NewRenderer creates a new executive summary renderer.
func NewRenderer(config Config, logger *slog.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Currency == "" {
		config.Currency = "Rs."
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Renderer{
		config:  config,
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}

	funcMap := template.FuncMap{
		"currency": r.currency,
		"percent":  percent,
		"times":    times,
	}
	tmpl, err := template.New("executive_summary.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/executive_summary.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	r.tmpl = tmpl

	return r, nil
}

// Render implements the ReportRenderer interface. It writes the
// executive summary HTML file and returns its path.
func (r *Renderer) Render(ctx context.Context, artifacts *service.Artifacts) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "executive_summary.tmpl", r.buildView(artifacts)); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}

	if err := os.MkdirAll(r.config.Dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(r.config.Dir, reportFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	r.logger.Info("report rendered", "path", path, "bytes", buf.Len())
	return path, nil
}

// reportView is the data fed to the executive summary template.
type reportView struct {
	GeneratedAt string
	RunID       string
	Currency    string
	Metrics     []metricCard
	Channels    []model.ChannelSummary
	Segments    []model.SegmentProfile
	Insights    []insight
}

type metricCard struct {
	Label string
	Value string
}

type insight struct {
	Heading string
	Body    string
}

func (r *Renderer) buildView(artifacts *service.Artifacts) reportView {
	rep := artifacts.Report
	if rep == nil {
		rep = &model.ROIReport{}
	}

	var conversions int64
	for i := range artifacts.Campaigns {
		conversions += artifacts.Campaigns[i].Campaign.Conversions
	}

	return reportView{
		GeneratedAt: artifacts.GeneratedAt.Format("January 2, 2006"),
		RunID:       artifacts.RunID,
		Currency:    r.config.Currency,
		Channels:    artifacts.Channels,
		Segments:    artifacts.Segments,
		Metrics: []metricCard{
			{Label: "Total Cost", Value: r.currency(rep.TotalCost)},
			{Label: "Total Revenue", Value: r.currency(rep.TotalRevenue)},
			{Label: "Total Profit", Value: r.currency(rep.TotalProfit)},
			{Label: "Average ROI", Value: percent(rep.MeanROI)},
			{Label: "Average ROAS", Value: times(rep.MeanROAS)},
			{Label: "Campaigns", Value: strconv.Itoa(len(artifacts.Campaigns))},
			{Label: "Conversions", Value: strconv.FormatInt(conversions, 10)},
		},
		Insights: r.buildInsights(rep, artifacts),
	}
}

func (r *Renderer) buildInsights(rep *model.ROIReport, artifacts *service.Artifacts) []insight {
	insights := []insight{
		{
			Heading: "Overall Performance",
			Body: fmt.Sprintf("Total revenue of %s generated from an investment of %s, resulting in a profit of %s.",
				r.currency(rep.TotalRevenue), r.currency(rep.TotalCost), r.currency(rep.TotalProfit)),
		},
	}

	if rep.BestChannel != "" {
		insights = append(insights, insight{
			Heading: "Best Performing Channel",
			Body: fmt.Sprintf("The %s channel demonstrates the highest mean ROI and should be prioritized for budget allocation.",
				rep.BestChannel),
		})
	}

	insights = append(insights, insight{
		Heading: "Average Return Metrics",
		Body: fmt.Sprintf("Average ROI of %s and ROAS of %s across all campaigns.",
			percent(rep.MeanROI), times(rep.MeanROAS)),
	})

	if len(artifacts.Segments) > 0 {
		largest := artifacts.Segments[0]
		for _, s := range artifacts.Segments[1:] {
			if s.Customers > largest.Customers {
				largest = s
			}
		}
		insights = append(insights, insight{
			Heading: "Customer Segments",
			Body: fmt.Sprintf("%d customers fall into %d segments; the largest, %s, holds %s of the base.",
				len(artifacts.Customers), len(artifacts.Segments), largest.Label, percent(largest.Share)),
		})
	}

	insights = append(insights, insight{
		Heading: "Recommendations",
		Body:    "Focus marketing efforts on high-performing channels, optimize underperforming campaigns, and consider reallocating budget from low-ROI channels.",
	})

	return insights
}

func (r *Renderer) currency(v float64) string {
	return r.config.Currency + r.printer.Sprintf("%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func times(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}
