package report

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/Veraticus/spice-harvester/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func testArtifacts() *service.Artifacts {
	return &service.Artifacts{
		GeneratedAt: time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC),
		RunID:       "run-123",
		Report: &model.ROIReport{
			TotalCost:    1000,
			TotalRevenue: 12345.5,
			TotalProfit:  11345.5,
			MeanROI:      175,
			MeanROAS:     2.5,
			BestChannel:  "Social",
			WorstChannel: "Email",
		},
		Campaigns: []model.EnrichedCampaign{
			{Campaign: model.CampaignRecord{Name: "Viral Push", Channel: "Social", Conversions: 10}},
			{Campaign: model.CampaignRecord{Name: "Spring Promo", Channel: "Email", Conversions: 5}},
		},
		Channels: []model.ChannelSummary{
			{
				Channel: "Social", Campaigns: 1, Rank: 1,
				TotalCost: 50, TotalRevenue: 200, TotalProfit: 150, MeanROI: 300,
			},
		},
		Customers: make([]model.SegmentedCustomer, 20),
		Segments: []model.SegmentProfile{
			{
				Segment: 0, Label: "High-Value Buyers", Customers: 12, Share: 60,
				FeatureMeans: map[string]float64{model.FeatureRevenue: 1000},
				FeatureSums:  map[string]float64{model.FeatureRevenue: 12000},
			},
			{
				Segment: 1, Label: "Deal Seekers", Customers: 8, Share: 40,
				FeatureMeans: map[string]float64{model.FeatureRevenue: 100},
				FeatureSums:  map[string]float64{model.FeatureRevenue: 800},
			},
		},
	}
}

func render(t *testing.T, cfg Config, artifacts *service.Artifacts) string {
	t.Helper()
	r, err := NewRenderer(cfg, testLogger())
	require.NoError(t, err)

	path, err := r.Render(context.Background(), artifacts)
	require.NoError(t, err)

	data, err := os.ReadFile(path) //nolint:gosec // test reads its own temp files
	require.NoError(t, err)
	return string(data)
}

func TestRender_WritesExecutiveSummary(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRenderer(Config{Dir: dir, Currency: "$"}, testLogger())
	require.NoError(t, err)

	path, err := r.Render(context.Background(), testArtifacts())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "executive_summary.html"), path)

	data, err := os.ReadFile(path) //nolint:gosec // test reads its own temp files
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<h1>Marketing Campaign Analysis</h1>")
	assert.Contains(t, html, "Report Generated: March 15, 2024")
	assert.Contains(t, html, "run-123")

	// Monetary values carry the currency prefix and thousands grouping.
	assert.Contains(t, html, "$12,345.50")
	assert.Contains(t, html, "$1,000.00")
	assert.Contains(t, html, "175.00%")
	assert.Contains(t, html, "2.50x")

	// Channel table and segment table rows.
	assert.Contains(t, html, "<td>Social</td>")
	assert.Contains(t, html, "300.00%")
	assert.Contains(t, html, "<td>High-Value Buyers</td>")
	assert.Contains(t, html, "$12,000.00")

	// Insights name the best channel and the largest segment.
	assert.Contains(t, html, "The Social channel demonstrates the highest mean ROI")
	assert.Contains(t, html, "20 customers fall into 2 segments")
	assert.Contains(t, html, "the largest, High-Value Buyers, holds 60.00%")
}

func TestRender_DefaultCurrencyIsRupees(t *testing.T) {
	html := render(t, Config{Dir: t.TempDir()}, testArtifacts())

	assert.Contains(t, html, "Rs.12,345.50")
	assert.Contains(t, html, "all monetary values in Rs.")
}

func TestRender_EmptyArtifacts(t *testing.T) {
	html := render(t, Config{Dir: t.TempDir(), Currency: "$"}, &service.Artifacts{RunID: "run-empty"})

	assert.Contains(t, html, "No data available")
	assert.Contains(t, html, "$0.00")
	assert.Contains(t, html, "run-empty")
	assert.NotContains(t, html, "Best Performing Channel")
}

func TestRender_EscapesChannelNames(t *testing.T) {
	artifacts := testArtifacts()
	artifacts.Channels[0].Channel = "R&D <Paid>"

	html := render(t, Config{Dir: t.TempDir(), Currency: "$"}, artifacts)

	assert.Contains(t, html, "R&amp;D &lt;Paid&gt;")
	assert.NotContains(t, html, "<Paid>")
}

func TestRender_CancelledContext(t *testing.T) {
	r, err := NewRenderer(Config{Dir: t.TempDir()}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, testArtifacts())
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRenderer_RequiresDir(t *testing.T) {
	_, err := NewRenderer(Config{}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
