package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCleaned(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Config{Dir: dir}, testLogger())
	require.NoError(t, err)

	campaigns := []model.CampaignRecord{
		{
			Name:        "Spring Promo",
			Channel:     "Email",
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Cost:        100,
			Impressions: 1000,
			Clicks:      100,
			Conversions: 10,
			Revenue:     150,
			CostOutlier: true,
		},
	}
	customers := []model.CustomerRecord{
		{ID: 7, Age: intPtr(31), Gender: "F", Country: "CANADA", Revenue: floatPtr(99.5)},
	}

	paths, err := w.WriteCleaned(context.Background(), campaigns, customers)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], "clean_campaign_data.csv"))
	assert.True(t, strings.HasSuffix(paths[1], "clean_customer_data.csv"))

	campaignRecords := readCSV(t, paths[0], ',')
	require.Len(t, campaignRecords, 2)
	assert.Equal(t, []string{
		"campaign_name", "channel", "date", "cost", "impressions", "clicks",
		"conversions", "revenue", "cost_outlier",
	}, campaignRecords[0])
	assert.Equal(t, []string{
		"Spring Promo", "Email", "2024-03-01", "100", "1000", "100", "10", "150", "true",
	}, campaignRecords[1])

	// Absent optional fields stay empty rather than becoming zeros.
	customerRecords := readCSV(t, paths[1], ',')
	require.Len(t, customerRecords, 2)
	assert.Equal(t, []string{"7", "31", "F", "CANADA", "", "", "", "", "99.5"}, customerRecords[1])
}

func TestWriteCleaned_CancelledContext(t *testing.T) {
	w, err := NewWriter(Config{Dir: t.TempDir()}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	written, err := w.WriteCleaned(ctx, nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, written)
}
