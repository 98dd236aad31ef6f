package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/spice-harvester/internal/model"
)

// Cleaned-table file names.
const (
	cleanCampaignFile = "clean_campaign_data.csv"
	cleanCustomerFile = "clean_customer_data.csv"
)

// WriteCleaned writes the cleaned campaign and customer tables as they
// stand before derivation and segmentation. Analysts use these to
// inspect what the cleaner changed without rerunning downstream stages.
func (w *Writer) WriteCleaned(ctx context.Context, campaigns []model.CampaignRecord, customers []model.CustomerRecord) ([]string, error) {
	if err := os.MkdirAll(w.config.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	tables := []exportTable{
		{cleanCampaignFile, cleanCampaignHeader(), cleanCampaignRows(campaigns)},
		{cleanCustomerFile, cleanCustomerHeader(), cleanCustomerRows(customers)},
	}

	written := make([]string, 0, len(tables))
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := filepath.Join(w.config.Dir, table.name)
		if err := w.writeCSV(path, table.header, table.rows); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", table.name, err)
		}
		written = append(written, path)
		w.logger.Info("wrote cleaned table", "file", table.name, "rows", len(table.rows))
	}
	return written, nil
}

func cleanCampaignHeader() []string {
	return []string{
		"campaign_name", "channel", "date", "cost", "impressions", "clicks",
		"conversions", "revenue", "cost_outlier",
	}
}

func cleanCampaignRows(campaigns []model.CampaignRecord) [][]string {
	rows := make([][]string, len(campaigns))
	for i, c := range campaigns {
		rows[i] = []string{
			c.Name,
			c.Channel,
			c.Date.Format("2006-01-02"),
			formatFloat(c.Cost),
			formatInt(c.Impressions),
			formatInt(c.Clicks),
			formatInt(c.Conversions),
			formatFloat(c.Revenue),
			strconv.FormatBool(c.CostOutlier),
		}
	}
	return rows
}

func cleanCustomerHeader() []string {
	return []string{
		"customer_id", "age", "gender", "country", "sessions",
		"avg_session_duration", "pages_per_session", "transactions", "revenue",
	}
}

func cleanCustomerRows(customers []model.CustomerRecord) [][]string {
	rows := make([][]string, len(customers))
	for i, c := range customers {
		rows[i] = []string{
			formatInt(c.ID),
			formatOptInt(c.Age),
			c.Gender,
			c.Country,
			formatOptInt(c.Sessions),
			formatOptFloat(c.AvgSessionDuration),
			formatOptFloat(c.PagesPerSession),
			formatOptInt(c.Transactions),
			formatOptFloat(c.Revenue),
		}
	}
	return rows
}
