package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// CampaignRecord represents a single cleaned marketing campaign row.
type CampaignRecord struct {
	Date        time.Time
	Name        string
	Channel     string
	Cost        float64
	Revenue     float64
	Impressions int64
	Clicks      int64
	Conversions int64

	// CostOutlier marks rows whose cost falls outside the IQR fences.
	// Flagged rows are retained; the flag is advisory.
	CostOutlier bool
}

// GenerateHash creates a unique hash for duplicate detection. Two rows
// with the same campaign name and date are the same logical campaign.
func (c *CampaignRecord) GenerateHash() string {
	data := fmt.Sprintf("%s:%s",
		c.Name,
		c.Date.Format("2006-01-02"))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// CampaignMetrics holds the derived performance columns for one campaign.
// All values are rounded to two decimal places for reporting.
type CampaignMetrics struct {
	CTR             float64 // clicks / impressions * 100
	ConversionRate  float64 // conversions / clicks * 100
	CPC             float64 // cost / clicks
	CPA             float64 // cost / conversions
	ROAS            float64 // revenue / cost
	ROI             float64 // (revenue - cost) / cost * 100
	Profit          float64 // revenue - cost
	ConversionValue float64 // revenue / conversions
}

// EnrichedCampaign is a campaign record together with its derived metrics.
type EnrichedCampaign struct {
	Campaign CampaignRecord
	Metrics  CampaignMetrics
}
