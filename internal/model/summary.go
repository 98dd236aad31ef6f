package model

// ChannelSummary is the per-channel rollup of enriched campaign metrics.
// Mean* columns average the per-campaign derived values; Overall* rates are
// recomputed from channel totals and can differ when campaign volumes vary.
type ChannelSummary struct {
	Channel            string
	Campaigns          int
	TotalCost          float64
	TotalRevenue       float64
	TotalProfit        float64
	TotalImpressions   int64
	TotalClicks        int64
	TotalConversions   int64
	MeanROI            float64
	MeanROAS           float64
	MeanCTR            float64
	MeanConversionRate float64
	OverallCTR         float64
	OverallConvRate    float64

	// ProfitContribution is this channel's share of total profit across
	// all channels, in percent. Zero when total profit is zero.
	ProfitContribution float64

	// Rank orders channels by mean ROI descending, 1 = best. Ties break
	// by higher total revenue, then channel name ascending.
	Rank int
}

// CampaignROI is one row of the ROI report's best or worst campaign lists.
type CampaignROI struct {
	Name    string
	Channel string
	Cost    float64
	Revenue float64
	ROI     float64
}

// ROIReport is the run-level rollup across every enriched campaign.
type ROIReport struct {
	TotalCost    float64
	TotalRevenue float64
	TotalProfit  float64
	MeanROI      float64
	MeanROAS     float64

	// BestChannel and WorstChannel name the first- and last-ranked
	// channels; both are empty when nothing was aggregated.
	BestChannel  string
	WorstChannel string

	TopCampaigns    []CampaignROI
	BottomCampaigns []CampaignROI
}
