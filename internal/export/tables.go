package export

import (
	"sort"
	"strconv"

	"github.com/Veraticus/spice-harvester/internal/derive"
	"github.com/Veraticus/spice-harvester/internal/model"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatOptInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func campaignHeader() []string {
	return []string{
		"campaign_name", "channel", "date", "cost", "impressions", "clicks",
		"conversions", "revenue", "ctr", "conversion_rate", "cpc", "cpa",
		"roas", "roi", "profit", "conversion_value", "cost_outlier",
		"ROI_Category", "Revenue_Tier", "Conversion_Category",
	}
}

func campaignRows(campaigns []model.EnrichedCampaign) [][]string {
	revenues := make([]float64, len(campaigns))
	for i := range campaigns {
		revenues[i] = campaigns[i].Campaign.Revenue
	}
	tiers := rankTiers(revenues, revenueTierLabels)

	rows := make([][]string, 0, len(campaigns))
	for i := range campaigns {
		c := &campaigns[i].Campaign
		m := &campaigns[i].Metrics
		rows = append(rows, []string{
			c.Name,
			c.Channel,
			c.Date.Format("2006-01-02"),
			formatFloat(c.Cost),
			formatInt(c.Impressions),
			formatInt(c.Clicks),
			formatInt(c.Conversions),
			formatFloat(c.Revenue),
			formatFloat(m.CTR),
			formatFloat(m.ConversionRate),
			formatFloat(m.CPC),
			formatFloat(m.CPA),
			formatFloat(m.ROAS),
			formatFloat(m.ROI),
			formatFloat(m.Profit),
			formatFloat(m.ConversionValue),
			strconv.FormatBool(c.CostOutlier),
			roiCategory(m.ROI),
			tiers[i],
			conversionCategory(m.ConversionRate),
		})
	}
	return rows
}

func channelHeader() []string {
	return []string{
		"rank", "channel", "campaigns", "total_cost", "total_revenue",
		"total_profit", "total_impressions", "total_clicks", "total_conversions",
		"mean_roi", "mean_roas", "mean_ctr", "mean_conversion_rate",
		"overall_ctr", "overall_conversion_rate", "profit_contribution",
		"Revenue_Market_Share_%", "Revenue_Rank",
	}
}

func channelRows(channels []model.ChannelSummary) [][]string {
	var totalRevenue float64
	for _, ch := range channels {
		totalRevenue += ch.TotalRevenue
	}
	ranks := revenueRanks(channels)

	rows := make([][]string, 0, len(channels))
	for i, ch := range channels {
		share := 0.0
		if totalRevenue != 0 {
			share = derive.Round2(ch.TotalRevenue / totalRevenue * 100)
		}
		rows = append(rows, []string{
			strconv.Itoa(ch.Rank),
			ch.Channel,
			strconv.Itoa(ch.Campaigns),
			formatFloat(ch.TotalCost),
			formatFloat(ch.TotalRevenue),
			formatFloat(ch.TotalProfit),
			formatInt(ch.TotalImpressions),
			formatInt(ch.TotalClicks),
			formatInt(ch.TotalConversions),
			formatFloat(ch.MeanROI),
			formatFloat(ch.MeanROAS),
			formatFloat(ch.MeanCTR),
			formatFloat(ch.MeanConversionRate),
			formatFloat(ch.OverallCTR),
			formatFloat(ch.OverallConvRate),
			formatFloat(ch.ProfitContribution),
			formatFloat(share),
			strconv.Itoa(ranks[i]),
		})
	}
	return rows
}

// revenueRanks ranks channels by total revenue descending, ties keeping
// summary order.
func revenueRanks(channels []model.ChannelSummary) []int {
	idx := make([]int, len(channels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return channels[idx[a]].TotalRevenue > channels[idx[b]].TotalRevenue
	})
	ranks := make([]int, len(channels))
	for pos, i := range idx {
		ranks[i] = pos + 1
	}
	return ranks
}

func customerHeader() []string {
	return []string{
		"customer_id", "age", "gender", "country", "sessions",
		"avg_session_duration", "pages_per_session", "transactions", "revenue",
		"segment", "segment_label", "Customer_Value", "Engagement_Level",
	}
}

func customerRows(customers []model.SegmentedCustomer) [][]string {
	// Value tiers rank only customers with an observed revenue; the rest
	// get an empty category.
	values := make([]float64, 0, len(customers))
	positions := make([]int, 0, len(customers))
	for i := range customers {
		if r := customers[i].Customer.Revenue; r != nil {
			values = append(values, *r)
			positions = append(positions, i)
		}
	}
	tiers := rankTiers(values, customerValueLabels)
	valueTier := make([]string, len(customers))
	for j, i := range positions {
		valueTier[i] = tiers[j]
	}

	rows := make([][]string, 0, len(customers))
	for i := range customers {
		c := &customers[i].Customer
		engagement := ""
		if c.AvgSessionDuration != nil {
			engagement = engagementLevel(*c.AvgSessionDuration)
		}
		rows = append(rows, []string{
			formatInt(c.ID),
			formatOptInt(c.Age),
			c.Gender,
			c.Country,
			formatOptInt(c.Sessions),
			formatOptFloat(c.AvgSessionDuration),
			formatOptFloat(c.PagesPerSession),
			formatOptInt(c.Transactions),
			formatOptFloat(c.Revenue),
			strconv.Itoa(customers[i].Segment),
			customers[i].Label,
			valueTier[i],
			engagement,
		})
	}
	return rows
}

func profileHeader(features []string) []string {
	header := []string{"segment", "label", "customers", "share_pct", "degenerate"}
	header = append(header, features...)
	return append(header, "total_revenue")
}

func profileRows(profiles []model.SegmentProfile, features []string) [][]string {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		row := []string{
			strconv.Itoa(p.Segment),
			p.Label,
			strconv.Itoa(p.Customers),
			formatFloat(p.Share),
			strconv.FormatBool(p.Degenerate),
		}
		for _, f := range features {
			row = append(row, formatFloat(p.FeatureMeans[f]))
		}
		row = append(row, formatFloat(p.FeatureSums[model.FeatureRevenue]))
		rows = append(rows, row)
	}
	return rows
}
