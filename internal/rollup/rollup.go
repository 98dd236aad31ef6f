// Package rollup reduces metric-enriched campaigns into the per-channel
// summary table and the run-level performance report.
package rollup

import (
	"sort"

	"github.com/Veraticus/spice-harvester/internal/derive"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// channelAccum collects running totals for one channel while grouping.
type channelAccum struct {
	campaigns   int
	cost        float64
	revenue     float64
	profit      float64
	impressions int64
	clicks      int64
	conversions int64
	roiSum      float64
	roasSum     float64
	ctrSum      float64
	convSum     float64
}

// Channels groups enriched campaigns by channel and produces one summary
// row per channel, ordered by rank. Mean columns average the per-campaign
// derived values; the Overall rates are recomputed from channel totals.
func Channels(campaigns []model.EnrichedCampaign) []model.ChannelSummary {
	var order []string
	accums := make(map[string]*channelAccum)
	for i := range campaigns {
		c := &campaigns[i]
		acc, ok := accums[c.Campaign.Channel]
		if !ok {
			acc = &channelAccum{}
			accums[c.Campaign.Channel] = acc
			order = append(order, c.Campaign.Channel)
		}
		acc.campaigns++
		acc.cost += c.Campaign.Cost
		acc.revenue += c.Campaign.Revenue
		acc.profit += c.Metrics.Profit
		acc.impressions += c.Campaign.Impressions
		acc.clicks += c.Campaign.Clicks
		acc.conversions += c.Campaign.Conversions
		acc.roiSum += c.Metrics.ROI
		acc.roasSum += c.Metrics.ROAS
		acc.ctrSum += c.Metrics.CTR
		acc.convSum += c.Metrics.ConversionRate
	}

	var totalProfit float64
	for _, acc := range accums {
		totalProfit += acc.profit
	}

	summaries := make([]model.ChannelSummary, 0, len(order))
	for _, channel := range order {
		acc := accums[channel]
		n := float64(acc.campaigns)
		s := model.ChannelSummary{
			Channel:            channel,
			Campaigns:          acc.campaigns,
			TotalCost:          derive.Round2(acc.cost),
			TotalRevenue:       derive.Round2(acc.revenue),
			TotalProfit:        derive.Round2(acc.profit),
			TotalImpressions:   acc.impressions,
			TotalClicks:        acc.clicks,
			TotalConversions:   acc.conversions,
			MeanROI:            derive.Round2(acc.roiSum / n),
			MeanROAS:           derive.Round2(acc.roasSum / n),
			MeanCTR:            derive.Round2(acc.ctrSum / n),
			MeanConversionRate: derive.Round2(acc.convSum / n),
			OverallCTR:         derive.Round2(derive.SafeDiv(float64(acc.clicks), float64(acc.impressions)) * 100),
			OverallConvRate:    derive.Round2(derive.SafeDiv(float64(acc.conversions), float64(acc.clicks)) * 100),
		}
		if totalProfit != 0 {
			s.ProfitContribution = derive.Round1(acc.profit / totalProfit * 100)
		}
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.MeanROI != b.MeanROI {
			return a.MeanROI > b.MeanROI
		}
		if a.TotalRevenue != b.TotalRevenue {
			return a.TotalRevenue > b.TotalRevenue
		}
		return a.Channel < b.Channel
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}
	return summaries
}
