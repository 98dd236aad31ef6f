package rollup

import (
	"sort"

	"github.com/Veraticus/spice-harvester/internal/derive"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// topListSize bounds the best and worst campaign lists in the report.
const topListSize = 5

// BuildReport produces the overall ROI report from enriched campaigns and
// their ranked channel summaries.
func BuildReport(campaigns []model.EnrichedCampaign, channels []model.ChannelSummary) model.ROIReport {
	var rep model.ROIReport
	for i := range campaigns {
		c := &campaigns[i]
		rep.TotalCost += c.Campaign.Cost
		rep.TotalRevenue += c.Campaign.Revenue
		rep.TotalProfit += c.Metrics.Profit
		rep.MeanROI += c.Metrics.ROI
		rep.MeanROAS += c.Metrics.ROAS
	}
	if n := float64(len(campaigns)); n > 0 {
		rep.MeanROI = derive.Round2(rep.MeanROI / n)
		rep.MeanROAS = derive.Round2(rep.MeanROAS / n)
	}
	rep.TotalCost = derive.Round2(rep.TotalCost)
	rep.TotalRevenue = derive.Round2(rep.TotalRevenue)
	rep.TotalProfit = derive.Round2(rep.TotalProfit)

	if len(channels) > 0 {
		rep.BestChannel = channels[0].Channel
		rep.WorstChannel = channels[len(channels)-1].Channel
	}

	rep.TopCampaigns = campaignsByROI(campaigns, true)
	rep.BottomCampaigns = campaignsByROI(campaigns, false)
	return rep
}

// campaignsByROI returns up to topListSize campaigns ordered by ROI, best
// first when desc is set. Equal-ROI campaigns keep their input order.
func campaignsByROI(campaigns []model.EnrichedCampaign, desc bool) []model.CampaignROI {
	rows := make([]model.CampaignROI, len(campaigns))
	for i := range campaigns {
		rows[i] = model.CampaignROI{
			Name:    campaigns[i].Campaign.Name,
			Channel: campaigns[i].Campaign.Channel,
			Cost:    campaigns[i].Campaign.Cost,
			Revenue: campaigns[i].Campaign.Revenue,
			ROI:     campaigns[i].Metrics.ROI,
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return rows[i].ROI > rows[j].ROI
		}
		return rows[i].ROI < rows[j].ROI
	})
	if len(rows) > topListSize {
		rows = rows[:topListSize]
	}
	return rows
}
