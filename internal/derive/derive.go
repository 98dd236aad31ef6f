// Package derive computes per-campaign performance metrics from cleaned
// records. It is pure: no I/O, no mutation of its input.
package derive

import (
	"math"

	"github.com/Veraticus/spice-harvester/internal/model"
)

// Round2 rounds to two decimal places, the precision every derived metric
// is reported at. Halves round away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place, used for percentage contributions.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SafeDiv divides a by b. A zero denominator yields 0 rather than an
// error, infinity, or NaN.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Metrics computes the derived metric set for one campaign record.
func Metrics(rec model.CampaignRecord) model.CampaignMetrics {
	impressions := float64(rec.Impressions)
	clicks := float64(rec.Clicks)
	conversions := float64(rec.Conversions)

	return model.CampaignMetrics{
		CTR:             Round2(SafeDiv(clicks, impressions) * 100),
		ConversionRate:  Round2(SafeDiv(conversions, clicks) * 100),
		CPC:             Round2(SafeDiv(rec.Cost, clicks)),
		CPA:             Round2(SafeDiv(rec.Cost, conversions)),
		ROAS:            Round2(SafeDiv(rec.Revenue, rec.Cost)),
		ROI:             Round2(SafeDiv(rec.Revenue-rec.Cost, rec.Cost) * 100),
		Profit:          Round2(rec.Revenue - rec.Cost),
		ConversionValue: Round2(SafeDiv(rec.Revenue, conversions)),
	}
}

// Campaigns enriches every record with its derived metrics, preserving
// input order.
func Campaigns(records []model.CampaignRecord) []model.EnrichedCampaign {
	out := make([]model.EnrichedCampaign, len(records))
	for i, rec := range records {
		out[i] = model.EnrichedCampaign{Campaign: rec, Metrics: Metrics(rec)}
	}
	return out
}
