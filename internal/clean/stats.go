package clean

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/spice-harvester/internal/model"
)

func columnStats(column string, values []float64) (model.ColumnStats, bool) {
	if len(values) == 0 {
		return model.ColumnStats{}, false
	}
	stats := model.ColumnStats{
		Column: column,
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
	if len(values) > 1 {
		stats.StdDev = stat.StdDev(values, nil)
	}
	return stats, true
}

func campaignStats(records []model.CampaignRecord) []model.ColumnStats {
	columns := []struct {
		name  string
		value func(model.CampaignRecord) float64
	}{
		{"cost", func(r model.CampaignRecord) float64 { return r.Cost }},
		{"impressions", func(r model.CampaignRecord) float64 { return float64(r.Impressions) }},
		{"clicks", func(r model.CampaignRecord) float64 { return float64(r.Clicks) }},
		{"conversions", func(r model.CampaignRecord) float64 { return float64(r.Conversions) }},
		{"revenue", func(r model.CampaignRecord) float64 { return r.Revenue }},
	}

	var out []model.ColumnStats
	for _, col := range columns {
		values := make([]float64, len(records))
		for i := range records {
			values[i] = col.value(records[i])
		}
		if stats, ok := columnStats(col.name, values); ok {
			out = append(out, stats)
		}
	}
	return out
}

func customerStats(records []model.CustomerRecord) []model.ColumnStats {
	var out []model.ColumnStats
	for _, feature := range model.DefaultFeatures() {
		var values []float64
		for i := range records {
			if v, ok := records[i].Feature(feature); ok {
				values = append(values, v)
			}
		}
		if stats, ok := columnStats(feature, values); ok {
			out = append(out, stats)
		}
	}
	return out
}
