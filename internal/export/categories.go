package export

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Labels for the BI category columns attached to exported rows.
var (
	revenueTierLabels   = []string{"Low", "Medium", "High", "Very High"}
	customerValueLabels = []string{"Low", "Medium", "High"}
)

// roiCategory buckets a campaign ROI percentage. Ranges are right-closed:
// 0 and below is a loss, 50 and 100 close the low and medium bands.
func roiCategory(roi float64) string {
	switch {
	case roi <= 0:
		return "Loss"
	case roi <= 50:
		return "Low"
	case roi <= 100:
		return "Medium"
	default:
		return "High"
	}
}

// conversionCategory buckets a conversion-rate percentage.
func conversionCategory(rate float64) string {
	switch {
	case rate <= 2:
		return "Very Low"
	case rate <= 5:
		return "Low"
	case rate <= 10:
		return "Medium"
	default:
		return "High"
	}
}

// engagementLevel buckets an average session duration in seconds.
func engagementLevel(duration float64) string {
	switch {
	case duration <= 60:
		return "Low"
	case duration <= 180:
		return "Medium"
	case duration <= 300:
		return "High"
	default:
		return "Very High"
	}
}

// rankTiers assigns each value a tier label by rank-based quantile
// binning: rows are ranked ascending (ties keep input order) and the rank
// range is split into len(labels) right-closed quantile intervals, so
// tiers hold near-equal row counts regardless of value skew.
func rankTiers(values []float64, labels []string) []string {
	n := len(values)
	out := make([]string, n)
	if n == 0 {
		return out
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, n)
	sorted := make([]float64, n)
	for pos, i := range idx {
		ranks[i] = float64(pos + 1)
		sorted[pos] = float64(pos + 1)
	}

	q := len(labels)
	edges := make([]float64, 0, q-1)
	for j := 1; j < q; j++ {
		edges = append(edges, stat.Quantile(float64(j)/float64(q), stat.LinInterp, sorted, nil))
	}

	for i := range out {
		out[i] = labels[len(edges)]
		for j, edge := range edges {
			if ranks[i] <= edge {
				out[i] = labels[j]
				break
			}
		}
	}
	return out
}
