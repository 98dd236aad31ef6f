package segment

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/Veraticus/spice-harvester/internal/derive"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// assemble builds segmented customers and per-segment profiles. Feature
// aggregates are reported in original units; labels rank segments by mean
// revenue, highest first.
func assemble(records []model.CustomerRecord, matrix featureMatrix, assignments []int, k int, degenerate bool) ([]model.SegmentedCustomer, []model.SegmentProfile) {
	counts := make([]int, k)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, len(matrix.features))
	}
	for i := range records {
		c := assignments[i]
		counts[c]++
		floats.Add(sums[c], matrix.raw[i])
	}

	revenueIdx := -1
	for j, f := range matrix.features {
		if f == model.FeatureRevenue {
			revenueIdx = j
		}
	}

	type clusterRank struct {
		cluster int
		revenue float64
	}
	ranks := make([]clusterRank, 0, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		rev := 0.0
		if revenueIdx >= 0 {
			rev = sums[c][revenueIdx] / float64(counts[c])
		}
		ranks = append(ranks, clusterRank{cluster: c, revenue: rev})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].revenue != ranks[j].revenue {
			return ranks[i].revenue > ranks[j].revenue
		}
		return ranks[i].cluster < ranks[j].cluster
	})

	labels := make(map[int]string, len(ranks))
	for pos, r := range ranks {
		labels[r.cluster] = model.SegmentLabel(pos)
	}

	customers := make([]model.SegmentedCustomer, len(records))
	for i := range records {
		customers[i] = model.SegmentedCustomer{
			Customer: records[i],
			Segment:  assignments[i],
			Label:    labels[assignments[i]],
		}
	}

	total := len(records)
	profiles := make([]model.SegmentProfile, 0, len(ranks))
	for _, r := range ranks {
		c := r.cluster
		means := make(map[string]float64, len(matrix.features))
		featureSums := make(map[string]float64, len(matrix.features))
		for j, f := range matrix.features {
			featureSums[f] = derive.Round2(sums[c][j])
			means[f] = derive.Round2(sums[c][j] / float64(counts[c]))
		}
		profiles = append(profiles, model.SegmentProfile{
			FeatureMeans: means,
			FeatureSums:  featureSums,
			Label:        labels[c],
			Segment:      c,
			Customers:    counts[c],
			Share:        derive.Round1(float64(counts[c]) / float64(total) * 100),
			Degenerate:   degenerate,
		})
	}
	return customers, profiles
}
