package segment

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// meanSilhouette is the average silhouette coefficient over all points.
// Points in singleton clusters contribute zero, as does a fit that leaves
// only one non-empty cluster.
func meanSilhouette(points [][]float64, assignments []int, k int) float64 {
	n := len(points)
	if n == 0 || k < 2 {
		return 0
	}

	counts := make([]int, k)
	for _, c := range assignments {
		counts[c]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i, p := range points {
		for c := range sums {
			sums[c] = 0
		}
		for j, q := range points {
			if i == j {
				continue
			}
			sums[assignments[j]] += floats.Distance(p, q, 2)
		}

		own := assignments[i]
		if counts[own] <= 1 {
			continue
		}
		a := sums[own] / float64(counts[own]-1)

		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}

		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(n)
}
