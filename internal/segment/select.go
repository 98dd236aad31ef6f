package segment

import (
	"fmt"
	"math"
)

type kSelection struct {
	clusterings map[int]Clustering
	method      string
	evaluations []KEvaluation
	chosenK     int
}

// selectK evaluates every candidate cluster count and applies the elbow
// rule: the chosen k is the smallest candidate whose marginal inertia drop
// from k-1 falls below threshold × the full inertia range. The count one
// below the minimum candidate is fitted too, as the baseline the first
// drop is measured against. When no candidate qualifies, the candidate
// with the highest silhouette wins.
func selectK(points [][]float64, minK, maxK int, opts Options) (kSelection, error) {
	sel := kSelection{clusterings: make(map[int]Clustering)}

	baseline := minK - 1
	inertias := make(map[int]float64)
	for k := baseline; k <= maxK; k++ {
		fit, err := opts.Clusterer.Cluster(points, k)
		if err != nil {
			return sel, fmt.Errorf("evaluating k=%d: %w", k, err)
		}
		sel.clusterings[k] = fit
		inertias[k] = fit.Inertia

		eval := KEvaluation{K: k, Inertia: fit.Inertia}
		if k >= minK {
			eval.Silhouette = meanSilhouette(points, fit.Assignments, k)
		}
		sel.evaluations = append(sel.evaluations, eval)
	}

	span := inertias[baseline] - inertias[maxK]
	if span <= 0 {
		sel.method = SelectionElbow
		sel.chosenK = minK
		return sel, nil
	}

	for k := minK; k <= maxK; k++ {
		if drop := inertias[k-1] - inertias[k]; drop < opts.ElbowThreshold*span {
			sel.method = SelectionElbow
			sel.chosenK = k
			return sel, nil
		}
	}

	bestK, bestScore := minK, math.Inf(-1)
	for _, eval := range sel.evaluations {
		if eval.K < minK {
			continue
		}
		if eval.Silhouette > bestScore {
			bestScore, bestK = eval.Silhouette, eval.K
		}
	}
	sel.method = SelectionSilhouette
	sel.chosenK = bestK
	return sel, nil
}
