package segment

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/floats"
)

const defaultMaxIterations = 300

// KMeans clusters points with Lloyd's algorithm seeded by k-means++. Each
// call runs several restarts from one seeded random source and keeps the
// lowest-inertia fit, so results are reproducible for a fixed seed.
type KMeans struct {
	Seed          int64
	Restarts      int
	MaxIterations int
}

// NewKMeans returns a clusterer with the given seed and restart count.
func NewKMeans(seed int64, restarts int) *KMeans {
	if restarts < 1 {
		restarts = 1
	}
	return &KMeans{Seed: seed, Restarts: restarts, MaxIterations: defaultMaxIterations}
}

// Cluster partitions points into k groups.
func (km *KMeans) Cluster(points [][]float64, k int) (Clustering, error) {
	if len(points) == 0 {
		return Clustering{}, fmt.Errorf("kmeans: no points to cluster")
	}
	if k < 1 || k > len(points) {
		return Clustering{}, fmt.Errorf("kmeans: k=%d out of range for %d points", k, len(points))
	}

	maxIter := km.MaxIterations
	if maxIter < 1 {
		maxIter = defaultMaxIterations
	}

	rng := rand.New(rand.NewSource(km.Seed))
	best := Clustering{Inertia: math.Inf(1)}
	for r := 0; r < km.Restarts; r++ {
		fit := lloyd(points, k, rng, maxIter)
		if fit.Inertia < best.Inertia {
			best = fit
		}
	}
	return best, nil
}

func lloyd(points [][]float64, k int, rng *rand.Rand, maxIter int) Clustering {
	centroids := seedCentroids(points, k, rng)
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if nearest != assignments[i] {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}
		recomputeCentroids(points, assignments, centroids)
	}

	return Clustering{
		Assignments: assignments,
		Centroids:   centroids,
		Inertia:     inertia(points, assignments, centroids),
	}
}

// seedCentroids picks initial centroids k-means++ style: the first
// uniformly, the rest weighted by squared distance to the nearest centroid
// chosen so far.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, slices.Clone(points[rng.Intn(len(points))]))

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		sum := 0.0
		for i, p := range points {
			d2[i] = nearestDistance2(p, centroids)
			sum += d2[i]
		}

		var next int
		if sum == 0 {
			next = rng.Intn(len(points))
		} else {
			target := rng.Float64() * sum
			acc := 0.0
			next = len(points) - 1
			for i, w := range d2 {
				acc += w
				if acc >= target {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, slices.Clone(points[next]))
	}
	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	bestIdx := 0
	bestD := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestD {
			bestD, bestIdx = d, c
		}
	}
	return bestIdx
}

func nearestDistance2(p []float64, centroids [][]float64) float64 {
	best := math.Inf(1)
	for _, centroid := range centroids {
		d := floats.Distance(p, centroid, 2)
		if d2 := d * d; d2 < best {
			best = d2
		}
	}
	return best
}

// recomputeCentroids moves each centroid to the mean of its members. An
// empty cluster is reseeded to the point farthest from its current
// centroid, so every cluster keeps at least one member.
func recomputeCentroids(points [][]float64, assignments []int, centroids [][]float64) {
	k := len(centroids)
	dim := len(points[0])

	counts := make([]int, k)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := assignments[i]
		counts[c]++
		floats.Add(sums[c], p)
	}

	taken := make(map[int]bool)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			idx := farthestPoint(points, assignments, centroids, taken)
			taken[idx] = true
			copy(centroids[c], points[idx])
			continue
		}
		for j := range sums[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func farthestPoint(points [][]float64, assignments []int, centroids [][]float64, taken map[int]bool) int {
	bestIdx := 0
	bestD := -1.0
	for i, p := range points {
		if taken[i] {
			continue
		}
		d := floats.Distance(p, centroids[assignments[i]], 2)
		if d > bestD {
			bestD, bestIdx = d, i
		}
	}
	return bestIdx
}

func inertia(points [][]float64, assignments []int, centroids [][]float64) float64 {
	total := 0.0
	for i, p := range points {
		d := floats.Distance(p, centroids[assignments[i]], 2)
		total += d * d
	}
	return total
}
