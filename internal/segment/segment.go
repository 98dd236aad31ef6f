// Package segment groups customers into behavioral segments by k-means
// clustering over standardized feature vectors.
package segment

import (
	"errors"
	"fmt"

	"github.com/Veraticus/spice-harvester/internal/model"
)

// ErrInsufficientData reports that no usable customer rows were available
// to segment.
var ErrInsufficientData = errors.New("not enough customers to segment")

// How the final cluster count was chosen.
const (
	SelectionElbow      = "elbow"
	SelectionSilhouette = "silhouette"
	SelectionDegenerate = "degenerate"
)

// Clusterer partitions scaled feature vectors into k groups. Implementations
// must be deterministic for a fixed configuration and input.
type Clusterer interface {
	Cluster(points [][]float64, k int) (Clustering, error)
}

// Clustering is one fitted partitioning of the input points.
type Clustering struct {
	Assignments []int
	Centroids   [][]float64
	Inertia     float64
}

// KEvaluation records the fit quality measured at one candidate cluster
// count during selection.
type KEvaluation struct {
	K          int
	Inertia    float64
	Silhouette float64
}

// Result is the outcome of a segmentation run.
type Result struct {
	// Method names the selection path taken for ChosenK.
	Method      string
	Customers   []model.SegmentedCustomer
	Profiles    []model.SegmentProfile
	Evaluations []KEvaluation
	ChosenK     int
	// Degenerate is set when every customer carried an identical feature
	// vector and the run fell back to a single segment.
	Degenerate bool
}

// Options tunes a segmentation run. Zero values fall back to the defaults
// the pipeline configuration documents.
type Options struct {
	Clusterer      Clusterer
	Features       []string
	MinClusters    int
	MaxClusters    int
	Restarts       int
	ElbowThreshold float64
	Seed           int64
}

func (o Options) withDefaults() Options {
	if len(o.Features) == 0 {
		o.Features = model.DefaultFeatures()
	}
	if o.MinClusters < 2 {
		o.MinClusters = 2
	}
	if o.MaxClusters < o.MinClusters {
		o.MaxClusters = 10
	}
	if o.Restarts < 1 {
		o.Restarts = 10
	}
	if o.ElbowThreshold <= 0 {
		o.ElbowThreshold = 0.10
	}
	if o.Clusterer == nil {
		o.Clusterer = NewKMeans(o.Seed, o.Restarts)
	}
	return o
}

// Run segments the given customers. The cluster count is selected by the
// elbow rule over candidate counts, falling back to the best silhouette
// when no elbow appears; both paths are deterministic for a fixed seed.
func Run(records []model.CustomerRecord, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: 0 rows", ErrInsufficientData)
	}

	matrix := buildMatrix(records, opts.Features)

	if matrix.distinct == 1 {
		return degenerateResult(records, matrix, opts), nil
	}

	maxK := opts.MaxClusters
	if maxK > matrix.distinct {
		maxK = matrix.distinct
	}
	minK := opts.MinClusters
	if minK > maxK {
		minK = maxK
	}

	selection, err := selectK(matrix.scaled, minK, maxK, opts)
	if err != nil {
		return nil, err
	}

	final := selection.clusterings[selection.chosenK]
	res := &Result{
		Method:      selection.method,
		ChosenK:     selection.chosenK,
		Evaluations: selection.evaluations,
	}
	res.Customers, res.Profiles = assemble(records, matrix, final.Assignments, selection.chosenK, false)
	return res, nil
}

// degenerateResult handles the all-rows-identical case: one segment
// holding everything, flagged so consumers can tell it apart from a real
// clustering.
func degenerateResult(records []model.CustomerRecord, matrix featureMatrix, opts Options) *Result {
	assignments := make([]int, len(records))
	res := &Result{
		Method:     SelectionDegenerate,
		ChosenK:    1,
		Degenerate: true,
	}
	res.Customers, res.Profiles = assemble(records, matrix, assignments, 1, true)
	return res
}
