package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-harvester/internal/model"
)

// stubClusterer returns scripted inertias and assignments so selection
// policy tests control exactly what each candidate k looks like.
type stubClusterer struct {
	inertias    map[int]float64
	assignments map[int][]int
}

func (s stubClusterer) Cluster(points [][]float64, k int) (Clustering, error) {
	assign, ok := s.assignments[k]
	if !ok {
		assign = make([]int, len(points))
		for i := range assign {
			assign[i] = i % k
		}
	}
	return Clustering{Assignments: assign, Inertia: s.inertias[k]}, nil
}

func testCustomer(id int64, revenue, sessions float64) model.CustomerRecord {
	age := int64(30)
	transactions := int64(2)
	duration := 120.0
	pages := 3.0
	s := int64(sessions)
	return model.CustomerRecord{
		ID:                 id,
		Gender:             "F",
		Country:            "US",
		Age:                &age,
		Sessions:           &s,
		Transactions:       &transactions,
		AvgSessionDuration: &duration,
		PagesPerSession:    &pages,
		Revenue:            &revenue,
	}
}

// twoTierCustomers returns ten low-revenue and ten high-revenue customers
// with identical vectors inside each tier.
func twoTierCustomers() []model.CustomerRecord {
	var records []model.CustomerRecord
	for i := int64(0); i < 10; i++ {
		records = append(records, testCustomer(i, 100, 5))
	}
	for i := int64(10); i < 20; i++ {
		records = append(records, testCustomer(i, 1000, 50))
	}
	return records
}

func TestRun_TwoObviousSegments(t *testing.T) {
	res, err := Run(twoTierCustomers(), Options{Seed: 42})
	require.NoError(t, err)

	// Two distinct vectors clamp the candidate range to k=2.
	assert.Equal(t, 2, res.ChosenK)
	assert.False(t, res.Degenerate)
	require.Len(t, res.Customers, 20)

	lowSegment := res.Customers[0].Segment
	highSegment := res.Customers[10].Segment
	assert.NotEqual(t, lowSegment, highSegment)
	for i, c := range res.Customers {
		if i < 10 {
			assert.Equal(t, lowSegment, c.Segment)
			assert.Equal(t, "Deal Seekers", c.Label)
		} else {
			assert.Equal(t, highSegment, c.Segment)
			assert.Equal(t, "High-Value Buyers", c.Label)
		}
	}

	require.Len(t, res.Profiles, 2)
	high := res.Profiles[0]
	assert.Equal(t, "High-Value Buyers", high.Label)
	assert.Equal(t, 10, high.Customers)
	assert.Equal(t, 50.0, high.Share)
	assert.Equal(t, 1000.0, high.FeatureMeans[model.FeatureRevenue])
	assert.Equal(t, 10000.0, high.FeatureSums[model.FeatureRevenue])
	assert.Equal(t, 50.0, high.FeatureMeans[model.FeatureSessions])
}

func TestRun_Deterministic(t *testing.T) {
	records := twoTierCustomers()

	first, err := Run(records, Options{Seed: 42})
	require.NoError(t, err)
	second, err := Run(records, Options{Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, first.ChosenK, second.ChosenK)
	for i := range first.Customers {
		assert.Equal(t, first.Customers[i].Segment, second.Customers[i].Segment)
	}
}

func TestRun_DegenerateSingleSegment(t *testing.T) {
	var records []model.CustomerRecord
	for i := int64(0); i < 5; i++ {
		records = append(records, testCustomer(i, 250, 10))
	}

	res, err := Run(records, Options{Seed: 42})
	require.NoError(t, err)

	assert.True(t, res.Degenerate)
	assert.Equal(t, 1, res.ChosenK)
	assert.Equal(t, SelectionDegenerate, res.Method)
	require.Len(t, res.Profiles, 1)
	assert.True(t, res.Profiles[0].Degenerate)
	assert.Equal(t, 5, res.Profiles[0].Customers)
	assert.Equal(t, 100.0, res.Profiles[0].Share)
	for _, c := range res.Customers {
		assert.Equal(t, 0, c.Segment)
	}
}

func TestRun_SingleCustomerIsDegenerate(t *testing.T) {
	res, err := Run([]model.CustomerRecord{testCustomer(1, 100, 5)}, Options{Seed: 42})
	require.NoError(t, err)

	assert.True(t, res.Degenerate)
	assert.Equal(t, 1, res.ChosenK)
}

func TestRun_NoRows(t *testing.T) {
	_, err := Run(nil, Options{Seed: 42})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRun_ImputesMissingFeaturesWithMean(t *testing.T) {
	records := twoTierCustomers()
	records[0].Revenue = nil

	res, err := Run(records, Options{Seed: 42})
	require.NoError(t, err)
	require.Len(t, res.Customers, 20)

	// The nil value is replaced with the observed mean, so the revenue
	// total across all profiles includes it.
	imputed := (9*100.0 + 10*1000.0) / 19.0
	var total float64
	for _, p := range res.Profiles {
		total += p.FeatureSums[model.FeatureRevenue]
	}
	assert.InDelta(t, 9*100.0+10*1000.0+imputed, total, 0.1)
}

func TestRun_ZeroVarianceFeatureDoesNotCrash(t *testing.T) {
	records := twoTierCustomers()
	// age is already constant across every record; the run must still
	// produce finite assignments.
	res, err := Run(records, Options{Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ChosenK)
}

func TestSelectK_ElbowFormula(t *testing.T) {
	points := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}
	stub := stubClusterer{inertias: map[int]float64{1: 100, 2: 50, 3: 20, 4: 15, 5: 14}}

	sel, err := selectK(points, 2, 5, Options{Clusterer: stub, ElbowThreshold: 0.10})
	require.NoError(t, err)

	// Range is 100-14=86; the first drop under 8.6 is k=4 (20-15=5).
	assert.Equal(t, 4, sel.chosenK)
	assert.Equal(t, SelectionElbow, sel.method)
	require.Len(t, sel.evaluations, 5)
	assert.Equal(t, 1, sel.evaluations[0].K)
	assert.Equal(t, 100.0, sel.evaluations[0].Inertia)
}

func TestSelectK_SilhouetteFallback(t *testing.T) {
	points := append(
		blob([]float64{0}, 0, 0.1, 0.2),
		blob([]float64{10}, 0, 0.1, 0.2)...,
	)
	// Linear inertia decay never drops below 10% of the range, forcing
	// the silhouette fallback; only k=2 gets the clean split.
	stub := stubClusterer{
		inertias: map[int]float64{1: 100, 2: 70, 3: 40, 4: 10},
		assignments: map[int][]int{
			2: {0, 0, 0, 1, 1, 1},
			3: {0, 1, 0, 1, 2, 2},
			4: {0, 1, 2, 3, 0, 1},
		},
	}

	sel, err := selectK(points, 2, 4, Options{Clusterer: stub, ElbowThreshold: 0.10})
	require.NoError(t, err)

	assert.Equal(t, SelectionSilhouette, sel.method)
	assert.Equal(t, 2, sel.chosenK)
}

func TestRun_HonorsCustomClusterer(t *testing.T) {
	records := twoTierCustomers()
	stub := stubClusterer{
		inertias: map[int]float64{1: 100, 2: 1},
		assignments: map[int][]int{
			1: make([]int, 20),
			2: append(append([]int{}, make([]int, 10)...), ones(10)...),
		},
	}

	res, err := Run(records, Options{Seed: 42, Clusterer: stub})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ChosenK)
	assert.Equal(t, 1, res.Customers[19].Segment)
}

func ones(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
