package model

// Feature column names recognized by the segmentation engine.
const (
	FeatureAge                = "age"
	FeatureSessions           = "sessions"
	FeatureAvgSessionDuration = "avg_session_duration"
	FeaturePagesPerSession    = "pages_per_session"
	FeatureTransactions       = "transactions"
	FeatureRevenue            = "revenue"
)

// DefaultFeatures returns the feature columns used for segmentation when
// the configuration does not override them.
func DefaultFeatures() []string {
	return []string{
		FeatureAge,
		FeatureSessions,
		FeatureAvgSessionDuration,
		FeaturePagesPerSession,
		FeatureTransactions,
		FeatureRevenue,
	}
}

// CustomerRecord represents a single cleaned customer row. Numeric feature
// fields are pointers: a value missing in the source survives cleaning as
// nil and is mean-imputed by the segmentation engine, not here.
type CustomerRecord struct {
	Gender             string
	Country            string
	ID                 int64
	Age                *int64
	Sessions           *int64
	Transactions       *int64
	AvgSessionDuration *float64
	PagesPerSession    *float64
	Revenue            *float64
}

// Feature returns the named feature value and whether it is present.
// Unknown names report absent.
func (c *CustomerRecord) Feature(name string) (float64, bool) {
	switch name {
	case FeatureAge:
		if c.Age != nil {
			return float64(*c.Age), true
		}
	case FeatureSessions:
		if c.Sessions != nil {
			return float64(*c.Sessions), true
		}
	case FeatureAvgSessionDuration:
		if c.AvgSessionDuration != nil {
			return *c.AvgSessionDuration, true
		}
	case FeaturePagesPerSession:
		if c.PagesPerSession != nil {
			return *c.PagesPerSession, true
		}
	case FeatureTransactions:
		if c.Transactions != nil {
			return float64(*c.Transactions), true
		}
	case FeatureRevenue:
		if c.Revenue != nil {
			return *c.Revenue, true
		}
	}
	return 0, false
}

// SegmentedCustomer is a customer record together with its assigned segment.
type SegmentedCustomer struct {
	Customer CustomerRecord
	Label    string
	Segment  int
}
