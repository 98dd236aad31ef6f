package model

import "fmt"

// segmentLabels are assigned to segments in descending mean-revenue order.
// Segments beyond the named set fall back to a numbered label.
var segmentLabels = []string{
	"High-Value Buyers",
	"Deal Seekers",
	"Casual Visitors",
}

// SegmentLabel returns the human-readable label for a segment's
// mean-revenue rank (0 = highest mean revenue).
func SegmentLabel(revenueRank int) string {
	if revenueRank >= 0 && revenueRank < len(segmentLabels) {
		return segmentLabels[revenueRank]
	}
	return fmt.Sprintf("Segment %d", revenueRank+1)
}

// SegmentProfile is the per-cluster summary produced by the segmentation
// engine. Feature means are in original, unscaled units.
type SegmentProfile struct {
	FeatureMeans map[string]float64
	FeatureSums  map[string]float64
	Label        string
	Segment      int
	Customers    int

	// Share is the segment's percentage of all segmented customers.
	Share float64

	// Degenerate marks the single-segment fallback taken when every
	// customer row carries an identical feature vector.
	Degenerate bool
}
