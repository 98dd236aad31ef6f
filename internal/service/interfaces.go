// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spice-harvester/internal/dataset"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// RecordSource defines the contract for the read-only source store
// exposing the campaigns and customers tables.
type RecordSource interface {
	LoadCampaigns(ctx context.Context) (*dataset.Table, error)
	LoadCustomers(ctx context.Context) (*dataset.Table, error)
	Ping(ctx context.Context) error
	Close() error
}

// ExportWriter writes run artifacts as flat delimited files for the BI
// tool. It returns the paths of every file written.
type ExportWriter interface {
	Write(ctx context.Context, artifacts *Artifacts) ([]string, error)
}

// ReportRenderer renders run artifacts into a human-readable document
// and returns its path.
type ReportRenderer interface {
	Render(ctx context.Context, artifacts *Artifacts) (string, error)
}

// Artifacts bundles the derived tables a pipeline run hands to its
// consumers. Campaigns, Channels, and Segments are the reporting
// contract; the rest is supporting detail.
type Artifacts struct {
	GeneratedAt     time.Time
	CampaignQuality *model.QualityReport
	CustomerQuality *model.QualityReport
	Report          *model.ROIReport
	RunID           string

	// SegmentMethod names how the cluster count was chosen: elbow,
	// silhouette, or degenerate.
	SegmentMethod string

	Campaigns []model.EnrichedCampaign
	Channels  []model.ChannelSummary
	Customers []model.SegmentedCustomer
	Segments  []model.SegmentProfile
}

// RunStats shows the results of a pipeline run.
type RunStats struct {
	RunID            string
	CampaignsLoaded  int
	CampaignsCleaned int
	CampaignsDropped int
	CustomersLoaded  int
	CustomersCleaned int
	Channels         int
	Segments         int
	ChosenK          int
	Duration         time.Duration
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
