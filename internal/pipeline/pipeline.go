// Package pipeline orchestrates a full batch run: validation, cleaning,
// metric derivation, and channel rollup for campaigns; validation,
// cleaning, and segmentation for customers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/spice-harvester/internal/clean"
	"github.com/Veraticus/spice-harvester/internal/config"
	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/Veraticus/spice-harvester/internal/service"
	"github.com/Veraticus/spice-harvester/internal/validate"
)

// Pipeline drives both processing branches over one source snapshot.
type Pipeline struct {
	source service.RecordSource
	cfg    config.Config
}

// New creates a pipeline reading from the given record source.
func New(source service.RecordSource, cfg config.Config) *Pipeline {
	return &Pipeline{source: source, cfg: cfg}
}

// Result carries everything a completed or partially completed run
// produced.
type Result struct {
	Artifacts *service.Artifacts
	Stats     service.RunStats
}

// Run executes the campaign and customer branches. The branches share no
// state, so a fatal error on one still lets the other produce its full
// output: Run returns whatever artifacts were built together with the
// joined branch errors.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	slog.Info("Starting pipeline run",
		"run_id", runID,
		"skip_errors", p.cfg.Pipeline.SkipErrors)

	artifacts := &service.Artifacts{
		RunID:       runID,
		GeneratedAt: start,
	}
	stats := service.RunStats{RunID: runID}
	result := &Result{Artifacts: artifacts}

	campaignErr := p.campaignBranch(ctx, artifacts, &stats)
	if campaignErr != nil {
		slog.Error("Campaign branch failed", "run_id", runID, "error", campaignErr)
	}
	if err := ctx.Err(); err != nil {
		stats.Duration = time.Since(start)
		result.Stats = stats
		return result, errors.Join(campaignErr, err)
	}

	customerErr := p.customerBranch(ctx, artifacts, &stats)
	if customerErr != nil {
		slog.Error("Customer branch failed", "run_id", runID, "error", customerErr)
	}

	stats.Duration = time.Since(start)
	result.Stats = stats

	slog.Info("Pipeline run finished",
		"run_id", runID,
		"campaigns", len(artifacts.Campaigns),
		"channels", len(artifacts.Channels),
		"customers", len(artifacts.Customers),
		"segments", len(artifacts.Segments),
		"duration", stats.Duration.Round(time.Millisecond))

	return result, errors.Join(campaignErr, customerErr)
}

func (p *Pipeline) campaignBranch(ctx context.Context, artifacts *service.Artifacts, stats *service.RunStats) error {
	out, err := p.runCampaigns(ctx)
	if err != nil {
		return err
	}
	artifacts.Campaigns = out.enriched
	artifacts.Channels = out.channels
	artifacts.Report = &out.report
	artifacts.CampaignQuality = &out.quality

	stats.CampaignsLoaded = out.quality.TotalRecords
	stats.CampaignsCleaned = len(out.enriched)
	stats.CampaignsDropped = out.quality.DroppedRecords
	stats.Channels = len(out.channels)
	return nil
}

func (p *Pipeline) customerBranch(ctx context.Context, artifacts *service.Artifacts, stats *service.RunStats) error {
	out, err := p.runCustomers(ctx)
	if err != nil {
		return err
	}
	artifacts.Customers = out.customers
	artifacts.Segments = out.profiles
	artifacts.CustomerQuality = &out.quality
	artifacts.SegmentMethod = out.method

	stats.CustomersLoaded = out.quality.TotalRecords
	stats.CustomersCleaned = len(out.customers)
	stats.Segments = len(out.profiles)
	stats.ChosenK = out.chosenK
	return nil
}

// ResolveValidation converts a validation result into the pipeline's
// error types, or into per-row exclusions when the run is configured to
// continue past rule violations.
func ResolveValidation(res validate.Result, skipErrors bool) ([]clean.Exclusion, error) {
	if !res.SchemaOK() {
		issue := res.Issues[0]
		return nil, &SchemaError{Entity: res.Entity, Column: issue.Column, Reason: issue.Reason}
	}
	if res.RulesOK() {
		return nil, nil
	}
	if !skipErrors {
		return nil, &RuleViolationError{
			Entity: res.Entity,
			Rule:   res.Violations[0].Rule,
			Rows:   res.ViolatedRows(),
		}
	}

	exclusions := make([]clean.Exclusion, 0, len(res.Violations))
	seen := make(map[int]bool, len(res.Violations))
	for _, v := range res.Violations {
		slog.Warn("Business rule violated, excluding row",
			"entity", res.Entity,
			"rule", v.Rule,
			"row", v.Identity,
			"detail", v.Detail)
		if seen[v.Row] {
			continue
		}
		seen[v.Row] = true
		exclusions = append(exclusions, clean.Exclusion{
			Row:    v.Row,
			Reason: fmt.Sprintf("violates %s: %s", v.Rule, v.Detail),
		})
	}
	return exclusions, nil
}

// asSchemaError maps fatal cleaning failures onto the schema error class:
// a required value is absent or unreadable, so the record set's shape
// cannot be trusted.
func asSchemaError(entity string, err error) error {
	if errors.Is(err, clean.ErrMissingRequired) || errors.Is(err, clean.ErrMalformedValue) {
		return &SchemaError{Entity: entity, Reason: err.Error()}
	}
	return err
}

func logCleaning(entity string, ops []model.CleaningOp, report model.QualityReport) {
	slog.Info("Cleaned records",
		"entity", entity,
		"operations", len(ops),
		"kept", report.TotalRecords-report.DroppedRecords,
		"dropped", report.DroppedRecords,
		"duplicates", report.DuplicatesFound,
		"outliers_flagged", report.OutliersFlagged)
}

func logUnmappedChannels(unmapped map[string]int) {
	values := make([]string, 0, len(unmapped))
	for v := range unmapped {
		values = append(values, v)
	}
	sort.Strings(values)
	for _, v := range values {
		slog.Warn("Unmapped channel value passed through", "value", v, "rows", unmapped[v])
	}
}
