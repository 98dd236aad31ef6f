package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/clean"
	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/Veraticus/spice-harvester/internal/segment"
	"github.com/Veraticus/spice-harvester/internal/validate"
)

type customerOutput struct {
	customers []model.SegmentedCustomer
	profiles  []model.SegmentProfile
	quality   model.QualityReport
	method    string
	chosenK   int
}

// runCustomers executes the customer branch: validate, clean, segment.
func (p *Pipeline) runCustomers(ctx context.Context) (*customerOutput, error) {
	table, err := p.source.LoadCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	slog.Info("Loaded customer records", "rows", table.Len())

	res := validate.Customers(table)
	exclusions, err := ResolveValidation(res, p.cfg.Pipeline.SkipErrors)
	if err != nil {
		return nil, err
	}

	cleaned, err := clean.Customers(table, clean.Options{
		Exclusions: exclusions,
		SkipErrors: p.cfg.Pipeline.SkipErrors,
	})
	if err != nil {
		return nil, asSchemaError(model.EntityCustomer, err)
	}
	logCleaning(model.EntityCustomer, cleaned.Ops, cleaned.Report)

	seg := p.cfg.Segmentation
	segRes, err := segment.Run(cleaned.Records, segment.Options{
		Features:       seg.Features,
		MinClusters:    seg.MinClusters,
		MaxClusters:    seg.MaxClusters,
		Restarts:       seg.NInit,
		ElbowThreshold: seg.ElbowThreshold,
		Seed:           seg.RandomSeed,
	})
	if err != nil {
		if errors.Is(err, segment.ErrInsufficientData) {
			return nil, &InsufficientDataError{
				Entity: model.EntityCustomer,
				Needed: 1,
				Got:    len(cleaned.Records),
			}
		}
		return nil, fmt.Errorf("failed to segment customers: %w", err)
	}
	if segRes.Degenerate {
		slog.Warn("Customer features have zero variance, falling back to a single segment",
			"customers", len(cleaned.Records))
	}
	slog.Info("Segmented customers",
		"customers", len(segRes.Customers),
		"k", segRes.ChosenK,
		"method", segRes.Method)

	return &customerOutput{
		customers: segRes.Customers,
		profiles:  segRes.Profiles,
		quality:   cleaned.Report,
		method:    segRes.Method,
		chosenK:   segRes.ChosenK,
	}, nil
}
