package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/clean"
	"github.com/Veraticus/spice-harvester/internal/derive"
	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/Veraticus/spice-harvester/internal/rollup"
	"github.com/Veraticus/spice-harvester/internal/validate"
)

type campaignOutput struct {
	enriched []model.EnrichedCampaign
	channels []model.ChannelSummary
	report   model.ROIReport
	quality  model.QualityReport
}

// runCampaigns executes the campaign branch: validate, clean, derive
// metrics, roll up by channel.
func (p *Pipeline) runCampaigns(ctx context.Context) (*campaignOutput, error) {
	table, err := p.source.LoadCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaigns: %w", err)
	}
	slog.Info("Loaded campaign records", "rows", table.Len())

	res := validate.Campaigns(table)
	exclusions, err := ResolveValidation(res, p.cfg.Pipeline.SkipErrors)
	if err != nil {
		return nil, err
	}

	cleaned, err := clean.Campaigns(table, clean.Options{
		Exclusions:             exclusions,
		OutlierIQRMultiplier:   p.cfg.Cleaning.OutlierIQRMultiplier,
		SkipErrors:             p.cfg.Pipeline.SkipErrors,
		CoerceUnmappedChannels: p.cfg.Pipeline.CoerceUnmappedChannels,
	})
	if err != nil {
		return nil, asSchemaError(model.EntityCampaign, err)
	}
	logCleaning(model.EntityCampaign, cleaned.Ops, cleaned.Report)
	if !p.cfg.Pipeline.CoerceUnmappedChannels {
		logUnmappedChannels(cleaned.UnmappedChannels)
	}

	enriched := derive.Campaigns(cleaned.Records)
	slog.Info("Derived campaign metrics", "campaigns", len(enriched))

	channels := rollup.Channels(enriched)
	slog.Info("Ranked channels by mean ROI", "channels", len(channels))

	return &campaignOutput{
		enriched: enriched,
		channels: channels,
		report:   rollup.BuildReport(enriched, channels),
		quality:  cleaned.Report,
	}, nil
}
