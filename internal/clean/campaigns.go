package clean

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Veraticus/spice-harvester/internal/dataset"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// CampaignResult is the output of a campaign cleaning pass.
type CampaignResult struct {
	// UnmappedChannels counts occurrences of channel values the synonym
	// table could not resolve, by trimmed value.
	UnmappedChannels map[string]int
	Records          []model.CampaignRecord
	Ops              []model.CleaningOp
	Report           model.QualityReport
}

// Campaigns cleans a raw campaign record set: drops excluded rows,
// normalizes names and channels, imputes missing counts and channels,
// removes (campaign_name, date) duplicates keeping the first occurrence,
// and flags cost outliers. Every mutation lands in Ops.
func Campaigns(table *dataset.Table, opts Options) (*CampaignResult, error) {
	res := &CampaignResult{
		UnmappedChannels: make(map[string]int),
		Report: model.QualityReport{
			Entity:          model.EntityCampaign,
			TotalRecords:    table.Len(),
			MissingByColumn: missingByColumn(table),
		},
	}

	excluded := exclusionSet(opts.Exclusions)
	for _, e := range opts.Exclusions {
		res.Ops = append(res.Ops, model.CleaningOp{
			Entity:      model.EntityCampaign,
			RowIdentity: rawIdentity(table, e.Row),
			Action:      model.ActionDropViolation,
			Reason:      excluded[e.Row],
		})
	}

	channelMode, channelModeOK := modeValue(table, "channel", excluded)
	caser := cases.Title(language.English)
	seen := make(map[string]bool, table.Len())

	for i, row := range table.Rows {
		if _, drop := excluded[i]; drop {
			continue
		}

		rec, rowOps, unmapped, err := cleanCampaignRow(row, channelMode, channelModeOK, caser, opts)
		if err != nil {
			err = fmt.Errorf("campaign %s: %w", rawIdentity(table, i), err)
			if !opts.SkipErrors {
				return nil, err
			}
			res.Ops = append(res.Ops, model.CleaningOp{
				Entity:      model.EntityCampaign,
				RowIdentity: rawIdentity(table, i),
				Action:      model.ActionDropInvalid,
				Reason:      err.Error(),
			})
			continue
		}

		hash := rec.GenerateHash()
		if seen[hash] {
			res.Report.DuplicatesFound++
			res.Ops = append(res.Ops, model.CleaningOp{
				Entity:      model.EntityCampaign,
				Column:      "campaign_name",
				RowIdentity: campaignIdentity(rec),
				Action:      model.ActionDropDuplicate,
				Reason:      "repeats an earlier campaign_name and date",
			})
			continue
		}
		seen[hash] = true

		if unmapped != "" {
			res.UnmappedChannels[unmapped]++
		}
		res.Records = append(res.Records, rec)
		res.Ops = append(res.Ops, rowOps...)
	}

	flagCostOutliers(res, opts.iqrMultiplier())

	for _, n := range res.UnmappedChannels {
		res.Report.UnmappedValues += n
	}
	res.Report.DroppedRecords = res.Report.TotalRecords - len(res.Records)
	res.Report.NumericStats = campaignStats(res.Records)
	return res, nil
}

func cleanCampaignRow(row dataset.Row, channelMode string, channelModeOK bool, caser cases.Caser, opts Options) (model.CampaignRecord, []model.CleaningOp, string, error) {
	var rec model.CampaignRecord
	var ops []model.CleaningOp

	if dataset.Missing(row["campaign_name"]) {
		return rec, nil, "", fmt.Errorf("campaign_name: %w", ErrMissingRequired)
	}
	rawName := dataset.String(row["campaign_name"])
	rec.Name = normalizeName(rawName, caser)

	if dataset.Missing(row["date"]) {
		return rec, nil, "", fmt.Errorf("date: %w", ErrMissingRequired)
	}
	date, err := dataset.Date(row["date"])
	if err != nil {
		return rec, nil, "", fmt.Errorf("date: %w: %v", ErrMalformedValue, err)
	}
	rec.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	identity := campaignIdentity(rec)
	if rec.Name != rawName {
		ops = append(ops, model.CleaningOp{
			OriginalValue: rawName,
			NewValue:      rec.Name,
			Entity:        model.EntityCampaign,
			Column:        "campaign_name",
			RowIdentity:   identity,
			Action:        model.ActionNormalizeName,
			Reason:        "collapsed whitespace and title-cased",
		})
	}

	if rec.Cost, err = requiredMoney(row, "cost"); err != nil {
		return rec, nil, "", err
	}
	if rec.Revenue, err = requiredMoney(row, "revenue"); err != nil {
		return rec, nil, "", err
	}

	counts := []struct {
		column string
		dst    *int64
	}{
		{"impressions", &rec.Impressions},
		{"clicks", &rec.Clicks},
		{"conversions", &rec.Conversions},
	}
	for _, c := range counts {
		v := row[c.column]
		if dataset.Missing(v) {
			ops = append(ops, model.CleaningOp{
				OriginalValue: v,
				NewValue:      int64(0),
				Entity:        model.EntityCampaign,
				Column:        c.column,
				RowIdentity:   identity,
				Action:        model.ActionImputeZero,
				Reason:        "missing count imputed as zero",
			})
			continue
		}
		n, err := dataset.Int(v)
		if err != nil {
			return rec, nil, "", fmt.Errorf("%s: %w: %v", c.column, ErrMalformedValue, err)
		}
		*c.dst = n
	}

	var channel string
	if dataset.Missing(row["channel"]) {
		if !channelModeOK {
			return rec, nil, "", fmt.Errorf("channel: %w: no observed values to impute from", ErrMissingRequired)
		}
		channel = channelMode
		ops = append(ops, model.CleaningOp{
			OriginalValue: row["channel"],
			NewValue:      channelMode,
			Entity:        model.EntityCampaign,
			Column:        "channel",
			RowIdentity:   identity,
			Action:        model.ActionImputeMode,
			Reason:        "missing channel imputed with the column mode",
		})
	} else {
		channel = strings.TrimSpace(dataset.String(row["channel"]))
	}

	unmapped := ""
	canon, ok := model.CanonicalChannel(channel)
	switch {
	case ok:
		if canon != channel {
			ops = append(ops, model.CleaningOp{
				OriginalValue: channel,
				NewValue:      canon,
				Entity:        model.EntityCampaign,
				Column:        "channel",
				RowIdentity:   identity,
				Action:        model.ActionNormalizeChannel,
				Reason:        "resolved through the synonym table",
			})
		}
		rec.Channel = canon
	case opts.CoerceUnmappedChannels:
		unmapped = canon
		ops = append(ops, model.CleaningOp{
			OriginalValue: channel,
			NewValue:      model.ChannelOther,
			Entity:        model.EntityCampaign,
			Column:        "channel",
			RowIdentity:   identity,
			Action:        model.ActionCoerceChannel,
			Reason:        "unmapped channel coerced to the catch-all",
		})
		rec.Channel = model.ChannelOther
	default:
		unmapped = canon
		rec.Channel = canon
	}

	return rec, ops, unmapped, nil
}

func requiredMoney(row dataset.Row, column string) (float64, error) {
	v := row[column]
	if dataset.Missing(v) {
		return 0, fmt.Errorf("%s: %w", column, ErrMissingRequired)
	}
	f, err := dataset.Float(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", column, ErrMalformedValue, err)
	}
	return f, nil
}

func normalizeName(raw string, caser cases.Caser) string {
	return caser.String(strings.Join(strings.Fields(raw), " "))
}

func campaignIdentity(rec model.CampaignRecord) string {
	return fmt.Sprintf("%q (%s)", rec.Name, formatDate(rec.Date))
}
