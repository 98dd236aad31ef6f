package storage

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/spice-harvester/internal/dataset"
)

// Sample-data vocabularies for SeedDemo.
var (
	demoChannels  = []string{"Email", "Social", "Search", "Display", "Affiliate", "Video"}
	demoSeasons   = []string{"Spring", "Summer", "Autumn", "Winter", "Holiday", "Flash"}
	demoKinds     = []string{"Sale", "Launch", "Promo", "Push"}
	demoGenders   = []string{"Male", "Female", "Other"}
	demoCountries = []string{"USA", "UK", "Germany", "France", "Canada", "Australia", "Japan"}
)

// InsertCampaigns writes raw campaign rows. The pipeline itself never
// writes to the source; this backs scratch-store seeding and tests.
func (s *SQLSource) InsertCampaigns(ctx context.Context, rows []dataset.Row) error {
	return s.insertRows(ctx, "campaigns", rows)
}

// InsertCustomers writes raw customer rows.
func (s *SQLSource) InsertCustomers(ctx context.Context, rows []dataset.Row) error {
	return s.insertRows(ctx, "customers", rows)
}

func (s *SQLSource) insertRows(ctx context.Context, table string, rows []dataset.Row) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	for _, row := range rows {
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		placeholders := make([]string, 0, len(cols))
		for _, col := range cols {
			placeholders = append(placeholders, ":"+col)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table,
			strings.Join(cols, ", "),
			strings.Join(placeholders, ", "))

		if _, err := s.db.NamedExecContext(ctx, query, map[string]any(row)); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// SeedDemo fills the scratch store with generated sample data so the
// pipeline can run end to end without a production source. The same
// seed always generates the same rows.
func (s *SQLSource) SeedDemo(ctx context.Context, seed int64, campaigns, customers int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	campaignRows, customerRows := DemoRows(seed, campaigns, customers)
	if err := s.InsertCampaigns(ctx, campaignRows); err != nil {
		return err
	}
	return s.InsertCustomers(ctx, customerRows)
}

// DemoRows generates the raw sample rows SeedDemo inserts. Customer rows
// continue the same random stream, so the pair is reproducible only as a
// unit.
func DemoRows(seed int64, campaigns, customers int) (campaignRows, customerRows []dataset.Row) {
	rng := rand.New(rand.NewSource(seed))

	campaignRows = make([]dataset.Row, 0, campaigns)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < campaigns; i++ {
		impressions := rng.Intn(99000) + 1000
		clicks := rng.Intn(impressions/10 + 1)
		conversions := 0
		if clicks > 0 {
			conversions = rng.Intn(clicks/4 + 1)
		}
		cost := cents(100 + rng.Float64()*4900)
		revenue := cents(cost * (0.2 + rng.Float64()*2.8))

		campaignRows = append(campaignRows, dataset.Row{
			"campaign_name": fmt.Sprintf("%s %s %d",
				demoSeasons[rng.Intn(len(demoSeasons))],
				demoKinds[rng.Intn(len(demoKinds))],
				i+1),
			"channel":     demoChannels[rng.Intn(len(demoChannels))],
			"cost":        cost,
			"impressions": impressions,
			"clicks":      clicks,
			"conversions": conversions,
			"revenue":     revenue,
			"date":        start.AddDate(0, 0, rng.Intn(365)).Format("2006-01-02"),
		})
	}

	customerRows = make([]dataset.Row, 0, customers)
	for i := 0; i < customers; i++ {
		transactions := rng.Intn(16)
		revenue := 0.0
		if transactions > 0 {
			revenue = cents(float64(transactions) * (20 + rng.Float64()*60))
		}

		customerRows = append(customerRows, dataset.Row{
			"age":                  18 + rng.Intn(58),
			"gender":               demoGenders[rng.Intn(len(demoGenders))],
			"country":              demoCountries[rng.Intn(len(demoCountries))],
			"sessions":             1 + rng.Intn(60),
			"avg_session_duration": cents(30 + rng.Float64()*570),
			"pages_per_session":    cents(1 + rng.Float64()*11),
			"transactions":         transactions,
			"revenue":              revenue,
		})
	}
	return campaignRows, customerRows
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
