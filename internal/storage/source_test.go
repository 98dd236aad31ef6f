package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Veraticus/spice-harvester/internal/dataset"
)

// Helper function to create a bootstrapped scratch source.
func createTestSource(t *testing.T) (*SQLSource, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	source, err := NewSQLSource("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	ctx := context.Background()
	if err := source.Bootstrap(ctx); err != nil {
		_ = source.Close()
		t.Fatalf("Failed to bootstrap: %v", err)
	}

	return source, func() { _ = source.Close() }
}

func TestNewSQLSource_Validation(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dsn     string
		wantErr error
	}{
		{name: "empty driver", driver: "", dsn: "test.db", wantErr: ErrEmptyString},
		{name: "empty dsn", driver: "sqlite3", dsn: "", wantErr: ErrEmptyString},
		{name: "unsupported driver", driver: "oracle", dsn: "test.db", wantErr: ErrUnsupportedDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSQLSource(tt.driver, tt.dsn)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSQLSource_LoadCampaigns(t *testing.T) {
	source, cleanup := createTestSource(t)
	defer cleanup()
	ctx := context.Background()

	rows := []dataset.Row{
		{
			"campaign_name": "Winter Push",
			"channel":       "Social",
			"cost":          250.0,
			"impressions":   5000,
			"clicks":        300,
			"conversions":   20,
			"revenue":       900.0,
			"date":          "2024-02-01",
		},
		{
			"campaign_name": "New Year Sale",
			"channel":       nil,
			"cost":          100.0,
			"impressions":   1000,
			"clicks":        50,
			"conversions":   5,
			"revenue":       150.0,
			"date":          "2024-01-01",
		},
	}
	if err := source.InsertCampaigns(ctx, rows); err != nil {
		t.Fatalf("InsertCampaigns() error: %v", err)
	}

	table, err := source.LoadCampaigns(ctx)
	if err != nil {
		t.Fatalf("LoadCampaigns() error: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("loaded %d rows, want 2", table.Len())
	}
	for _, col := range []string{"campaign_name", "channel", "cost", "impressions", "clicks", "conversions", "revenue", "date"} {
		if !table.HasColumn(col) {
			t.Errorf("missing column %q", col)
		}
	}

	// Rows come back in date order regardless of insert order.
	first := dataset.String(table.Rows[0]["campaign_name"])
	if first != "New Year Sale" {
		t.Errorf("first row = %q, want New Year Sale", first)
	}

	// NULL channel survives as a missing value.
	if !dataset.Missing(table.Rows[0]["channel"]) {
		t.Errorf("channel = %v, want missing", table.Rows[0]["channel"])
	}

	cost, err := dataset.Float(table.Rows[0]["cost"])
	if err != nil || cost != 100.0 {
		t.Errorf("cost = %v (err %v), want 100", cost, err)
	}

	date, err := dataset.Date(table.Rows[0]["date"])
	if err != nil || date.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("date = %v (err %v), want 2024-01-01", date, err)
	}
}

func TestSQLSource_LoadCustomers(t *testing.T) {
	source, cleanup := createTestSource(t)
	defer cleanup()
	ctx := context.Background()

	rows := []dataset.Row{
		{
			"age":                  34,
			"gender":               "Female",
			"country":              "Germany",
			"sessions":             12,
			"avg_session_duration": 182.5,
			"pages_per_session":    4.2,
			"transactions":         3,
			"revenue":              420.75,
		},
		{
			"age":                  nil,
			"gender":               "Male",
			"country":              "USA",
			"sessions":             2,
			"avg_session_duration": 45.0,
			"pages_per_session":    1.5,
			"transactions":         0,
			"revenue":              0.0,
		},
	}
	if err := source.InsertCustomers(ctx, rows); err != nil {
		t.Fatalf("InsertCustomers() error: %v", err)
	}

	table, err := source.LoadCustomers(ctx)
	if err != nil {
		t.Fatalf("LoadCustomers() error: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("loaded %d rows, want 2", table.Len())
	}
	if !dataset.Missing(table.Rows[1]["age"]) {
		t.Errorf("age = %v, want missing", table.Rows[1]["age"])
	}

	revenue, err := dataset.Float(table.Rows[0]["revenue"])
	if err != nil || revenue != 420.75 {
		t.Errorf("revenue = %v (err %v), want 420.75", revenue, err)
	}
}

func TestSQLSource_LoadEmptyTable(t *testing.T) {
	source, cleanup := createTestSource(t)
	defer cleanup()

	table, err := source.LoadCampaigns(context.Background())
	if err != nil {
		t.Fatalf("LoadCampaigns() error: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("loaded %d rows, want 0", table.Len())
	}
	if len(table.Columns) == 0 {
		t.Error("empty table should still declare its columns")
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	source, cleanup := createTestSource(t)
	defer cleanup()

	// A second bootstrap over an up-to-date store is a no-op.
	if err := source.Bootstrap(context.Background()); err != nil {
		t.Fatalf("second Bootstrap() error: %v", err)
	}
}

func TestSeedDemo_Deterministic(t *testing.T) {
	ctx := context.Background()

	loadFirstName := func(t *testing.T) string {
		t.Helper()
		source, cleanup := createTestSource(t)
		defer cleanup()

		if err := source.SeedDemo(ctx, 42, 25, 40); err != nil {
			t.Fatalf("SeedDemo() error: %v", err)
		}
		table, err := source.LoadCampaigns(ctx)
		if err != nil {
			t.Fatalf("LoadCampaigns() error: %v", err)
		}
		if table.Len() != 25 {
			t.Fatalf("seeded %d campaigns, want 25", table.Len())
		}
		return dataset.String(table.Rows[0]["campaign_name"])
	}

	first := loadFirstName(t)
	second := loadFirstName(t)
	if first != second {
		t.Errorf("same seed produced different data: %q vs %q", first, second)
	}
}

func TestSeedDemo_Invariants(t *testing.T) {
	source, cleanup := createTestSource(t)
	defer cleanup()
	ctx := context.Background()

	if err := source.SeedDemo(ctx, 7, 50, 10); err != nil {
		t.Fatalf("SeedDemo() error: %v", err)
	}

	table, err := source.LoadCampaigns(ctx)
	if err != nil {
		t.Fatalf("LoadCampaigns() error: %v", err)
	}

	for i, row := range table.Rows {
		impressions, _ := dataset.Int(row["impressions"])
		clicks, _ := dataset.Int(row["clicks"])
		conversions, _ := dataset.Int(row["conversions"])
		cost, _ := dataset.Float(row["cost"])

		if clicks > impressions {
			t.Errorf("row %d: clicks %d > impressions %d", i, clicks, impressions)
		}
		if conversions > clicks {
			t.Errorf("row %d: conversions %d > clicks %d", i, conversions, clicks)
		}
		if cost < 0 {
			t.Errorf("row %d: negative cost %v", i, cost)
		}
	}
}
