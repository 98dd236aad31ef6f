// Package storage provides read-only access to the marketing source store.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/Veraticus/spice-harvester/internal/common"
	"github.com/Veraticus/spice-harvester/internal/dataset"
	"github.com/Veraticus/spice-harvester/internal/service"
)

// Source queries, one per logical table. Row order is part of the
// cleaning contract: duplicate handling keeps first occurrences.
const (
	campaignsQuery = `SELECT * FROM campaigns ORDER BY date, campaign_id`
	customersQuery = `SELECT * FROM customers ORDER BY customer_id`
)

// SQLSource implements service.RecordSource over a SQL database.
type SQLSource struct {
	db     *sqlx.DB
	driver string
	retry  service.RetryOptions
}

// NewSQLSource opens the source store for the given driver and DSN.
func NewSQLSource(driver, dsn string) (*SQLSource, error) {
	if err := validateString(driver, "driver"); err != nil {
		return nil, err
	}
	if err := validateString(dsn, "dsn"); err != nil {
		return nil, err
	}

	switch driver {
	case "sqlite3":
		// Ensure the directory exists so a scratch store can be created
		// in-place.
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	case "mysql":
		// Date columns must come back as time.Time.
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open source store: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't benefit from multiple connections.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(4)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
	}

	return &SQLSource{
		db:     db,
		driver: driver,
		retry:  service.RetryOptions{MaxAttempts: 3},
	}, nil
}

// LoadCampaigns reads the campaigns table in date order.
func (s *SQLSource) LoadCampaigns(ctx context.Context) (*dataset.Table, error) {
	return s.loadTable(ctx, "campaigns", campaignsQuery)
}

// LoadCustomers reads the customers table in id order.
func (s *SQLSource) LoadCustomers(ctx context.Context) (*dataset.Table, error) {
	return s.loadTable(ctx, "customers", customersQuery)
}

// Ping verifies the source store is reachable.
func (s *SQLSource) Ping(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSourceUnavailable, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

func (s *SQLSource) loadTable(ctx context.Context, name, query string) (*dataset.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var table *dataset.Table
	err := common.WithRetry(ctx, func() error {
		t, qErr := s.queryTable(ctx, query)
		if qErr != nil {
			return fmt.Errorf("failed to load %s: %w", name, qErr)
		}
		table = t
		return nil
	}, s.retry)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded source table",
		"table", name,
		"rows", table.Len(),
		"columns", len(table.Columns))
	return table, nil
}

func (s *SQLSource) queryTable(ctx context.Context, query string) (*dataset.Table, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := dataset.New(cols...)
	for rows.Next() {
		row := make(dataset.Row, len(cols))
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		table.Append(normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// normalizeRow rewrites driver byte slices to strings so downstream
// stages see one representation for text and decimal columns.
func normalizeRow(row dataset.Row) dataset.Row {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
	return row
}
