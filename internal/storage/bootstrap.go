package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the scratch-store schema version Bootstrap
// brings a database to.
const ExpectedSchemaVersion = 2

// Migration represents a scratch-store schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Source tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS campaigns (
					campaign_id INTEGER PRIMARY KEY AUTOINCREMENT,
					campaign_name TEXT NOT NULL,
					channel TEXT,
					cost REAL,
					impressions INTEGER,
					clicks INTEGER,
					conversions INTEGER,
					revenue REAL,
					date DATE NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS customers (
					customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
					age INTEGER,
					gender TEXT,
					country TEXT,
					sessions INTEGER,
					avg_session_duration REAL,
					pages_per_session REAL,
					transactions INTEGER,
					revenue REAL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Query indexes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_campaigns_date ON campaigns(date)`,
				`CREATE INDEX IF NOT EXISTS idx_campaigns_channel ON campaigns(channel)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Bootstrap creates the source schema on a local SQLite scratch store.
// Shared MySQL/Postgres stores are provisioned by their owners; this
// exists so an analyst can run the pipeline against a local copy.
func (s *SQLSource) Bootstrap(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if s.driver != "sqlite3" {
		return fmt.Errorf("%w: bootstrap supports sqlite3 only, store uses %s",
			ErrUnsupportedDriver, s.driver)
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d",
			ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
