// Package export writes pipeline artifacts to dashboard-ready CSV files
// plus a JSON manifest describing them.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/spice-harvester/internal/model"
	"github.com/Veraticus/spice-harvester/internal/service"
)

const (
	campaignFile = "campaign_data.csv"
	customerFile = "customer_segments.csv"
	channelFile  = "channel_performance.csv"
	profileFile  = "segment_profiles.csv"
	manifestFile = "export_manifest.json"
)

// Config holds the export destination and formatting options.
type Config struct {
	// Dir is the directory the CSV files and manifest are written to. It
	// is created if it does not exist.
	Dir string

	// Delimiter separates CSV fields. Zero means comma.
	Delimiter rune

	// Features are the profile columns written to the segment profile
	// file. Empty means the default feature set.
	Features []string
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("export directory is required")
	}
	return nil
}

// Writer implements the ExportWriter interface for local CSV files.
type Writer struct {
	logger *slog.Logger
	config Config
}

// NewWriter creates a new CSV export writer.
func NewWriter(config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if len(config.Features) == 0 {
		config.Features = model.DefaultFeatures()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		config: config,
		logger: logger,
	}, nil
}

// Write implements the ExportWriter interface. It writes one CSV per
// artifact table plus a manifest, and returns the paths it wrote.
func (w *Writer) Write(ctx context.Context, artifacts *service.Artifacts) ([]string, error) {
	w.logger.Info("starting export",
		"dir", w.config.Dir,
		"campaigns", len(artifacts.Campaigns),
		"customers", len(artifacts.Customers))

	if err := os.MkdirAll(w.config.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	tables := []exportTable{
		{campaignFile, campaignHeader(), campaignRows(artifacts.Campaigns)},
		{channelFile, channelHeader(), channelRows(artifacts.Channels)},
		{customerFile, customerHeader(), customerRows(artifacts.Customers)},
		{profileFile, profileHeader(w.config.Features), profileRows(artifacts.Segments, w.config.Features)},
	}

	written := make([]string, 0, len(tables)+1)
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := filepath.Join(w.config.Dir, table.name)
		if err := w.writeCSV(path, table.header, table.rows); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", table.name, err)
		}
		written = append(written, path)
		w.logger.Info("wrote export file", "file", table.name, "rows", len(table.rows))
	}

	manifestPath := filepath.Join(w.config.Dir, manifestFile)
	if err := w.writeManifest(manifestPath, artifacts, tables); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", manifestFile, err)
	}
	written = append(written, manifestPath)

	w.logger.Info("export completed", "files", len(written))
	return written, nil
}

// exportTable pairs a file name with its CSV contents.
type exportTable struct {
	name   string
	header []string
	rows   [][]string
}

func (w *Writer) writeCSV(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is built from the configured export dir
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	cw := csv.NewWriter(f)
	cw.Comma = w.config.Delimiter
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// manifest describes the exported files so a dashboard refresh can
// discover them without scanning the directory.
type manifest struct {
	DashboardName string           `json:"dashboard_name"`
	Version       string           `json:"version"`
	RunID         string           `json:"run_id"`
	CreatedDate   string           `json:"created_date"`
	DataSources   []manifestSource `json:"data_sources"`
}

type manifestSource struct {
	Name            string `json:"name"`
	File            string `json:"file"`
	Type            string `json:"type"`
	UpdateFrequency string `json:"update_frequency"`
	Rows            int    `json:"rows"`
}

func (w *Writer) writeManifest(path string, artifacts *service.Artifacts, tables []exportTable) error {
	frequency := map[string]string{
		campaignFile: "Daily",
		channelFile:  "Daily",
		customerFile: "Weekly",
		profileFile:  "Weekly",
	}
	displayName := map[string]string{
		campaignFile: "Campaign Data",
		channelFile:  "Channel Performance",
		customerFile: "Customer Segments",
		profileFile:  "Segment Profiles",
	}

	m := manifest{
		DashboardName: "Marketing Campaign Analysis",
		Version:       "1.0.0",
		RunID:         artifacts.RunID,
		CreatedDate:   artifacts.GeneratedAt.Format(time.RFC3339),
	}
	for _, table := range tables {
		m.DataSources = append(m.DataSources, manifestSource{
			Name:            displayName[table.name],
			File:            table.name,
			Type:            "CSV",
			UpdateFrequency: frequency[table.name],
			Rows:            len(table.rows),
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
