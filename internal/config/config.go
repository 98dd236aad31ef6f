// Package config provides configuration loading for the pipeline.
package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/viper"

	"github.com/Veraticus/spice-harvester/internal/common"
	"github.com/Veraticus/spice-harvester/internal/model"
)

// Drivers accepted for database.driver.
var supportedDrivers = []string{"sqlite3", "mysql", "postgres"}

// Config carries every runtime setting for a pipeline run. It is loaded
// once at startup and passed by value into component constructors; no
// component reads viper directly.
type Config struct {
	Database     DatabaseConfig
	Logging      LoggingConfig
	Output       OutputConfig
	Export       ExportConfig
	Segmentation SegmentationConfig
	Cleaning     CleaningConfig
	Pipeline     PipelineConfig
}

// DatabaseConfig selects the source store holding the campaigns and
// customers tables.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// PipelineConfig controls run-level behavior.
type PipelineConfig struct {
	// SkipErrors continues past business-rule violations, excluding and
	// logging the offending rows instead of aborting the run.
	SkipErrors bool
	// CoerceUnmappedChannels rewrites unrecognized channel values to
	// "Other" instead of passing them through unchanged.
	CoerceUnmappedChannels bool
}

// CleaningConfig controls the record cleaner.
type CleaningConfig struct {
	// OutlierIQRMultiplier widens the interquartile fences used for
	// advisory cost-outlier flagging.
	OutlierIQRMultiplier float64
}

// SegmentationConfig controls the customer segmentation engine.
type SegmentationConfig struct {
	Features       []string
	MinClusters    int
	MaxClusters    int
	ElbowThreshold float64
	RandomSeed     int64
	// NInit is the number of seeded k-means restarts per candidate k;
	// the best-inertia fit wins.
	NInit int
}

// OutputConfig names the directories run artifacts are written to.
type OutputConfig struct {
	ProcessedDir string
	ReportsDir   string
	ExportDir    string
}

// ExportConfig controls the delimited-file export sink.
type ExportConfig struct {
	Delimiter string
}

// LoggingConfig controls the slog handler installed at startup.
type LoggingConfig struct {
	Level  string
	Format string
}

// Default returns the configuration used when no file, flag, or
// environment override is present.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "harvester.db",
		},
		Pipeline: PipelineConfig{
			SkipErrors:             false,
			CoerceUnmappedChannels: false,
		},
		Cleaning: CleaningConfig{
			OutlierIQRMultiplier: 1.5,
		},
		Segmentation: SegmentationConfig{
			Features:       model.DefaultFeatures(),
			MinClusters:    2,
			MaxClusters:    10,
			ElbowThreshold: 0.10,
			RandomSeed:     42,
			NInit:          10,
		},
		Output: OutputConfig{
			ProcessedDir: "data/processed",
			ReportsDir:   "reports",
			ExportDir:    "exports",
		},
		Export: ExportConfig{
			Delimiter: ",",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config from viper, starting from defaults, and validates
// it. Viper must already have its file, env, and flag sources wired by
// the caller.
func Load() (Config, error) {
	cfg := Default()

	if v := viper.GetString("database.driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v := viper.GetString("database.dsn"); v != "" {
		cfg.Database.DSN = v
	}
	// DSN may also arrive via the environment, typically from a .env
	// file holding credentials.
	if cfg.Database.DSN == "" || !viper.IsSet("database.dsn") {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			cfg.Database.DSN = v
		}
	}

	if viper.IsSet("pipeline.skip_errors") {
		cfg.Pipeline.SkipErrors = viper.GetBool("pipeline.skip_errors")
	}
	if viper.IsSet("pipeline.coerce_unmapped_channels") {
		cfg.Pipeline.CoerceUnmappedChannels = viper.GetBool("pipeline.coerce_unmapped_channels")
	}

	if viper.IsSet("cleaning.outlier_iqr_multiplier") {
		cfg.Cleaning.OutlierIQRMultiplier = viper.GetFloat64("cleaning.outlier_iqr_multiplier")
	}

	if viper.IsSet("segmentation.features") {
		cfg.Segmentation.Features = viper.GetStringSlice("segmentation.features")
	}
	if viper.IsSet("segmentation.min_clusters") {
		cfg.Segmentation.MinClusters = viper.GetInt("segmentation.min_clusters")
	}
	if viper.IsSet("segmentation.max_clusters") {
		cfg.Segmentation.MaxClusters = viper.GetInt("segmentation.max_clusters")
	}
	if viper.IsSet("segmentation.elbow_threshold") {
		cfg.Segmentation.ElbowThreshold = viper.GetFloat64("segmentation.elbow_threshold")
	}
	if viper.IsSet("segmentation.random_seed") {
		cfg.Segmentation.RandomSeed = viper.GetInt64("segmentation.random_seed")
	}
	if viper.IsSet("segmentation.n_init") {
		cfg.Segmentation.NInit = viper.GetInt("segmentation.n_init")
	}

	if v := viper.GetString("output.processed_dir"); v != "" {
		cfg.Output.ProcessedDir = ExpandPath(v)
	}
	if v := viper.GetString("output.reports_dir"); v != "" {
		cfg.Output.ReportsDir = ExpandPath(v)
	}
	if v := viper.GetString("output.export_dir"); v != "" {
		cfg.Output.ExportDir = ExpandPath(v)
	}

	if v := viper.GetString("export.delimiter"); v != "" {
		cfg.Export.Delimiter = v
	}

	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.Logging.Format = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate ensures the configuration is internally consistent.
func (c *Config) Validate() error {
	if !slices.Contains(supportedDrivers, c.Database.Driver) {
		return fmt.Errorf("unsupported database driver %q (supported: %v)",
			c.Database.Driver, supportedDrivers)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", common.ErrMissingConfig)
	}

	if c.Cleaning.OutlierIQRMultiplier <= 0 {
		return fmt.Errorf("outlier IQR multiplier must be positive, got %v",
			c.Cleaning.OutlierIQRMultiplier)
	}

	seg := c.Segmentation
	if len(seg.Features) == 0 {
		return fmt.Errorf("at least one segmentation feature is required")
	}
	for _, f := range seg.Features {
		if !knownFeature(f) {
			return fmt.Errorf("unknown segmentation feature %q", f)
		}
	}
	if seg.MinClusters < 2 {
		return fmt.Errorf("min clusters must be at least 2, got %d", seg.MinClusters)
	}
	if seg.MaxClusters < seg.MinClusters {
		return fmt.Errorf("max clusters %d is below min clusters %d",
			seg.MaxClusters, seg.MinClusters)
	}
	if seg.ElbowThreshold <= 0 || seg.ElbowThreshold >= 1 {
		return fmt.Errorf("elbow threshold must be in (0, 1), got %v", seg.ElbowThreshold)
	}
	if seg.NInit < 1 {
		return fmt.Errorf("n_init must be at least 1, got %d", seg.NInit)
	}

	if len([]rune(c.Export.Delimiter)) != 1 {
		return fmt.Errorf("export delimiter must be a single character, got %q",
			c.Export.Delimiter)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}

func knownFeature(name string) bool {
	return slices.Contains(model.DefaultFeatures(), name)
}
