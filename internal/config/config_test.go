package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-harvester/internal/common"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.False(t, cfg.Pipeline.SkipErrors)
	assert.False(t, cfg.Pipeline.CoerceUnmappedChannels)
	assert.Equal(t, 2, cfg.Segmentation.MinClusters)
	assert.Equal(t, 10, cfg.Segmentation.MaxClusters)
	assert.InDelta(t, 0.10, cfg.Segmentation.ElbowThreshold, 1e-9)
	assert.Equal(t, int64(42), cfg.Segmentation.RandomSeed)
	assert.Equal(t, 10, cfg.Segmentation.NInit)
	assert.Len(t, cfg.Segmentation.Features, 6)
	assert.Equal(t, 1.5, cfg.Cleaning.OutlierIQRMultiplier)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(_ *Config) {},
		},
		{
			name:    "unsupported driver",
			mutate:  func(c *Config) { c.Database.Driver = "oracle" },
			wantErr: "unsupported database driver",
		},
		{
			name:    "empty dsn",
			mutate:  func(c *Config) { c.Database.DSN = "" },
			wantErr: "DSN is required",
		},
		{
			name:    "zero IQR multiplier",
			mutate:  func(c *Config) { c.Cleaning.OutlierIQRMultiplier = 0 },
			wantErr: "IQR multiplier must be positive",
		},
		{
			name:    "no features",
			mutate:  func(c *Config) { c.Segmentation.Features = nil },
			wantErr: "at least one segmentation feature",
		},
		{
			name:    "unknown feature",
			mutate:  func(c *Config) { c.Segmentation.Features = []string{"shoe_size"} },
			wantErr: "unknown segmentation feature",
		},
		{
			name:    "min clusters below two",
			mutate:  func(c *Config) { c.Segmentation.MinClusters = 1 },
			wantErr: "min clusters must be at least 2",
		},
		{
			name: "inverted cluster range",
			mutate: func(c *Config) {
				c.Segmentation.MinClusters = 8
				c.Segmentation.MaxClusters = 3
			},
			wantErr: "below min clusters",
		},
		{
			name:    "elbow threshold too large",
			mutate:  func(c *Config) { c.Segmentation.ElbowThreshold = 1.5 },
			wantErr: "elbow threshold",
		},
		{
			name:    "elbow threshold zero",
			mutate:  func(c *Config) { c.Segmentation.ElbowThreshold = 0 },
			wantErr: "elbow threshold",
		},
		{
			name:    "zero restarts",
			mutate:  func(c *Config) { c.Segmentation.NInit = 0 },
			wantErr: "n_init",
		},
		{
			name:    "multi-character delimiter",
			mutate:  func(c *Config) { c.Export.Delimiter = ",," },
			wantErr: "delimiter",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ViperOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("database.driver", "postgres")
	viper.Set("database.dsn", "postgres://analyst@localhost/marketing")
	viper.Set("pipeline.skip_errors", true)
	viper.Set("segmentation.max_clusters", 6)
	viper.Set("segmentation.random_seed", 7)
	viper.Set("export.delimiter", ";")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://analyst@localhost/marketing", cfg.Database.DSN)
	assert.True(t, cfg.Pipeline.SkipErrors)
	assert.Equal(t, 6, cfg.Segmentation.MaxClusters)
	assert.Equal(t, int64(7), cfg.Segmentation.RandomSeed)
	assert.Equal(t, ";", cfg.Export.Delimiter)

	// Untouched keys keep their defaults.
	assert.Equal(t, 2, cfg.Segmentation.MinClusters)
	assert.InDelta(t, 0.10, cfg.Segmentation.ElbowThreshold, 1e-9)
}

func TestLoad_InvalidRejected(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("segmentation.min_clusters", 9)
	viper.Set("segmentation.max_clusters", 4)

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "below min clusters")
}

func TestValidate_MissingDSNSentinel(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = ""
	assert.ErrorIs(t, cfg.Validate(), common.ErrMissingConfig)
}

func TestLoad_EnvDSNFallback(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("DATABASE_URL", "mysql://analyst@db/marketing")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql://analyst@db/marketing", cfg.Database.DSN)
}
