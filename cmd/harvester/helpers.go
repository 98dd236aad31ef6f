package main

import (
	"context"
	"log/slog"

	"github.com/Veraticus/spice-harvester/internal/common"
	"github.com/Veraticus/spice-harvester/internal/config"
	"github.com/Veraticus/spice-harvester/internal/pipeline"
	"github.com/Veraticus/spice-harvester/internal/storage"
)

// openSource loads the config and connects to the source store.
func openSource(ctx context.Context) (*storage.SQLSource, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}

	src, err := storage.NewSQLSource(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, config.Config{}, common.NewUserError("Could not open the source store", err)
	}
	if err := src.Ping(ctx); err != nil {
		closeSource(src)
		return nil, config.Config{}, common.NewUserError("Could not reach the source store; check database.driver and database.dsn", err)
	}

	return src, cfg, nil
}

func closeSource(src *storage.SQLSource) {
	if err := src.Close(); err != nil {
		slog.Error("Failed to close source store", "error", err)
	}
}

// runPipeline executes the full pipeline against the configured source.
// The result carries whatever artifacts completed even when err is
// non-nil; callers decide how much of a partial run they can use.
func runPipeline(ctx context.Context) (*pipeline.Result, config.Config, error) {
	src, cfg, err := openSource(ctx)
	if err != nil {
		return nil, config.Config{}, err
	}
	defer closeSource(src)

	result, err := pipeline.New(src, cfg).Run(ctx)
	return result, cfg, err
}
