package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/classify"
	"github.com/oceandata/floatchat/internal/config"
	httpserver "github.com/oceandata/floatchat/internal/http"
	"github.com/oceandata/floatchat/internal/narrate"
	"github.com/oceandata/floatchat/internal/pipeline"
	"github.com/oceandata/floatchat/internal/store"
	"github.com/oceandata/floatchat/internal/viz"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("floatchat failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, cleanup, err := pickSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	st := store.New(logger, cfg.RejectThreshold)
	if _, err := st.Load(ctx, src); err != nil {
		return err
	}

	regions := classify.DefaultRegions()
	if cfg.RegionsPath != "" {
		regions, err = classify.LoadRegions(cfg.RegionsPath)
		if err != nil {
			return err
		}
		logger.Info("loaded region mapping", zap.String("path", cfg.RegionsPath), zap.Int("regions", len(regions)))
	}

	narrator := narrate.NewClient(
		&http.Client{Timeout: cfg.NarrationWait},
		cfg.NarratorURL, cfg.NarratorKey, cfg.NarratorModel, logger)
	if !cfg.NarratorConfigured() {
		logger.Warn("narrator API key not set, all answers will use the templated fallback")
	}

	pl := pipeline.New(
		st,
		classify.New(regions, logger),
		viz.New(logger),
		narrator,
		logger,
		cfg.NarrationWait,
		cfg.RetryBackoff,
	)

	srv := httpserver.New(cfg, st, src, pl, logger)
	logger.Info("REST API listening", zap.String("addr", cfg.ListenAddr()))

	return srv.Run(ctx)
}

// pickSource chooses the dataset source: postgres when a database URL is
// set, otherwise a CSV file, otherwise the built-in sample generator.
func pickSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Source, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		src, err := store.NewPostgresSource(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres measurement source")
		return src, src.Close, nil
	case cfg.DataPath != "":
		logger.Info("using CSV measurement source", zap.String("path", cfg.DataPath))
		return store.CSVSource{Path: cfg.DataPath}, func() {}, nil
	default:
		logger.Info("no data source configured, using generated sample profiles")
		return store.DefaultSampleSource(), func() {}, nil
	}
}
