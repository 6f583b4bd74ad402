// Command pipeline runs the daily price-analysis batch: it loads raw
// product snapshots, cleans and enriches them, assembles the time
// series, computes every aggregation, and writes the outputs.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/config"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/infrastructure"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to the YAML config file (optional)")
	rawDir := flag.String("raw", "", "raw snapshot directory (overrides config)")
	outDir := flag.String("out", "", "processed output directory (overrides config)")
	parallel := flag.Bool("parallel", false, "clean days in parallel (overrides config)")
	flag.Parse()

	// A local .env is optional; its absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *rawDir != "" {
		cfg.Paths.RawDir = *rawDir
	}
	if *outDir != "" {
		cfg.Paths.ProcessedDir = *outDir
	}
	if *parallel {
		cfg.Pipeline.ParallelClean = true
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := pipeline.New(logger, cfg).Run(ctx)
	if err != nil {
		logger.Error("Pipeline run failed",
			slog.String("error_type", string(errors.TypeOf(err))),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Pipeline run finished",
		slog.String("run_id", run.RunID),
		slog.Int("days", run.Days),
		slog.Int("observations", run.Observations),
		slog.Duration("duration", run.Duration))
}
