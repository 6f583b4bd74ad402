// Package pipeline orchestrates the daily batch: load raw snapshots,
// clean and enrich each day, assemble the time series, analyze it, and
// write every output. Each run is identified by a run ID carried through
// logs and the results database.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/analysis"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/cleaning"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/config"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/exporter"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/loader"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/store"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// RunResult summarizes a completed pipeline run.
type RunResult struct {
	RunID        string                 `json:"run_id"`
	Days         int                    `json:"days"`
	Observations int                    `json:"observations"`
	Reports      []cleaning.CleanReport `json:"clean_reports"`
	Duration     time.Duration          `json:"duration"`
}

// Runner wires the pipeline stages together.
type Runner struct {
	logger   *slog.Logger
	cfg      *config.Config
	loader   *loader.Loader
	cleaner  *cleaning.Cleaner
	enricher *cleaning.Enricher
	analyzer *analysis.Analyzer
}

// New creates a pipeline runner from the loaded configuration.
func New(logger *slog.Logger, cfg *config.Config) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger:   logger,
		cfg:      cfg,
		loader:   loader.New(logger, cfg.Paths),
		cleaner:  cleaning.NewCleaner(logger),
		enricher: cleaning.NewEnricher(cfg.Analysis),
		analyzer: analysis.New(logger, cfg.Analysis),
	}
}

// Run executes the full batch. Outputs are written only after every
// computation stage has succeeded, so a failed run leaves no partial
// export behind.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.New().String()
	started := time.Now()
	logger := r.logger.With(slog.String("run_id", runID))

	logger.InfoContext(ctx, "pipeline run starting",
		slog.String("raw_dir", r.cfg.Paths.RawDir),
		slog.String("out_dir", r.cfg.Paths.ProcessedDir))

	snapshots, err := r.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	daily, reports, err := r.cleanAll(ctx, snapshots)
	if err != nil {
		return nil, err
	}

	table, err := timeseries.Assemble(daily)
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("assemble",
			"no valid observations survived cleaning")
	}

	result, err := r.analyzer.Run(ctx, table)
	if err != nil {
		return nil, err
	}

	if err := r.persist(ctx, runID, table, result); err != nil {
		return nil, err
	}

	if err := r.export(ctx, daily, table, result); err != nil {
		return nil, err
	}

	run := &RunResult{
		RunID:        runID,
		Days:         len(daily),
		Observations: table.Len(),
		Reports:      reports,
		Duration:     time.Since(started),
	}

	logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("days", run.Days),
		slog.Int("observations", run.Observations),
		slog.Duration("duration", run.Duration))

	return run, nil
}

// cleanAll cleans and enriches every day. Days are independent, so the
// parallel path produces output identical to the sequential one: results
// land in a date-keyed map and reports are reassembled in date order.
func (r *Runner) cleanAll(ctx context.Context, snapshots domain.Snapshots) (domain.DailyCollection, []cleaning.CleanReport, error) {
	dates := snapshots.Dates()
	daily := make(domain.DailyCollection, len(dates))
	reportsByDate := make(map[string]cleaning.CleanReport, len(dates))

	if r.cfg.Pipeline.ParallelClean && len(dates) > 1 {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.cfg.Pipeline.CleanWorkers)

		for _, date := range dates {
			date := date
			g.Go(func() error {
				cleaned, report := r.cleaner.CleanDay(gctx, date, snapshots[date])
				enriched := r.enricher.EnrichDay(cleaned)
				mu.Lock()
				daily[date] = enriched
				reportsByDate[date] = report
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, errors.NewExecutionError("clean", err)
		}
	} else {
		for _, date := range dates {
			cleaned, report := r.cleaner.CleanDay(ctx, date, snapshots[date])
			daily[date] = r.enricher.EnrichDay(cleaned)
			reportsByDate[date] = report
		}
	}

	reports := make([]cleaning.CleanReport, 0, len(dates))
	for _, date := range dates {
		reports = append(reports, reportsByDate[date])
	}
	return daily, reports, nil
}

// persist writes the run into the results database in one transaction.
func (r *Runner) persist(ctx context.Context, runID string, table *timeseries.Table, result *domain.AnalysisResult) error {
	db, err := store.Open(r.logger, r.cfg.Paths.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	return db.SaveRun(ctx, runID, table, result.Categories, result.Trends)
}

// export writes every file output. Ordering mirrors the stage order so a
// reader of the output directory can follow the pipeline.
func (r *Runner) export(ctx context.Context, daily domain.DailyCollection, table *timeseries.Table, result *domain.AnalysisResult) error {
	outDir := r.cfg.Paths.ProcessedDir
	jsonW := exporter.NewJSONWriter(r.logger, outDir)
	csvW := exporter.NewCSVWriter(r.logger, outDir)
	excelW := exporter.NewExcelWriter(r.logger, outDir)

	if err := jsonW.WriteCleanedCollection(daily); err != nil {
		return err
	}
	if err := csvW.WriteTimeSeries(table); err != nil {
		return err
	}
	if err := jsonW.WriteSummary(result.Summary); err != nil {
		return err
	}
	if err := csvW.WriteCategoryAnalysis(result.Categories); err != nil {
		return err
	}
	if err := csvW.WriteCategoryDaily(result.CategoryByDate); err != nil {
		return err
	}
	if err := csvW.WriteDailyTrends(result.Trends); err != nil {
		return err
	}
	if err := csvW.WriteCorrelationMatrix(result.Correlations); err != nil {
		return err
	}
	if err := jsonW.WritePatterns(result.ConsumerPatterns); err != nil {
		return err
	}
	if err := excelW.WriteWorkbook(result); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "exports written", slog.String("out_dir", outDir))
	return nil
}
