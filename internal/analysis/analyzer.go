// Package analysis computes the descriptive and inferential statistics
// over the assembled price time series: corpus summary, category and
// daily aggregations, trend regression, correlations, and consumer-facing
// pattern extraction.
//
// All grouping is explicit (key → rows) followed by explicit reductions,
// so tie-break order and empty-group behavior stay auditable. Standard
// deviations are sample (n-1) throughout. Aggregations over an empty
// table fail with an explicit no-data error rather than producing NaNs.
package analysis

import (
	"context"
	"log/slog"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/config"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// Analyzer computes every aggregation of a pipeline run.
type Analyzer struct {
	logger *slog.Logger
	cfg    config.AnalysisConfig
}

// New creates an analyzer with the given thresholds.
func New(logger *slog.Logger, cfg config.AnalysisConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger, cfg: cfg}
}

// Run computes the full analysis result. It fails fast on an empty table;
// partial results are never returned.
func (a *Analyzer) Run(ctx context.Context, table *timeseries.Table) (*domain.AnalysisResult, error) {
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("analyze", "observation table is empty")
	}

	summary, err := a.Summarize(ctx, table)
	if err != nil {
		return nil, err
	}
	categories, err := a.CategoryAnalysis(ctx, table)
	if err != nil {
		return nil, err
	}
	byDate, err := a.CategoryByDate(ctx, table)
	if err != nil {
		return nil, err
	}
	trends, err := a.DailyTrends(ctx, table)
	if err != nil {
		return nil, err
	}
	correlations, err := a.Correlations(ctx, table)
	if err != nil {
		return nil, err
	}
	patterns, err := a.ConsumerPatterns(ctx, table)
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("observations", table.Len()),
		slog.Int("categories", len(categories)),
		slog.Int("days", len(trends.Days)))

	return &domain.AnalysisResult{
		Summary:          summary,
		Categories:       categories,
		CategoryByDate:   byDate,
		Trends:           trends,
		Correlations:     correlations,
		ConsumerPatterns: patterns,
	}, nil
}
