package analysis

import (
	"context"
	"log/slog"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

// Summarize computes the corpus-level descriptive statistics.
func (a *Analyzer) Summarize(ctx context.Context, table *timeseries.Table) (*domain.SummaryStats, error) {
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("summarize", "observation table is empty")
	}

	skus := make(map[string]struct{})
	prices := make([]float64, 0, table.Len())
	var discounted []float64
	maxDiscount := 0.0

	for _, row := range table.Rows {
		skus[row.SKU] = struct{}{}
		prices = append(prices, row.OriginalPrice)
		if row.DiscountPercent > 0 {
			discounted = append(discounted, row.DiscountPercent)
		}
		if row.DiscountPercent > maxDiscount {
			maxDiscount = row.DiscountPercent
		}
	}

	dates := table.Dates()

	stats := &domain.SummaryStats{
		TotalProducts:     len(skus),
		TotalObservations: table.Len(),
		DateRange: domain.DateRange{
			Start:   dates[0].Format(dateLayout),
			End:     dates[len(dates)-1].Format(dateLayout),
			NumDays: len(dates),
		},
		Categories: table.Categories(),
		Price: domain.PriceStatistics{
			Mean:   round2(mean(prices)),
			Median: round2(median(prices)),
			Min:    round2(minOf(prices)),
			Max:    round2(maxOf(prices)),
		},
		Discount: domain.DiscountStatistics{
			OnSalePercent: round2(float64(len(discounted)) / float64(table.Len()) * 100),
			MaxDiscount:   maxDiscount,
		},
	}

	// The mean discount is restricted to rows actually on sale. When no
	// row has a discount the value is undefined, not zero.
	if len(discounted) > 0 {
		m := round2(mean(discounted))
		stats.Discount.MeanDiscount = &m
	}

	a.logger.InfoContext(ctx, "summary statistics computed",
		slog.Int("unique_products", stats.TotalProducts),
		slog.Int("observations", stats.TotalObservations),
		slog.Int("days", stats.DateRange.NumDays),
		slog.Int("categories", len(stats.Categories)))

	return stats, nil
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
