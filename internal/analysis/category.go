package analysis

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// groupByCategory returns category → rows preserving row order within each
// group, with keys in first-seen order.
func groupByCategory(table *timeseries.Table) ([]string, map[string][]domain.Observation) {
	groups := make(map[string][]domain.Observation)
	var order []string
	for _, row := range table.Rows {
		if _, ok := groups[row.Category]; !ok {
			order = append(order, row.Category)
		}
		groups[row.Category] = append(groups[row.Category], row)
	}
	return order, groups
}

// CategoryAnalysis computes the per-category discount metrics, sorted by
// descending mean discount for presentation. The sort is stable so equal
// means keep first-seen category order.
func (a *Analyzer) CategoryAnalysis(ctx context.Context, table *timeseries.Table) ([]domain.CategoryStats, error) {
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("category_analysis", "observation table is empty")
	}

	order, groups := groupByCategory(table)
	stats := make([]domain.CategoryStats, 0, len(order))

	for _, category := range order {
		rows := groups[category]

		discounts := make([]float64, len(rows))
		savings := make([]float64, len(rows))
		skus := make(map[string]struct{})
		onSale := 0
		for i, row := range rows {
			discounts[i] = row.DiscountPercent
			savings[i] = row.SavingsAmount
			skus[row.SKU] = struct{}{}
			if row.DiscountPercent > 0 {
				onSale++
			}
		}

		std := sampleStd(discounts)
		if math.IsNaN(std) {
			std = 0
		}

		stats = append(stats, domain.CategoryStats{
			Category:       category,
			AvgDiscount:    round2(mean(discounts)),
			MedianDiscount: round2(median(discounts)),
			MaxDiscount:    round2(maxOf(discounts)),
			DiscountStd:    round2(std),
			UniqueProducts: len(skus),
			AvgSavings:     round2(mean(savings)),
			OnSalePercent:  round2(float64(onSale) / float64(len(rows)) * 100),
			Volatility:     categoryVolatility(rows),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].AvgDiscount > stats[j].AvgDiscount
	})

	a.logger.InfoContext(ctx, "category analysis computed",
		slog.Int("categories", len(stats)))

	return stats, nil
}

// categoryVolatility is the mean absolute day-over-day change of the
// category's daily mean discount. The first day contributes no difference;
// a category observed on fewer than two days has no defined volatility.
func categoryVolatility(rows []domain.Observation) *float64 {
	byDate := make(map[time.Time][]float64)
	var dates []time.Time
	for _, row := range rows {
		if _, ok := byDate[row.Date]; !ok {
			dates = append(dates, row.Date)
		}
		byDate[row.Date] = append(byDate[row.Date], row.DiscountPercent)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if len(dates) < 2 {
		return nil
	}

	var diffs []float64
	prev := mean(byDate[dates[0]])
	for _, d := range dates[1:] {
		cur := mean(byDate[d])
		diffs = append(diffs, math.Abs(cur-prev))
		prev = cur
	}
	v := round2(mean(diffs))
	return &v
}

// CategoryByDate computes the category-by-date aggregation table, ordered
// by first-seen category then ascending date.
func (a *Analyzer) CategoryByDate(ctx context.Context, table *timeseries.Table) ([]domain.CategoryDayStats, error) {
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("category_by_date", "observation table is empty")
	}

	order, groups := groupByCategory(table)
	var out []domain.CategoryDayStats

	for _, category := range order {
		byDate := make(map[time.Time][]domain.Observation)
		var dates []time.Time
		for _, row := range groups[category] {
			if _, ok := byDate[row.Date]; !ok {
				dates = append(dates, row.Date)
			}
			byDate[row.Date] = append(byDate[row.Date], row)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		for _, d := range dates {
			rows := byDate[d]
			var orig, sale, disc, save float64
			for _, row := range rows {
				orig += row.OriginalPrice
				sale += row.SalePrice
				disc += row.DiscountPercent
				save += row.SavingsAmount
			}
			n := float64(len(rows))
			out = append(out, domain.CategoryDayStats{
				Category:         category,
				Date:             d,
				AvgOriginalPrice: round2(orig / n),
				AvgSalePrice:     round2(sale / n),
				AvgDiscount:      round2(disc / n),
				ProductCount:     len(rows),
				TotalSavings:     round2(save),
			})
		}
	}

	return out, nil
}
