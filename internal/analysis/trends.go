package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// weekdayOrder fixes the deterministic iteration order for day-of-week
// aggregation and its tie-breaks.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DailyTrends computes the per-day aggregation, the OLS discount trend
// against the 0-based day index, and the day-of-week effects.
func (a *Analyzer) DailyTrends(ctx context.Context, table *timeseries.Table) (*domain.DailyTrends, error) {
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("daily_trends", "observation table is empty")
	}

	dates := table.Dates()
	byDate := make(map[time.Time][]domain.Observation, len(dates))
	for _, row := range table.Rows {
		byDate[row.Date] = append(byDate[row.Date], row)
	}

	days := make([]domain.DailyStats, 0, len(dates))
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
		days = append(days, domain.DailyStats{
			Date:             d,
			AvgOriginalPrice: round2(orig / n),
			AvgSalePrice:     round2(sale / n),
			AvgDiscount:      round2(disc / n),
			TotalSavings:     round2(save),
			ProductCount:     len(rows),
		})
	}

	// Day-over-day deltas; the first day has none.
	for i := 1; i < len(days); i++ {
		dc := round2(days[i].AvgDiscount - days[i-1].AvgDiscount)
		pc := round2(days[i].AvgSalePrice - days[i-1].AvgSalePrice)
		days[i].DiscountChange = &dc
		days[i].PriceChange = &pc
	}

	// OLS of mean discount against day index, offset from the first date.
	first := dates[0]
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, day := range days {
		xs[i] = day.Date.Sub(first).Hours() / 24
		ys[i] = day.AvgDiscount
	}
	trend := linearRegression(xs, ys)

	weekday := weekdayEffect(days)

	a.logger.InfoContext(ctx, "daily trend analysis computed",
		slog.Int("days", len(days)),
		slog.Float64("slope", trend.Slope),
		slog.Float64("r_squared", trend.RSquared),
		slog.Float64("p_value", trend.PValue))

	return &domain.DailyTrends{Days: days, Trend: trend, Weekday: weekday}, nil
}

// weekdayEffect averages the daily mean discount per calendar weekday and
// picks the single best and worst day. Ties go to the first weekday in
// Monday..Sunday order.
func weekdayEffect(days []domain.DailyStats) domain.WeekdayEffect {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, day := range days {
		wd := day.Date.Weekday()
		sums[wd] += day.AvgDiscount
		counts[wd]++
	}

	effect := domain.WeekdayEffect{MeanDiscount: make(map[string]float64)}
	first := true
	for _, wd := range weekdayOrder {
		if counts[wd] == 0 {
			continue
		}
		avg := round2(sums[wd] / float64(counts[wd]))
		effect.MeanDiscount[wd.String()] = avg
		if first {
			effect.BestDay, effect.BestValue = wd.String(), avg
			effect.WorstDay, effect.WorstValue = wd.String(), avg
			first = false
			continue
		}
		if avg > effect.BestValue {
			effect.BestDay, effect.BestValue = wd.String(), avg
		}
		if avg < effect.WorstValue {
			effect.WorstDay, effect.WorstValue = wd.String(), avg
		}
	}
	return effect
}
