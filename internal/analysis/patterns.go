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

// ConsumerPatterns extracts the consumer-facing buying patterns from the
// observation table.
func (a *Analyzer) ConsumerPatterns(ctx context.Context, table *timeseries.Table) (*domain.ConsumerPatterns, error) {
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("consumer_patterns", "observation table is empty")
	}

	patterns := &domain.ConsumerPatterns{
		BestDealCategory:     a.bestDealCategory(table),
		DiscountDistribution: discountDistribution(table),
		CategoryBestDays:     categoryBestDays(table),
	}
	patterns.PriceTierAnalysis, patterns.BestPriceTier = priceTierAnalysis(table)
	patterns.PriceDiscountCorrelation = priceDiscountCorrelation(table)

	consistent := a.consistentlyDiscounted(table)
	patterns.ConsistentlyDiscounted = len(consistent)
	if len(consistent) > a.cfg.TopConsistent {
		consistent = consistent[:a.cfg.TopConsistent]
	}
	patterns.TopConsistent = consistent

	a.logger.InfoContext(ctx, "consumer patterns extracted",
		slog.String("best_deal_category", patterns.BestDealCategory.Category),
		slog.String("best_price_tier", patterns.BestPriceTier),
		slog.Int("consistently_discounted", patterns.ConsistentlyDiscounted))

	return patterns, nil
}

// bestDealCategory picks the category with the highest mean savings; ties
// resolve to the first category in first-seen group order.
func (a *Analyzer) bestDealCategory(table *timeseries.Table) domain.BestDealCategory {
	order, groups := groupByCategory(table)

	best := domain.BestDealCategory{}
	bestSavings := math.Inf(-1)
	for _, category := range order {
		rows := groups[category]
		var savings, discount float64
		for _, row := range rows {
			savings += row.SavingsAmount
			discount += row.DiscountPercent
		}
		n := float64(len(rows))
		avgSavings := savings / n
		if avgSavings > bestSavings {
			bestSavings = avgSavings
			best = domain.BestDealCategory{
				Category:    category,
				AvgSavings:  round2(avgSavings),
				AvgDiscount: round2(discount / n),
			}
		}
	}
	return best
}

// priceTierAnalysis groups rows by price tier in first-seen order and
// picks the tier with the highest mean discount.
func priceTierAnalysis(table *timeseries.Table) (map[string]domain.TierDiscountStats, string) {
	groups := make(map[string][]domain.Observation)
	var order []string
	for _, row := range table.Rows {
		tier := string(row.PriceTier)
		if _, ok := groups[tier]; !ok {
			order = append(order, tier)
		}
		groups[tier] = append(groups[tier], row)
	}

	stats := make(map[string]domain.TierDiscountStats, len(order))
	bestTier := ""
	bestDiscount := math.Inf(-1)
	for _, tier := range order {
		rows := groups[tier]
		var discount, savings float64
		for _, row := range rows {
			discount += row.DiscountPercent
			savings += row.SavingsAmount
		}
		n := float64(len(rows))
		avgDiscount := discount / n
		stats[tier] = domain.TierDiscountStats{
			AvgDiscount: round2(avgDiscount),
			Count:       len(rows),
			AvgSavings:  round2(savings / n),
		}
		if avgDiscount > bestDiscount {
			bestDiscount = avgDiscount
			bestTier = tier
		}
	}
	return stats, bestTier
}

// priceDiscountCorrelation is the Pearson correlation between original
// price and discount over all rows, rounded to three decimals. Nil when
// either column has no variance.
func priceDiscountCorrelation(table *timeseries.Table) *float64 {
	prices := make([]float64, table.Len())
	discounts := make([]float64, table.Len())
	for i, row := range table.Rows {
		prices[i] = row.OriginalPrice
		discounts[i] = row.DiscountPercent
	}
	r := pearson(prices, discounts)
	if math.IsNaN(r) {
		return nil
	}
	r = round3(r)
	return &r
}

// discountDistribution is the normalized discount-tier distribution among
// rows actually on sale. With no discounted rows the map is empty; zeros
// are never fabricated.
func discountDistribution(table *timeseries.Table) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, row := range table.Rows {
		if row.DiscountPercent <= 0 {
			continue
		}
		counts[string(row.DiscountTier)]++
		total++
	}

	dist := make(map[string]float64, len(counts))
	if total == 0 {
		return dist
	}
	for tier, count := range counts {
		dist[tier] = round3(float64(count) / float64(total))
	}
	return dist
}

// categoryBestDays finds, per category, the single calendar date with the
// highest mean discount. Ties resolve to the earliest date.
func categoryBestDays(table *timeseries.Table) []domain.CategoryBestDay {
	order, groups := groupByCategory(table)

	best := make([]domain.CategoryBestDay, 0, len(order))
	for _, category := range order {
		byDate := make(map[time.Time][]float64)
		var dates []time.Time
		for _, row := range groups[category] {
			if _, ok := byDate[row.Date]; !ok {
				dates = append(dates, row.Date)
			}
			byDate[row.Date] = append(byDate[row.Date], row.DiscountPercent)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		pick := domain.CategoryBestDay{Category: category}
		bestAvg := math.Inf(-1)
		for _, d := range dates {
			avg := mean(byDate[d])
			if avg > bestAvg {
				bestAvg = avg
				pick.Date = d
				pick.AvgDiscount = round1(avg)
			}
		}
		best = append(best, pick)
	}
	return best
}

// consistentlyDiscounted returns the products whose discount never reached
// zero across their observed days and whose sample discount deviation is
// below the configured threshold, sorted by descending mean discount.
// Products observed on a single day have no defined deviation and are
// excluded.
func (a *Analyzer) consistentlyDiscounted(table *timeseries.Table) []domain.ConsistentProduct {
	type skuGroup struct {
		name      string
		category  string
		discounts []float64
	}

	groups := make(map[string]*skuGroup)
	var order []string
	for _, row := range table.Rows {
		g, ok := groups[row.SKU]
		if !ok {
			g = &skuGroup{name: row.Name, category: row.Category}
			groups[row.SKU] = g
			order = append(order, row.SKU)
		}
		g.discounts = append(g.discounts, row.DiscountPercent)
	}

	var consistent []domain.ConsistentProduct
	for _, sku := range order {
		g := groups[sku]
		min := minOf(g.discounts)
		if min <= 0 {
			continue
		}
		std := sampleStd(g.discounts)
		if math.IsNaN(std) || std >= a.cfg.ConsistencyStdThreshold {
			continue
		}
		consistent = append(consistent, domain.ConsistentProduct{
			SKU:         sku,
			Name:        g.name,
			Category:    g.category,
			AvgDiscount: round2(mean(g.discounts)),
			DiscountStd: round2(std),
			MinDiscount: min,
		})
	}

	sort.SliceStable(consistent, func(i, j int) bool {
		return consistent[i].AvgDiscount > consistent[j].AvgDiscount
	})
	return consistent
}
