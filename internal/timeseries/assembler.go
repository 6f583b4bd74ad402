// Package timeseries assembles the per-day cleaned collections into the
// canonical flat observation table used by all downstream analysis.
package timeseries

import (
	"fmt"
	"time"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

// Table is the assembled time series: one immutable row per (date, sku)
// pair actually observed, ordered by ascending date then original per-day
// order. No deduplication happens across days.
type Table struct {
	Rows []domain.Observation
}

// Assemble flattens a daily collection into the observation table. Days
// are visited in ascending date order; each day's records keep their
// existing order.
func Assemble(daily domain.DailyCollection) (*Table, error) {
	table := &Table{}
	for _, dateStr := range daily.Dates() {
		date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, errors.NewValidationError("assemble",
				fmt.Sprintf("collection has non-ISO date key %q", dateStr))
		}
		for _, p := range daily[dateStr] {
			table.Rows = append(table.Rows, domain.Observation{
				Date:            date,
				SKU:             p.SKU,
				Name:            p.Name,
				Category:        p.Category,
				OriginalPrice:   p.OriginalPrice,
				SalePrice:       p.SalePrice,
				DiscountPercent: p.DiscountPercent,
				PriceTier:       p.PriceTier,
				DiscountTier:    p.DiscountTier,
				InStock:         p.InStock,
				SavingsAmount:   p.SavingsAmount,
			})
		}
	}
	return table, nil
}

// Len returns the number of observations.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Dates returns the distinct observation dates in ascending order.
func (t *Table) Dates() []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, row := range t.Rows {
		if _, ok := seen[row.Date]; ok {
			continue
		}
		seen[row.Date] = struct{}{}
		dates = append(dates, row.Date)
	}
	// Rows are date-ordered by construction, so the scan preserves order.
	return dates
}

// Categories returns the distinct categories in first-seen order.
func (t *Table) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, row := range t.Rows {
		if _, ok := seen[row.Category]; ok {
			continue
		}
		seen[row.Category] = struct{}{}
		categories = append(categories, row.Category)
	}
	return categories
}
