// Package cleaning turns untrusted raw snapshot records into validated,
// enriched product records. Discount percentages are always recomputed
// from the price pair; values claimed by the feed are never trusted.
package cleaning

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// fallbackName is used when a record arrives without a usable name.
const fallbackName = "Unknown Product"

// fallbackCategory is used when a record arrives without a category.
const fallbackCategory = "uncategorized"

// CleanReport summarizes what one day's cleaning pass absorbed.
type CleanReport struct {
	Date       string `json:"date"`
	Input      int    `json:"input"`
	Duplicates int    `json:"duplicates_removed"`
	Invalid    int    `json:"invalid_removed"`
	Kept       int    `json:"kept"`
}

// Cleaner deduplicates, normalizes, and validates one day's records.
type Cleaner struct {
	logger *slog.Logger
	titler cases.Caser
}

// NewCleaner creates a record cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger: logger,
		titler: cases.Title(language.English),
	}
}

// CleanDay cleans a single day's product list. Output order preserves
// input order after deduplication and invalid-record removal. Invalid
// records (missing or non-positive original price) are excluded entirely
// and surface only as a count in the report.
func (c *Cleaner) CleanDay(ctx context.Context, date string, products []domain.RawProduct) ([]domain.CleanedProduct, CleanReport) {
	report := CleanReport{Date: date, Input: len(products)}

	deduped := c.dedupe(products, &report)

	cleaned := make([]domain.CleanedProduct, 0, len(deduped))
	for _, raw := range deduped {
		record, ok := c.cleanRecord(raw)
		if !ok {
			report.Invalid++
			continue
		}
		cleaned = append(cleaned, record)
	}
	report.Kept = len(cleaned)

	c.logger.InfoContext(ctx, "cleaned daily snapshot",
		slog.String("date", date),
		slog.Int("input", report.Input),
		slog.Int("duplicates_removed", report.Duplicates),
		slog.Int("invalid_removed", report.Invalid),
		slog.Int("kept", report.Kept))

	return cleaned, report
}

// dedupe keeps the first occurrence of each SKU; later duplicates are
// silently dropped and counted.
func (c *Cleaner) dedupe(products []domain.RawProduct, report *CleanReport) []domain.RawProduct {
	seen := make(map[string]struct{}, len(products))
	unique := make([]domain.RawProduct, 0, len(products))
	for _, p := range products {
		if _, dup := seen[p.SKU]; dup {
			report.Duplicates++
			continue
		}
		seen[p.SKU] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

// cleanRecord normalizes a single record. Returns false when the record is
// invalid and must be excluded.
func (c *Cleaner) cleanRecord(raw domain.RawProduct) (domain.CleanedProduct, bool) {
	if raw.OriginalPrice == nil || *raw.OriginalPrice <= 0 {
		return domain.CleanedProduct{}, false
	}

	original := round2(*raw.OriginalPrice)

	// A missing sale price means the product is not on sale.
	sale := original
	if raw.SalePrice != nil {
		sale = round2(*raw.SalePrice)
		if sale > original {
			// Inconsistent pricing is repaired by clamping, not rejected.
			sale = original
		}
	}

	// The integrity-critical rule: the discount is derived from the
	// (possibly clamped) price pair, never copied from the feed.
	discount := 0.0
	if sale < original {
		discount = round1((1 - sale/original) * 100)
	}

	return domain.CleanedProduct{
		SKU:             raw.SKU,
		Name:            c.cleanName(raw.Name),
		Category:        standardizeCategory(raw.Category),
		OriginalPrice:   original,
		SalePrice:       sale,
		DiscountPercent: discount,
		Colors:          raw.Colors,
		InStock:         raw.InStock,
	}, true
}

// cleanName collapses internal whitespace and title-cases the product name.
func (c *Cleaner) cleanName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return fallbackName
	}
	return c.titler.String(strings.Join(fields, " "))
}

func standardizeCategory(category string) string {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return fallbackCategory
	}
	return strings.ToLower(trimmed)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
