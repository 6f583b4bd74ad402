package cleaning

import (
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/config"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// Enricher derives the analysis features for cleaned records. Enrichment
// is a pure function: cleaned records are already valid, so there is no
// failure path.
type Enricher struct {
	cfg config.AnalysisConfig
}

// NewEnricher creates an enricher with the given tier thresholds.
func NewEnricher(cfg config.AnalysisConfig) *Enricher {
	return &Enricher{cfg: cfg}
}

// Enrich tags a cleaned record with its price tier, discount tier, color
// count, and savings amount. Tier boundaries are exact cut points on the
// 2-decimal-rounded values: half-open on the lower bound, inclusive on the
// upper bound as configured.
func (e *Enricher) Enrich(p domain.CleanedProduct) domain.EnrichedProduct {
	return domain.EnrichedProduct{
		CleanedProduct: p,
		PriceTier:      e.priceTier(p.OriginalPrice),
		DiscountTier:   e.discountTier(p.DiscountPercent),
		NumColors:      len(p.Colors),
		SavingsAmount:  round2(p.OriginalPrice - p.SalePrice),
	}
}

// EnrichDay enriches a full day's cleaned records, preserving order.
func (e *Enricher) EnrichDay(products []domain.CleanedProduct) []domain.EnrichedProduct {
	enriched := make([]domain.EnrichedProduct, len(products))
	for i, p := range products {
		enriched[i] = e.Enrich(p)
	}
	return enriched
}

func (e *Enricher) priceTier(price float64) domain.PriceTier {
	switch {
	case price <= 0:
		return domain.PriceTierUnknown
	case price < e.cfg.BudgetMax:
		return domain.PriceTierBudget
	case price < e.cfg.MidRangeMax:
		return domain.PriceTierMidRange
	case price < e.cfg.PremiumMax:
		return domain.PriceTierPremium
	default:
		return domain.PriceTierLuxury
	}
}

func (e *Enricher) discountTier(discount float64) domain.DiscountTier {
	switch {
	case discount == 0:
		return domain.DiscountTierNone
	case discount <= e.cfg.SmallDiscountMax:
		return domain.DiscountTierSmall
	case discount <= e.cfg.MediumDiscountMax:
		return domain.DiscountTierMedium
	default:
		return domain.DiscountTierLarge
	}
}
