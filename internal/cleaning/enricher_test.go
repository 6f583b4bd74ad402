package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/config"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

func TestEnrich_PriceTierBoundaries(t *testing.T) {
	tests := []struct {
		price float64
		want  domain.PriceTier
	}{
		{10, domain.PriceTierBudget},
		{49.99, domain.PriceTierBudget},
		{50, domain.PriceTierMidRange},
		{99.99, domain.PriceTierMidRange},
		{100, domain.PriceTierPremium},
		{199.99, domain.PriceTierPremium},
		{200, domain.PriceTierLuxury},
		{450, domain.PriceTierLuxury},
	}

	enricher := NewEnricher(config.Default().Analysis)
	for _, tt := range tests {
		got := enricher.Enrich(domain.CleanedProduct{
			OriginalPrice: tt.price,
			SalePrice:     tt.price,
		})
		assert.Equal(t, tt.want, got.PriceTier, "price %.2f", tt.price)
	}
}

func TestEnrich_DiscountTierBoundaries(t *testing.T) {
	tests := []struct {
		discount float64
		want     domain.DiscountTier
	}{
		{0, domain.DiscountTierNone},
		{0.1, domain.DiscountTierSmall},
		{20, domain.DiscountTierSmall},
		{20.1, domain.DiscountTierMedium},
		{40, domain.DiscountTierMedium},
		{40.1, domain.DiscountTierLarge},
		{75, domain.DiscountTierLarge},
	}

	enricher := NewEnricher(config.Default().Analysis)
	for _, tt := range tests {
		got := enricher.Enrich(domain.CleanedProduct{
			OriginalPrice:   100,
			SalePrice:       100 - tt.discount,
			DiscountPercent: tt.discount,
		})
		assert.Equal(t, tt.want, got.DiscountTier, "discount %.1f", tt.discount)
	}
}

func TestEnrich_DerivedFeatures(t *testing.T) {
	enricher := NewEnricher(config.Default().Analysis)

	got := enricher.Enrich(domain.CleanedProduct{
		SKU:             "S1",
		OriginalPrice:   80,
		SalePrice:       60,
		DiscountPercent: 25,
		Colors:          []string{"ivory", "black", "sage"},
	})

	assert.Equal(t, 3, got.NumColors)
	assert.Equal(t, 20.0, got.SavingsAmount)
	assert.Equal(t, domain.PriceTierMidRange, got.PriceTier)
	assert.Equal(t, domain.DiscountTierMedium, got.DiscountTier)
}

func TestEnrichDay_PreservesOrder(t *testing.T) {
	enricher := NewEnricher(config.Default().Analysis)

	in := []domain.CleanedProduct{
		{SKU: "A", OriginalPrice: 30, SalePrice: 30},
		{SKU: "B", OriginalPrice: 120, SalePrice: 120},
	}
	out := enricher.EnrichDay(in)

	assert.Len(t, out, 2)
	assert.Equal(t, "A", out[0].SKU)
	assert.Equal(t, "B", out[1].SKU)
}
