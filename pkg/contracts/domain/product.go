package domain

import (
	"sort"
	"time"
)

// RawProduct is a single untrusted product observation as delivered by the
// acquisition collaborator. Prices are pointers because the feed may omit
// either field; DiscountPercent is carried only for diagnostics and is
// never trusted downstream.
type RawProduct struct {
	SKU             string   `json:"sku" validate:"required"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	OriginalPrice   *float64 `json:"original_price"`
	SalePrice       *float64 `json:"sale_price"`
	DiscountPercent float64  `json:"discount_percentage"`
	Colors          []string `json:"colors"`
	InStock         bool     `json:"in_stock"`
	URL             string   `json:"url,omitempty"`
	CollectionDate  string   `json:"collection_date,omitempty"`
	CollectionTime  string   `json:"collection_timestamp,omitempty"`
}

// Snapshots maps ISO dates (YYYY-MM-DD) to the raw product list observed
// on that day.
type Snapshots map[string][]RawProduct

// Dates returns the snapshot dates in ascending order.
func (s Snapshots) Dates() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// CleanedProduct is a validated record. OriginalPrice is always positive,
// SalePrice never exceeds it, and DiscountPercent is derived from the price
// pair rather than taken from the feed.
type CleanedProduct struct {
	SKU             string   `json:"sku"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	OriginalPrice   float64  `json:"original_price"`
	SalePrice       float64  `json:"sale_price"`
	DiscountPercent float64  `json:"discount_percentage"`
	Colors          []string `json:"colors"`
	InStock         bool     `json:"in_stock"`
}

// PriceTier buckets products by original price for cross-category
// comparison.
type PriceTier string

const (
	PriceTierBudget   PriceTier = "budget"
	PriceTierMidRange PriceTier = "mid-range"
	PriceTierPremium  PriceTier = "premium"
	PriceTierLuxury   PriceTier = "luxury"
	PriceTierUnknown  PriceTier = "unknown"
)

// DiscountTier buckets products by discount depth.
type DiscountTier string

const (
	DiscountTierNone   DiscountTier = "none"
	DiscountTierSmall  DiscountTier = "small"
	DiscountTierMedium DiscountTier = "medium"
	DiscountTierLarge  DiscountTier = "large"
)

// EnrichedProduct is a cleaned record plus the derived analysis features.
type EnrichedProduct struct {
	CleanedProduct
	PriceTier     PriceTier    `json:"price_tier"`
	DiscountTier  DiscountTier `json:"discount_tier"`
	NumColors     int          `json:"num_colors"`
	SavingsAmount float64      `json:"savings_amount"`
}

// DailyCollection maps ISO dates to the enriched records kept for that day.
// It is rebuilt from scratch on every pipeline run.
type DailyCollection map[string][]EnrichedProduct

// Dates returns the collection dates in ascending order.
func (d DailyCollection) Dates() []string {
	dates := make([]string, 0, len(d))
	for date := range d {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Observation is one row of the assembled time series: a single product on
// a single day. The (Date, SKU) pair is the natural key; the same SKU
// recurs across days to track its price history.
type Observation struct {
	Date            time.Time    `json:"date"`
	SKU             string       `json:"sku"`
	Name            string       `json:"name"`
	Category        string       `json:"category"`
	OriginalPrice   float64      `json:"original_price"`
	SalePrice       float64      `json:"sale_price"`
	DiscountPercent float64      `json:"discount_percentage"`
	PriceTier       PriceTier    `json:"price_tier"`
	DiscountTier    DiscountTier `json:"discount_tier"`
	InStock         bool         `json:"in_stock"`
	SavingsAmount   float64      `json:"savings_amount"`
}
