package domain

import "time"

// SummaryStats are the corpus-level descriptive statistics computed over
// the assembled time series.
type SummaryStats struct {
	TotalProducts     int                `json:"total_products"`
	TotalObservations int                `json:"total_observations"`
	DateRange         DateRange          `json:"date_range"`
	Categories        []string           `json:"categories"`
	Price             PriceStatistics    `json:"price_statistics"`
	Discount          DiscountStatistics `json:"discount_statistics"`
}

// DateRange describes the span of snapshot dates in the series.
type DateRange struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	NumDays int    `json:"num_days"`
}

// PriceStatistics summarizes the original-price distribution.
type PriceStatistics struct {
	Mean   float64 `json:"mean_original_price"`
	Median float64 `json:"median_original_price"`
	Min    float64 `json:"min_price"`
	Max    float64 `json:"max_price"`
}

// DiscountStatistics summarizes discount depth and frequency. MeanDiscount
// is computed over discounted rows only and is nil when no row carries a
// discount, which is distinct from a mean of zero.
type DiscountStatistics struct {
	OnSalePercent float64  `json:"products_on_sale_pct"`
	MeanDiscount  *float64 `json:"mean_discount"`
	MaxDiscount   float64  `json:"max_discount"`
}

// CategoryStats holds the per-category discount metrics. Volatility is nil
// when the category was observed on fewer than two days.
type CategoryStats struct {
	Category       string   `json:"category"`
	AvgDiscount    float64  `json:"avg_discount"`
	MedianDiscount float64  `json:"median_discount"`
	MaxDiscount    float64  `json:"max_discount"`
	DiscountStd    float64  `json:"discount_std"`
	UniqueProducts int      `json:"unique_products"`
	AvgSavings     float64  `json:"avg_savings"`
	OnSalePercent  float64  `json:"on_sale_pct"`
	Volatility     *float64 `json:"discount_volatility"`
}

// CategoryDayStats is one row of the category-by-date aggregation table.
type CategoryDayStats struct {
	Category         string    `json:"category"`
	Date             time.Time `json:"date"`
	AvgOriginalPrice float64   `json:"avg_original_price"`
	AvgSalePrice     float64   `json:"avg_sale_price"`
	AvgDiscount      float64   `json:"avg_discount"`
	ProductCount     int       `json:"product_count"`
	TotalSavings     float64   `json:"total_savings"`
}

// DailyStats is one row of the daily trend table. The change fields are
// nil for the first day of the series.
type DailyStats struct {
	Date             time.Time `json:"date"`
	AvgOriginalPrice float64   `json:"avg_original_price"`
	AvgSalePrice     float64   `json:"avg_sale_price"`
	AvgDiscount      float64   `json:"avg_discount"`
	TotalSavings     float64   `json:"total_savings"`
	ProductCount     int       `json:"product_count"`
	DiscountChange   *float64  `json:"discount_change"`
	PriceChange      *float64  `json:"price_change"`
}

// TrendLine is the ordinary-least-squares fit of mean discount against the
// 0-based day index of the series.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r_value"`
	RSquared  float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
}

// WeekdayEffect reports mean discount by calendar weekday. Ties resolve to
// the first weekday in Monday..Sunday order.
type WeekdayEffect struct {
	MeanDiscount map[string]float64 `json:"mean_discount_by_day"`
	BestDay      string             `json:"best_day"`
	BestValue    float64            `json:"best_value"`
	WorstDay     string             `json:"worst_day"`
	WorstValue   float64            `json:"worst_value"`
}

// DailyTrends bundles the per-day aggregation with the fitted trend and
// day-of-week effects.
type DailyTrends struct {
	Days    []DailyStats  `json:"days"`
	Trend   TrendLine     `json:"trend"`
	Weekday WeekdayEffect `json:"weekday"`
}

// CorrelationMatrix is the Pearson correlation of the numeric observation
// columns, rounded to three decimals. Undefined cells (zero variance) are
// NaN and serialize as empty CSV cells.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// BestDealCategory names the category with the highest mean savings.
type BestDealCategory struct {
	Category    string  `json:"category"`
	AvgSavings  float64 `json:"avg_savings"`
	AvgDiscount float64 `json:"avg_discount"`
}

// TierDiscountStats summarizes discount behavior within one price tier.
type TierDiscountStats struct {
	AvgDiscount float64 `json:"avg_discount"`
	Count       int     `json:"count"`
	AvgSavings  float64 `json:"avg_savings"`
}

// CategoryBestDay is the single calendar date with the highest mean
// discount for one category.
type CategoryBestDay struct {
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	AvgDiscount float64   `json:"avg_discount"`
}

// ConsistentProduct is a product whose discount never reached zero across
// its observed days and whose discount varied little.
type ConsistentProduct struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	AvgDiscount float64 `json:"avg_discount"`
	DiscountStd float64 `json:"discount_std"`
	MinDiscount float64 `json:"min_discount"`
}

// ConsumerPatterns is the consumer-facing pattern extraction result.
// DiscountDistribution is empty (not zero-filled) when no row is on sale;
// PriceDiscountCorrelation is nil when the correlation is undefined.
type ConsumerPatterns struct {
	BestDealCategory         BestDealCategory             `json:"best_deal_category"`
	PriceTierAnalysis        map[string]TierDiscountStats `json:"price_tier_analysis"`
	BestPriceTier            string                       `json:"best_price_tier"`
	PriceDiscountCorrelation *float64                     `json:"price_discount_correlation"`
	DiscountDistribution     map[string]float64           `json:"discount_distribution"`
	CategoryBestDays         []CategoryBestDay            `json:"category_best_days"`
	ConsistentlyDiscounted   int                          `json:"consistently_discounted"`
	TopConsistent            []ConsistentProduct          `json:"top_consistent"`
}

// AnalysisResult bundles every aggregation computed in one pipeline run.
type AnalysisResult struct {
	Summary          *SummaryStats      `json:"summary"`
	Categories       []CategoryStats    `json:"categories"`
	CategoryByDate   []CategoryDayStats `json:"category_by_date"`
	Trends           *DailyTrends       `json:"trends"`
	Correlations     *CorrelationMatrix `json:"correlations"`
	ConsumerPatterns *ConsumerPatterns  `json:"consumer_patterns"`
}
