package exporter

import (
	"math"
	"strconv"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

// Output file names, stable for downstream consumers.
const (
	TimeSeriesFile        = "price_time_series.csv"
	CategoryDailyFile     = "category_daily_stats.csv"
	CategoryAnalysisFile  = "category_analysis.csv"
	DailyTrendsFile       = "daily_price_trends.csv"
	CorrelationMatrixFile = "correlation_matrix.csv"
)

// timeSeriesHeaders is the fixed observation column set.
var timeSeriesHeaders = []string{
	"date", "sku", "name", "category", "original_price", "sale_price",
	"discount_percentage", "price_tier", "discount_tier", "in_stock",
	"savings_amount",
}

// WriteTimeSeries writes the flat observation table.
func (w *CSVWriter) WriteTimeSeries(table *timeseries.Table) error {
	records := make([][]string, 0, table.Len())
	for _, row := range table.Rows {
		records = append(records, []string{
			row.Date.Format(dateLayout),
			row.SKU,
			row.Name,
			row.Category,
			fmtFloat(row.OriginalPrice),
			fmtFloat(row.SalePrice),
			fmtFloat(row.DiscountPercent),
			string(row.PriceTier),
			string(row.DiscountTier),
			strconv.FormatBool(row.InStock),
			fmtFloat(row.SavingsAmount),
		})
	}
	return w.WriteSimple(TimeSeriesFile, timeSeriesHeaders, records)
}

// WriteCategoryDaily writes the category-by-date aggregation table.
func (w *CSVWriter) WriteCategoryDaily(rows []domain.CategoryDayStats) error {
	headers := []string{
		"category", "date", "avg_original_price", "avg_sale_price",
		"avg_discount", "product_count", "total_savings",
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Category,
			row.Date.Format(dateLayout),
			fmtFloat(row.AvgOriginalPrice),
			fmtFloat(row.AvgSalePrice),
			fmtFloat(row.AvgDiscount),
			strconv.Itoa(row.ProductCount),
			fmtFloat(row.TotalSavings),
		})
	}
	return w.WriteSimple(CategoryDailyFile, headers, records)
}

// WriteCategoryAnalysis writes the per-category discount metrics.
func (w *CSVWriter) WriteCategoryAnalysis(rows []domain.CategoryStats) error {
	headers := []string{
		"category", "avg_discount", "median_discount", "max_discount",
		"discount_std", "unique_products", "avg_savings", "on_sale_pct",
		"discount_volatility",
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Category,
			fmtFloat(row.AvgDiscount),
			fmtFloat(row.MedianDiscount),
			fmtFloat(row.MaxDiscount),
			fmtFloat(row.DiscountStd),
			strconv.Itoa(row.UniqueProducts),
			fmtFloat(row.AvgSavings),
			fmtFloat(row.OnSalePercent),
			fmtFloatPtr(row.Volatility),
		})
	}
	return w.WriteSimple(CategoryAnalysisFile, headers, records)
}

// WriteDailyTrends writes the daily trend table.
func (w *CSVWriter) WriteDailyTrends(trends *domain.DailyTrends) error {
	headers := []string{
		"date", "avg_original_price", "avg_sale_price", "avg_discount",
		"total_savings", "product_count", "discount_change", "price_change",
	}
	records := make([][]string, 0, len(trends.Days))
	for _, day := range trends.Days {
		records = append(records, []string{
			day.Date.Format(dateLayout),
			fmtFloat(day.AvgOriginalPrice),
			fmtFloat(day.AvgSalePrice),
			fmtFloat(day.AvgDiscount),
			fmtFloat(day.TotalSavings),
			strconv.Itoa(day.ProductCount),
			fmtFloatPtr(day.DiscountChange),
			fmtFloatPtr(day.PriceChange),
		})
	}
	return w.WriteSimple(DailyTrendsFile, headers, records)
}

// WriteCorrelationMatrix writes the correlation matrix with a leading
// label column. Undefined cells are left empty.
func (w *CSVWriter) WriteCorrelationMatrix(m *domain.CorrelationMatrix) error {
	headers := append([]string{""}, m.Columns...)
	records := make([][]string, 0, len(m.Columns))
	for i, column := range m.Columns {
		record := make([]string, 0, len(m.Columns)+1)
		record = append(record, column)
		for _, v := range m.Values[i] {
			record = append(record, fmtFloat(v))
		}
		records = append(records, record)
	}
	return w.WriteSimple(CorrelationMatrixFile, headers, records)
}

// fmtFloat formats a float for CSV output. NaN (an undefined statistic)
// becomes an empty cell.
func fmtFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}
