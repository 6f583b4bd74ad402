package exporter

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

var testDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func testTable() *timeseries.Table {
	return &timeseries.Table{Rows: []domain.Observation{
		{
			Date: testDate, SKU: "A", Name: "Dress", Category: "dresses",
			OriginalPrice: 100, SalePrice: 80, DiscountPercent: 20,
			PriceTier: domain.PriceTierPremium, DiscountTier: domain.DiscountTierSmall,
			InStock: true, SavingsAmount: 20,
		},
	}}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestCSVWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	err := w.Write("out.csv", WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	content := readFile(t, dir, "out.csv")
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "BOM prefix requested")
	assert.Contains(t, content, "a,b\n1,2\n")
}

func TestWriteTimeSeries(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	require.NoError(t, w.WriteTimeSeries(testTable()))

	content := readFile(t, dir, TimeSeriesFile)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(timeSeriesHeaders, ","), lines[0])
	assert.Equal(t, "2025-06-01,A,Dress,dresses,100,80,20,premium,small,true,20", lines[1])
}

func TestWriteCategoryAnalysis_NilVolatilityIsEmptyCell(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	vol := 2.5
	rows := []domain.CategoryStats{
		{Category: "dresses", AvgDiscount: 25, Volatility: &vol},
		{Category: "pants", AvgDiscount: 0, Volatility: nil},
	}
	require.NoError(t, w.WriteCategoryAnalysis(rows))

	content := readFile(t, dir, CategoryAnalysisFile)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[1], ",2.5"))
	assert.True(t, strings.HasSuffix(lines[2], ","), "undefined volatility serializes as empty")
}

func TestWriteCorrelationMatrix_NaNIsEmptyCell(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil, dir)

	m := &domain.CorrelationMatrix{
		Columns: []string{"x", "y"},
		Values: [][]float64{
			{1, math.NaN()},
			{math.NaN(), 1},
		},
	}
	require.NoError(t, w.WriteCorrelationMatrix(m))

	content := readFile(t, dir, CorrelationMatrixFile)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ",x,y", lines[0])
	assert.Equal(t, "x,1,", lines[1])
	assert.Equal(t, "y,,1", lines[2])
}

func TestJSONWriter_WriteSummary(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONWriter(nil, dir)

	summary := &domain.SummaryStats{
		TotalProducts:     2,
		TotalObservations: 4,
		DateRange:         domain.DateRange{Start: "2025-06-01", End: "2025-06-02", NumDays: 2},
		Categories:        []string{"dresses"},
	}
	require.NoError(t, w.WriteSummary(summary))

	var decoded domain.SummaryStats
	require.NoError(t, json.Unmarshal([]byte(readFile(t, dir, SummaryStatsFile)), &decoded))
	assert.Equal(t, *summary, decoded)
	assert.Nil(t, decoded.Discount.MeanDiscount, "undefined mean survives the round trip as null")
}

func TestJSONWriter_WriteCleanedCollection(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONWriter(nil, dir)

	daily := domain.DailyCollection{
		"2025-06-01": {{
			CleanedProduct: domain.CleanedProduct{SKU: "A", Name: "Dress", OriginalPrice: 100, SalePrice: 80, DiscountPercent: 20},
			PriceTier:      domain.PriceTierPremium,
			DiscountTier:   domain.DiscountTierSmall,
			SavingsAmount:  20,
		}},
	}
	require.NoError(t, w.WriteCleanedCollection(daily))

	var decoded domain.DailyCollection
	require.NoError(t, json.Unmarshal([]byte(readFile(t, dir, CleanedProductsFile)), &decoded))
	require.Len(t, decoded["2025-06-01"], 1)
	assert.Equal(t, "A", decoded["2025-06-01"][0].SKU)
	assert.Equal(t, domain.PriceTierPremium, decoded["2025-06-01"][0].PriceTier)
}

func TestExcelWriter_WriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	w := NewExcelWriter(nil, dir)

	meanDiscount := 20.0
	result := &domain.AnalysisResult{
		Summary: &domain.SummaryStats{
			TotalProducts:     1,
			TotalObservations: 1,
			DateRange:         domain.DateRange{Start: "2025-06-01", End: "2025-06-01", NumDays: 1},
			Discount:          domain.DiscountStatistics{OnSalePercent: 100, MeanDiscount: &meanDiscount, MaxDiscount: 20},
		},
		Categories: []domain.CategoryStats{{Category: "dresses", AvgDiscount: 20}},
		Trends: &domain.DailyTrends{
			Days:    []domain.DailyStats{{Date: testDate, AvgDiscount: 20, ProductCount: 1}},
			Weekday: domain.WeekdayEffect{BestDay: "Sunday", WorstDay: "Sunday"},
		},
		Correlations: &domain.CorrelationMatrix{
			Columns: []string{"x", "y"},
			Values:  [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
		},
	}
	require.NoError(t, w.WriteWorkbook(result))

	f, err := excelize.OpenFile(filepath.Join(dir, WorkbookFile))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"Summary", "Category Analysis", "Daily Trends", "Correlation"}, sheets)

	cell, err := f.GetCellValue("Category Analysis", "A2")
	require.NoError(t, err)
	assert.Equal(t, "dresses", cell)
}
