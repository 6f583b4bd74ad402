package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// WorkbookFile is the Excel analysis workbook written next to the CSVs.
const WorkbookFile = "analysis.xlsx"

// ExcelWriter writes the analysis workbook: one sheet per aggregation
// table so the report collaborator gets everything in a single artifact.
type ExcelWriter struct {
	logger *slog.Logger
	outDir string
}

// NewExcelWriter creates an Excel writer rooted at outDir.
func NewExcelWriter(logger *slog.Logger, outDir string) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger, outDir: outDir}
}

// WriteWorkbook writes the full analysis result as an .xlsx workbook.
func (w *ExcelWriter) WriteWorkbook(result *domain.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.summarySheet(f, result.Summary); err != nil {
		return err
	}
	if err := w.categorySheet(f, result.Categories); err != nil {
		return err
	}
	if err := w.trendsSheet(f, result.Trends); err != nil {
		return err
	}
	if err := w.correlationSheet(f, result.Correlations); err != nil {
		return err
	}

	// The default sheet is replaced by the summary sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.NewStorageError("failed to drop default workbook sheet", err)
	}

	fullPath := filepath.Join(w.outDir, WorkbookFile)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return errors.NewStorageError("failed to save analysis workbook", err)
	}

	w.logger.Info("wrote analysis workbook", slog.String("path", fullPath))
	return nil
}

func (w *ExcelWriter) summarySheet(f *excelize.File, summary *domain.SummaryStats) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create summary sheet", err)
	}

	rows := [][]interface{}{
		{"Total unique products", summary.TotalProducts},
		{"Total observations", summary.TotalObservations},
		{"Date range start", summary.DateRange.Start},
		{"Date range end", summary.DateRange.End},
		{"Days observed", summary.DateRange.NumDays},
		{"Mean original price", summary.Price.Mean},
		{"Median original price", summary.Price.Median},
		{"Min price", summary.Price.Min},
		{"Max price", summary.Price.Max},
		{"Products on sale %", summary.Discount.OnSalePercent},
		{"Max discount %", summary.Discount.MaxDiscount},
	}
	if summary.Discount.MeanDiscount != nil {
		rows = append(rows, []interface{}{"Mean discount (on-sale rows) %", *summary.Discount.MeanDiscount})
	} else {
		rows = append(rows, []interface{}{"Mean discount (on-sale rows) %", "undefined"})
	}

	return writeSheetRows(f, sheet, nil, rows)
}

func (w *ExcelWriter) categorySheet(f *excelize.File, categories []domain.CategoryStats) error {
	const sheet = "Category Analysis"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create category sheet", err)
	}

	headers := []interface{}{
		"category", "avg_discount", "median_discount", "max_discount",
		"discount_std", "unique_products", "avg_savings", "on_sale_pct",
		"discount_volatility",
	}
	rows := make([][]interface{}, 0, len(categories))
	for _, c := range categories {
		var volatility interface{}
		if c.Volatility != nil {
			volatility = *c.Volatility
		}
		rows = append(rows, []interface{}{
			c.Category, c.AvgDiscount, c.MedianDiscount, c.MaxDiscount,
			c.DiscountStd, c.UniqueProducts, c.AvgSavings, c.OnSalePercent,
			volatility,
		})
	}
	return writeSheetRows(f, sheet, headers, rows)
}

func (w *ExcelWriter) trendsSheet(f *excelize.File, trends *domain.DailyTrends) error {
	const sheet = "Daily Trends"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create trends sheet", err)
	}

	headers := []interface{}{
		"date", "avg_original_price", "avg_sale_price", "avg_discount",
		"total_savings", "product_count", "discount_change", "price_change",
	}
	rows := make([][]interface{}, 0, len(trends.Days)+2)
	for _, day := range trends.Days {
		var dc, pc interface{}
		if day.DiscountChange != nil {
			dc = *day.DiscountChange
		}
		if day.PriceChange != nil {
			pc = *day.PriceChange
		}
		rows = append(rows, []interface{}{
			day.Date.Format(dateLayout), day.AvgOriginalPrice,
			day.AvgSalePrice, day.AvgDiscount, day.TotalSavings,
			day.ProductCount, dc, pc,
		})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"trend_slope", trends.Trend.Slope},
		[]interface{}{"trend_intercept", trends.Trend.Intercept},
		[]interface{}{"trend_r_squared", trends.Trend.RSquared},
		[]interface{}{"trend_p_value", trends.Trend.PValue},
		[]interface{}{"best_discount_day", trends.Weekday.BestDay},
		[]interface{}{"worst_discount_day", trends.Weekday.WorstDay},
	)
	return writeSheetRows(f, sheet, headers, rows)
}

func (w *ExcelWriter) correlationSheet(f *excelize.File, m *domain.CorrelationMatrix) error {
	const sheet = "Correlation"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create correlation sheet", err)
	}

	headers := make([]interface{}, 0, len(m.Columns)+1)
	headers = append(headers, "")
	for _, c := range m.Columns {
		headers = append(headers, c)
	}

	rows := make([][]interface{}, 0, len(m.Columns))
	for i, column := range m.Columns {
		row := make([]interface{}, 0, len(m.Columns)+1)
		row = append(row, column)
		for _, v := range m.Values[i] {
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return writeSheetRows(f, sheet, headers, rows)
}

func writeSheetRows(f *excelize.File, sheet string, headers []interface{}, rows [][]interface{}) error {
	rowIdx := 1
	if headers != nil {
		if err := setRow(f, sheet, rowIdx, headers); err != nil {
			return err
		}
		rowIdx++
	}
	for _, row := range rows {
		if err := setRow(f, sheet, rowIdx, row); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return errors.NewStorageError("invalid cell coordinates", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to set cell %s!%s", sheet, cell), err)
		}
	}
	return nil
}
