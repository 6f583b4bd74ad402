package exporter

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// JSON output file names, stable for downstream consumers.
const (
	CleanedProductsFile  = "cleaned_products.json"
	SummaryStatsFile     = "summary_statistics.json"
	ConsumerPatternsFile = "consumer_patterns.json"
)

// JSONWriter writes the structured (non-tabular) outputs.
type JSONWriter struct {
	logger *slog.Logger
	outDir string
}

// NewJSONWriter creates a JSON writer rooted at outDir.
func NewJSONWriter(logger *slog.Logger, outDir string) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{logger: logger, outDir: outDir}
}

// WriteCleanedCollection writes the date-keyed enriched product
// collection. Map keys marshal in sorted (ascending date) order.
func (w *JSONWriter) WriteCleanedCollection(daily domain.DailyCollection) error {
	return w.write(CleanedProductsFile, daily)
}

// WriteSummary writes the summary statistics record.
func (w *JSONWriter) WriteSummary(summary *domain.SummaryStats) error {
	return w.write(SummaryStatsFile, summary)
}

// WritePatterns writes the consumer-patterns record.
func (w *JSONWriter) WritePatterns(patterns *domain.ConsumerPatterns) error {
	return w.write(ConsumerPatternsFile, patterns)
}

func (w *JSONWriter) write(name string, v interface{}) error {
	fullPath := filepath.Join(w.outDir, name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return errors.NewStorageError("failed to create JSON output file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.NewStorageError("failed to encode JSON output", err)
	}

	w.logger.Info("wrote JSON file", slog.String("path", fullPath))
	return nil
}
