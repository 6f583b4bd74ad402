package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/config"
	apperrors "github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/exporter"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.RawDir = filepath.Join(t.TempDir(), "raw")
	cfg.Paths.ProcessedDir = filepath.Join(t.TempDir(), "processed")
	require.NoError(t, os.MkdirAll(cfg.Paths.RawDir, 0755))
	return cfg
}

func writeSnapshot(t *testing.T, cfg *config.Config, date, content string) {
	t.Helper()
	name := cfg.Paths.DailyPrefix + date + ".json"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.RawDir, name), []byte(content), 0644))
}

const day1 = `[
  {"sku":"A","name":"wrap dress","category":"Dresses","original_price":100,"sale_price":80,"colors":["black"]},
  {"sku":"B","name":"wide pant","category":"Pants","original_price":40},
  {"sku":"A","name":"duplicate","category":"Dresses","original_price":999}
]`

const day2 = `[
  {"sku":"A","name":"wrap dress","category":"Dresses","original_price":100,"sale_price":70},
  {"sku":"B","name":"wide pant","category":"Pants","original_price":40},
  {"sku":"C","name":"bad record"}
]`

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeSnapshot(t, cfg, "2025-06-01", day1)
	writeSnapshot(t, cfg, "2025-06-02", day2)

	run, err := New(quietLogger(), cfg).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 2, run.Days)
	assert.Equal(t, 4, run.Observations, "duplicates and invalid records are excluded")

	require.Len(t, run.Reports, 2)
	assert.Equal(t, 1, run.Reports[0].Duplicates)
	assert.Equal(t, 1, run.Reports[1].Invalid)

	// Every output file exists.
	for _, name := range []string{
		exporter.CleanedProductsFile,
		exporter.TimeSeriesFile,
		exporter.SummaryStatsFile,
		exporter.CategoryAnalysisFile,
		exporter.CategoryDailyFile,
		exporter.DailyTrendsFile,
		exporter.CorrelationMatrixFile,
		exporter.ConsumerPatternsFile,
		exporter.WorkbookFile,
		cfg.Paths.DatabaseFile,
	} {
		_, err := os.Stat(filepath.Join(cfg.Paths.ProcessedDir, name))
		assert.NoError(t, err, "missing output %s", name)
	}

	// Spot-check the summary content.
	data, err := os.ReadFile(filepath.Join(cfg.Paths.ProcessedDir, exporter.SummaryStatsFile))
	require.NoError(t, err)
	var summary domain.SummaryStats
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 4, summary.TotalObservations)
	assert.Equal(t, "2025-06-01", summary.DateRange.Start)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	sequential := testConfig(t)
	parallel := testConfig(t)
	for _, cfg := range []*config.Config{sequential, parallel} {
		writeSnapshot(t, cfg, "2025-06-01", day1)
		writeSnapshot(t, cfg, "2025-06-02", day2)
	}
	parallel.Pipeline.ParallelClean = true

	_, err := New(quietLogger(), sequential).Run(context.Background())
	require.NoError(t, err)
	_, err = New(quietLogger(), parallel).Run(context.Background())
	require.NoError(t, err)

	for _, name := range []string{
		exporter.TimeSeriesFile,
		exporter.CategoryAnalysisFile,
		exporter.DailyTrendsFile,
	} {
		want, err := os.ReadFile(filepath.Join(sequential.Paths.ProcessedDir, name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(parallel.Paths.ProcessedDir, name))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), "parallel output differs for %s", name)
	}
}

func TestRun_NoRawDataFails(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(quietLogger(), cfg).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMissingSource))
}

func TestRun_AllRecordsInvalidFails(t *testing.T) {
	cfg := testConfig(t)
	writeSnapshot(t, cfg, "2025-06-01", `[{"sku":"A","name":"no price"}]`)

	_, err := New(quietLogger(), cfg).Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeEmptyAggregation))
}
