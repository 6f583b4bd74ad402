package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

func TestSaveRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.db")
	s, err := Open(nil, path)
	require.NoError(t, err)
	defer s.Close()

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	table := &timeseries.Table{Rows: []domain.Observation{
		{
			Date: date, SKU: "A", Name: "Dress", Category: "dresses",
			OriginalPrice: 100, SalePrice: 80, DiscountPercent: 20,
			PriceTier: domain.PriceTierPremium, DiscountTier: domain.DiscountTierSmall,
			InStock: true, SavingsAmount: 20,
		},
		{
			Date: date, SKU: "B", Name: "Pant", Category: "pants",
			OriginalPrice: 40, SalePrice: 40,
			PriceTier: domain.PriceTierBudget, DiscountTier: domain.DiscountTierNone,
		},
	}}

	vol := 1.5
	categories := []domain.CategoryStats{
		{Category: "dresses", AvgDiscount: 20, UniqueProducts: 1, Volatility: &vol},
		{Category: "pants", UniqueProducts: 1},
	}
	trends := &domain.DailyTrends{
		Days: []domain.DailyStats{
			{Date: date, AvgOriginalPrice: 70, AvgSalePrice: 60, AvgDiscount: 10, ProductCount: 2},
		},
	}

	require.NoError(t, s.SaveRun(context.Background(), "run-1", table, categories, trends))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM observations WHERE run_id = ?`, "run-1").Scan(&count))
	assert.Equal(t, 2, count)

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM category_stats WHERE run_id = ?`, "run-1").Scan(&count))
	assert.Equal(t, 2, count)

	var volatility sql.NullFloat64
	require.NoError(t, db.QueryRow(
		`SELECT discount_volatility FROM category_stats WHERE run_id = ? AND category = ?`,
		"run-1", "pants").Scan(&volatility))
	assert.False(t, volatility.Valid, "undefined volatility stays NULL")

	var observations int
	require.NoError(t, db.QueryRow(`SELECT observations FROM runs WHERE run_id = ?`, "run-1").Scan(&observations))
	assert.Equal(t, 2, observations)
}

func TestSaveRun_DuplicateRunIDRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.db")
	s, err := Open(nil, path)
	require.NoError(t, err)
	defer s.Close()

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	table := &timeseries.Table{Rows: []domain.Observation{
		{Date: date, SKU: "A", Category: "dresses", OriginalPrice: 100, SalePrice: 80},
	}}
	trends := &domain.DailyTrends{Days: []domain.DailyStats{{Date: date}}}

	require.NoError(t, s.SaveRun(context.Background(), "dup", table, nil, trends))
	require.Error(t, s.SaveRun(context.Background(), "dup", table, nil, trends))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM observations`).Scan(&count))
	assert.Equal(t, 1, count, "the failed second run left no rows behind")
}
