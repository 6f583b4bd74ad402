// Package store persists each run's observations and aggregates into a
// local SQLite database so downstream consumers can query the series
// without reparsing the CSV outputs.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	observations INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS observations (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	date TEXT NOT NULL,
	sku TEXT NOT NULL,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	original_price REAL NOT NULL,
	sale_price REAL NOT NULL,
	discount_percentage REAL NOT NULL,
	price_tier TEXT NOT NULL,
	discount_tier TEXT NOT NULL,
	in_stock INTEGER NOT NULL,
	savings_amount REAL NOT NULL,
	PRIMARY KEY (run_id, date, sku)
);
CREATE TABLE IF NOT EXISTS category_stats (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	category TEXT NOT NULL,
	avg_discount REAL NOT NULL,
	median_discount REAL NOT NULL,
	max_discount REAL NOT NULL,
	discount_std REAL NOT NULL,
	unique_products INTEGER NOT NULL,
	avg_savings REAL NOT NULL,
	on_sale_pct REAL NOT NULL,
	discount_volatility REAL,
	PRIMARY KEY (run_id, category)
);
CREATE TABLE IF NOT EXISTS daily_stats (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	date TEXT NOT NULL,
	avg_original_price REAL NOT NULL,
	avg_sale_price REAL NOT NULL,
	avg_discount REAL NOT NULL,
	total_savings REAL NOT NULL,
	product_count INTEGER NOT NULL,
	discount_change REAL,
	price_change REAL,
	PRIMARY KEY (run_id, date)
);
CREATE INDEX IF NOT EXISTS idx_observations_sku ON observations(sku);
CREATE INDEX IF NOT EXISTS idx_observations_category ON observations(category);
`

// Store wraps the SQLite results database.
type Store struct {
	logger *slog.Logger
	db     *sql.DB
}

// Open opens (creating if necessary) the results database and ensures the
// schema exists.
func Open(logger *slog.Logger, path string) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewStorageError("failed to create database directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open results database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to initialize database schema", err)
	}
	return &Store{logger: logger, db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists one run's observation table and aggregates in a single
// transaction: everything commits or nothing does, so a failed run never
// leaves partial rows behind.
func (s *Store) SaveRun(ctx context.Context, runID string, table *timeseries.Table, categories []domain.CategoryStats, trends *domain.DailyTrends) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, observations) VALUES (?, ?)`,
		runID, table.Len()); err != nil {
		return errors.NewStorageError("failed to record run", err)
	}

	obsStmt, err := tx.PrepareContext(ctx, `INSERT INTO observations
		(run_id, date, sku, name, category, original_price, sale_price,
		 discount_percentage, price_tier, discount_tier, in_stock, savings_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.NewStorageError("failed to prepare observation insert", err)
	}
	defer obsStmt.Close()

	for _, row := range table.Rows {
		inStock := 0
		if row.InStock {
			inStock = 1
		}
		if _, err := obsStmt.ExecContext(ctx,
			runID, row.Date.Format(dateLayout), row.SKU, row.Name, row.Category,
			row.OriginalPrice, row.SalePrice, row.DiscountPercent,
			string(row.PriceTier), string(row.DiscountTier), inStock,
			row.SavingsAmount); err != nil {
			return errors.NewStorageError("failed to insert observation", err)
		}
	}

	for _, c := range categories {
		var volatility interface{}
		if c.Volatility != nil {
			volatility = *c.Volatility
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO category_stats
			(run_id, category, avg_discount, median_discount, max_discount,
			 discount_std, unique_products, avg_savings, on_sale_pct, discount_volatility)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, c.Category, c.AvgDiscount, c.MedianDiscount, c.MaxDiscount,
			c.DiscountStd, c.UniqueProducts, c.AvgSavings, c.OnSalePercent,
			volatility); err != nil {
			return errors.NewStorageError("failed to insert category stats", err)
		}
	}

	for _, day := range trends.Days {
		var dc, pc interface{}
		if day.DiscountChange != nil {
			dc = *day.DiscountChange
		}
		if day.PriceChange != nil {
			pc = *day.PriceChange
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO daily_stats
			(run_id, date, avg_original_price, avg_sale_price, avg_discount,
			 total_savings, product_count, discount_change, price_change)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, day.Date.Format(dateLayout), day.AvgOriginalPrice,
			day.AvgSalePrice, day.AvgDiscount, day.TotalSavings,
			day.ProductCount, dc, pc); err != nil {
			return errors.NewStorageError("failed to insert daily stats", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to commit run", err)
	}

	s.logger.Info("persisted run to results database",
		slog.String("run_id", runID),
		slog.Int("observations", table.Len()))

	return nil
}
