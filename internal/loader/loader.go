// Package loader reads daily product snapshots from the raw data
// directory into memory. It performs no transformation beyond structural
// validation of the feed.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/config"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

// Loader reads the combined snapshot store or the per-day snapshot files.
type Loader struct {
	logger   *slog.Logger
	paths    config.PathsConfig
	validate *validator.Validate
}

// New creates a snapshot loader.
func New(logger *slog.Logger, paths config.PathsConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		paths:    paths,
		validate: validator.New(),
	}
}

// Load reads all raw snapshots. It prefers the combined store file and
// falls back to individual per-day files. Finding no data at all is fatal.
func (l *Loader) Load(ctx context.Context) (domain.Snapshots, error) {
	combined := filepath.Join(l.paths.RawDir, l.paths.CombinedFile)
	if _, err := os.Stat(combined); err == nil {
		snapshots, err := l.loadCombined(ctx, combined)
		if err != nil {
			return nil, err
		}
		return l.check(ctx, snapshots)
	}

	snapshots, err := l.loadDailyFiles(ctx)
	if err != nil {
		return nil, err
	}
	return l.check(ctx, snapshots)
}

func (l *Loader) loadCombined(ctx context.Context, path string) (domain.Snapshots, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to read combined snapshot store", err)
	}

	var raw map[string][]domain.RawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to parse %s", filepath.Base(path)), err)
	}

	snapshots := make(domain.Snapshots, len(raw))
	for date, products := range raw {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, errors.NewValidationError("load",
				fmt.Sprintf("combined store has non-ISO date key %q", date))
		}
		snapshots[date] = l.validateRecords(ctx, date, products)
	}

	l.logger.InfoContext(ctx, "loaded combined snapshot store",
		slog.String("path", path),
		slog.Int("days", len(snapshots)))

	return snapshots, nil
}

func (l *Loader) loadDailyFiles(ctx context.Context) (domain.Snapshots, error) {
	entries, err := os.ReadDir(l.paths.RawDir)
	if err != nil {
		return nil, errors.NewMissingSource(
			fmt.Sprintf("cannot read raw data directory %s: %v", l.paths.RawDir, err))
	}

	snapshots := make(domain.Snapshots)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if !strings.HasPrefix(name, l.paths.DailyPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		date := strings.TrimSuffix(strings.TrimPrefix(name, l.paths.DailyPrefix), ".json")
		if _, err := time.Parse(dateLayout, date); err != nil {
			l.logger.WarnContext(ctx, "skipping snapshot file with unparseable date",
				slog.String("file", name))
			continue
		}

		path := filepath.Join(l.paths.RawDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewStorageError(fmt.Sprintf("failed to read %s", name), err)
		}

		var products []domain.RawProduct
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, errors.NewStorageError(fmt.Sprintf("failed to parse %s", name), err)
		}

		snapshots[date] = l.validateRecords(ctx, date, products)
		l.logger.InfoContext(ctx, "loaded daily snapshot",
			slog.String("date", date),
			slog.Int("products", len(products)))
	}

	return snapshots, nil
}

// validateRecords drops records that fail structural validation (a missing
// SKU cannot be deduplicated or tracked). The drop count is reported, the
// records are not retained.
func (l *Loader) validateRecords(ctx context.Context, date string, products []domain.RawProduct) []domain.RawProduct {
	valid := make([]domain.RawProduct, 0, len(products))
	dropped := 0
	for _, p := range products {
		if err := l.validate.Struct(p); err != nil {
			dropped++
			continue
		}
		valid = append(valid, p)
	}
	if dropped > 0 {
		l.logger.WarnContext(ctx, "dropped structurally invalid raw records",
			slog.String("date", date),
			slog.Int("dropped", dropped))
	}
	return valid
}

func (l *Loader) check(ctx context.Context, snapshots domain.Snapshots) (domain.Snapshots, error) {
	total := 0
	for _, products := range snapshots {
		total += len(products)
	}
	if len(snapshots) == 0 || total == 0 {
		return nil, errors.NewMissingSource(
			fmt.Sprintf("no raw snapshot data found in %s", l.paths.RawDir))
	}
	l.logger.InfoContext(ctx, "raw data loaded",
		slog.Int("days", len(snapshots)),
		slog.Int("total_records", total))
	return snapshots, nil
}
