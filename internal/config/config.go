package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete pipeline configuration. Values come from an
// optional config.yaml overridden by PRICE_* environment variables.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// PathsConfig locates the raw snapshots and the processed outputs.
type PathsConfig struct {
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR" default:"data/raw"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"data/processed"`
	CombinedFile string `yaml:"combined_file" envconfig:"COMBINED_FILE" default:"aritzia_all_days.json"`
	DailyPrefix  string `yaml:"daily_prefix" envconfig:"DAILY_PREFIX" default:"aritzia_products_"`
	DatabaseFile string `yaml:"database_file" envconfig:"DATABASE_FILE" default:"prices.db"`
}

// DatabasePath is the results database location under the processed
// output directory.
func (p PathsConfig) DatabasePath() string {
	return filepath.Join(p.ProcessedDir, p.DatabaseFile)
}

// AnalysisConfig bundles the tier thresholds and magic constants so they
// are explicit, testable, and overridable per run rather than buried as
// process-wide constants.
type AnalysisConfig struct {
	// Price tiers are half-open on the lower bound: budget < BudgetMax,
	// mid-range < MidRangeMax, premium < PremiumMax, luxury otherwise.
	BudgetMax   float64 `yaml:"budget_max" envconfig:"BUDGET_MAX" default:"50"`
	MidRangeMax float64 `yaml:"mid_range_max" envconfig:"MID_RANGE_MAX" default:"100"`
	PremiumMax  float64 `yaml:"premium_max" envconfig:"PREMIUM_MAX" default:"200"`

	// Discount tiers: small ≤ SmallMax, medium ≤ MediumMax, large above.
	SmallDiscountMax  float64 `yaml:"small_discount_max" envconfig:"SMALL_DISCOUNT_MAX" default:"20"`
	MediumDiscountMax float64 `yaml:"medium_discount_max" envconfig:"MEDIUM_DISCOUNT_MAX" default:"40"`

	// ConsistencyStdThreshold is the maximum discount standard deviation
	// for a product to count as consistently discounted. Inherited from
	// the legacy analysis with no derivation; kept overridable.
	ConsistencyStdThreshold float64 `yaml:"consistency_std_threshold" envconfig:"CONSISTENCY_STD_THRESHOLD" default:"5"`

	// TopConsistent is how many consistently discounted products to report.
	TopConsistent int `yaml:"top_consistent" envconfig:"TOP_CONSISTENT" default:"5"`
}

// PipelineConfig controls run behavior. Sequential cleaning is the
// reference semantics; parallel cleaning produces identical output because
// days are independent and reassembled in date order.
type PipelineConfig struct {
	ParallelClean bool `yaml:"parallel_clean" envconfig:"PARALLEL_CLEAN" default:"false"`
	CleanWorkers  int  `yaml:"clean_workers" envconfig:"CLEAN_WORKERS" default:"4"`
}

// Load reads configuration from config.yaml (if present) and PRICE_*
// environment variables, environment taking precedence.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("PRICE", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/pipeline.log",
		},
		Paths: PathsConfig{
			RawDir:       "data/raw",
			ProcessedDir: "data/processed",
			CombinedFile: "aritzia_all_days.json",
			DailyPrefix:  "aritzia_products_",
			DatabaseFile: "prices.db",
		},
		Analysis: AnalysisConfig{
			BudgetMax:               50,
			MidRangeMax:             100,
			PremiumMax:              200,
			SmallDiscountMax:        20,
			MediumDiscountMax:       40,
			ConsistencyStdThreshold: 5,
			TopConsistent:           5,
		},
		Pipeline: PipelineConfig{
			ParallelClean: false,
			CleanWorkers:  4,
		},
	}
}

func (c *Config) validate() error {
	a := c.Analysis
	if a.BudgetMax <= 0 || a.MidRangeMax <= a.BudgetMax || a.PremiumMax <= a.MidRangeMax {
		return fmt.Errorf("price tier cutoffs must be increasing and positive: %.2f/%.2f/%.2f",
			a.BudgetMax, a.MidRangeMax, a.PremiumMax)
	}
	if a.SmallDiscountMax <= 0 || a.MediumDiscountMax <= a.SmallDiscountMax {
		return fmt.Errorf("discount tier cutoffs must be increasing and positive: %.2f/%.2f",
			a.SmallDiscountMax, a.MediumDiscountMax)
	}
	if a.ConsistencyStdThreshold <= 0 {
		return fmt.Errorf("consistency std threshold must be positive: %.2f", a.ConsistencyStdThreshold)
	}
	if a.TopConsistent <= 0 {
		return fmt.Errorf("top consistent count must be positive: %d", a.TopConsistent)
	}
	if c.Paths.RawDir == "" || c.Paths.ProcessedDir == "" {
		return fmt.Errorf("raw and processed directories must be set")
	}
	if c.Pipeline.CleanWorkers <= 0 {
		return fmt.Errorf("clean workers must be positive: %d", c.Pipeline.CleanWorkers)
	}
	return nil
}
