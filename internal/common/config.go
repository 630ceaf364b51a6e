package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Data        DataConfig      `toml:"data"`
	Market      MarketConfig    `toml:"market"`
	Forecast    ForecastConfig  `toml:"forecast"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                       // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

// DataConfig points at the CSV exports the business summary, forecaster and news ingest read from.
// Empty paths mean "not available"; the pipeline falls back to its documented defaults.
type DataConfig struct {
	SalesFile     string `toml:"sales_file"`
	InventoryFile string `toml:"inventory_file"`
	ExpensesFile  string `toml:"expenses_file"`
	EmployeesFile string `toml:"employees_file"`
	NewsFile      string `toml:"news_file"` // Headline CSV used by "news ingest" when --file is not given
}

// MarketConfig controls the news windows used for stress and intelligence,
// and the RSS/Atom feeds polled for headlines.
type MarketConfig struct {
	NewsWindow         int      `toml:"news_window" validate:"min=1,max=1000"`         // Most recent items fed to the stress aggregator
	IntelligenceWindow int      `toml:"intelligence_window" validate:"min=1,max=1000"` // Most recent items fed to the intelligence digest
	Feeds              []string `toml:"feeds" validate:"dive,url"`                     // Empty disables feed polling
	FeedRatePerSecond  float64  `toml:"feed_rate_per_second" validate:"gt=0"`
	FeedTimeoutSeconds int      `toml:"feed_timeout_seconds" validate:"min=1,max=300"`
	MaxItemsPerFeed    int      `toml:"max_items_per_feed" validate:"min=1"`
}

// ForecastConfig holds forecaster defaults and thresholds.
type ForecastConfig struct {
	Granularity      string  `toml:"granularity" validate:"oneof=monthly weekly"`
	Horizon          int     `toml:"horizon" validate:"min=1,max=36"`
	MinBucketRevenue float64 `toml:"min_bucket_revenue" validate:"gte=0"` // Monthly buckets at or below this are treated as partial months
	FallbackBuckets  int     `toml:"fallback_buckets" validate:"min=3"`
	WeeklyWindow     int     `toml:"weekly_window" validate:"min=3"`
}

// SchedulerConfig controls the periodic news and risk refresh.
type SchedulerConfig struct {
	Enabled      bool   `toml:"enabled"`
	Schedule     string `toml:"schedule"`      // Risk refresh, standard 5-field cron expression
	NewsSchedule string `toml:"news_schedule"` // Feed poll, runs only when market.feeds is set
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Market: MarketConfig{
			NewsWindow:         50,
			IntelligenceWindow: 20,
			FeedRatePerSecond:  1,
			FeedTimeoutSeconds: 15,
			MaxItemsPerFeed:    50,
		},
		Forecast: ForecastConfig{
			Granularity:      "monthly",
			Horizon:          6,
			MinBucketRevenue: 100000,
			FallbackBuckets:  6,
			WeeklyWindow:     12,
		},
		Scheduler: SchedulerConfig{
			Enabled:      true,
			Schedule:     "0 * * * *",  // Hourly
			NewsSchedule: "55 * * * *", // Ahead of the hourly risk refresh
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files. CLI flags are applied by the caller afterwards.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// A missing .env is normal; anything else is worth failing on.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BIZPULSE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("BIZPULSE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("BIZPULSE_LOG_OUTPUT"); output != "" {
		if outputs := splitList(output); len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("BIZPULSE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Data files
	if sales := os.Getenv("BIZPULSE_SALES_FILE"); sales != "" {
		config.Data.SalesFile = sales
	}
	if inventory := os.Getenv("BIZPULSE_INVENTORY_FILE"); inventory != "" {
		config.Data.InventoryFile = inventory
	}
	if expenses := os.Getenv("BIZPULSE_EXPENSES_FILE"); expenses != "" {
		config.Data.ExpensesFile = expenses
	}
	if employees := os.Getenv("BIZPULSE_EMPLOYEES_FILE"); employees != "" {
		config.Data.EmployeesFile = employees
	}
	if news := os.Getenv("BIZPULSE_NEWS_FILE"); news != "" {
		config.Data.NewsFile = news
	}

	// Market configuration
	if window := os.Getenv("BIZPULSE_MARKET_NEWS_WINDOW"); window != "" {
		if w, err := strconv.Atoi(window); err == nil {
			config.Market.NewsWindow = w
		}
	}

	if feeds := os.Getenv("BIZPULSE_MARKET_FEEDS"); feeds != "" {
		config.Market.Feeds = splitList(feeds)
	}

	// Forecast configuration
	if granularity := os.Getenv("BIZPULSE_FORECAST_GRANULARITY"); granularity != "" {
		config.Forecast.Granularity = granularity
	}
	if horizon := os.Getenv("BIZPULSE_FORECAST_HORIZON"); horizon != "" {
		if h, err := strconv.Atoi(horizon); err == nil {
			config.Forecast.Horizon = h
		}
	}
	if minRevenue := os.Getenv("BIZPULSE_FORECAST_MIN_BUCKET_REVENUE"); minRevenue != "" {
		if r, err := strconv.ParseFloat(minRevenue, 64); err == nil {
			config.Forecast.MinBucketRevenue = r
		}
	}

	// Scheduler configuration
	if enabled := os.Getenv("BIZPULSE_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if schedule := os.Getenv("BIZPULSE_SCHEDULER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}
	if schedule := os.Getenv("BIZPULSE_SCHEDULER_NEWS_SCHEDULE"); schedule != "" {
		config.Scheduler.NewsSchedule = schedule
	}
}

// splitList splits a comma-separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, granularity string, horizon int) {
	if granularity != "" {
		config.Forecast.Granularity = granularity
	}
	if horizon > 0 {
		config.Forecast.Horizon = horizon
	}
}

// Validate checks field constraints and the scheduler cron expression.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Scheduler.Enabled {
		if err := ValidateSchedule(c.Scheduler.Schedule); err != nil {
			return err
		}
		if len(c.Market.Feeds) > 0 {
			if err := ValidateSchedule(c.Scheduler.NewsSchedule); err != nil {
				return fmt.Errorf("news_schedule: %w", err)
			}
		}
	}
	return nil
}

// ValidateSchedule validates a standard 5-field cron expression
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
