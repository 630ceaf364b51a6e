package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "monthly", config.Forecast.Granularity)
	assert.Equal(t, 6, config.Forecast.Horizon)
	assert.Equal(t, 100000.0, config.Forecast.MinBucketRevenue)
	assert.Equal(t, 6, config.Forecast.FallbackBuckets)
	assert.Equal(t, 12, config.Forecast.WeeklyWindow)
	assert.Equal(t, 50, config.Market.NewsWindow)
	assert.Equal(t, 20, config.Market.IntelligenceWindow)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_Priority(t *testing.T) {
	base := writeConfig(t, "base.toml", `
environment = "production"

[forecast]
granularity = "weekly"
horizon = 4

[market]
news_window = 30
`)
	override := writeConfig(t, "override.toml", `
[forecast]
horizon = 8
`)

	t.Run("later file wins", func(t *testing.T) {
		config, err := LoadFromFiles(base, override)
		require.NoError(t, err)

		assert.Equal(t, "weekly", config.Forecast.Granularity)
		assert.Equal(t, 8, config.Forecast.Horizon)
		assert.Equal(t, 30, config.Market.NewsWindow)
		assert.True(t, config.IsProduction())
		// Untouched sections keep their defaults
		assert.Equal(t, 20, config.Market.IntelligenceWindow)
	})

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("BIZPULSE_FORECAST_HORIZON", "12")
		t.Setenv("BIZPULSE_FORECAST_GRANULARITY", "monthly")
		t.Setenv("BIZPULSE_BADGER_PATH", "/tmp/bizpulse-test")

		config, err := LoadFromFiles(base, override)
		require.NoError(t, err)

		assert.Equal(t, 12, config.Forecast.Horizon)
		assert.Equal(t, "monthly", config.Forecast.Granularity)
		assert.Equal(t, "/tmp/bizpulse-test", config.Storage.Badger.Path)
	})

	t.Run("env feed list", func(t *testing.T) {
		t.Setenv("BIZPULSE_MARKET_FEEDS", "https://example.com/a.rss, ,https://example.com/b.rss")
		t.Setenv("BIZPULSE_EMPLOYEES_FILE", "employees.csv")

		config, err := LoadFromFiles(base)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a.rss", "https://example.com/b.rss"}, config.Market.Feeds)
		assert.Equal(t, "employees.csv", config.Data.EmployeesFile)
	})

	t.Run("unparseable env number is ignored", func(t *testing.T) {
		t.Setenv("BIZPULSE_FORECAST_HORIZON", "soon")

		config, err := LoadFromFiles(base)
		require.NoError(t, err)
		assert.Equal(t, 4, config.Forecast.Horizon)
	})

	t.Run("flags beat env", func(t *testing.T) {
		t.Setenv("BIZPULSE_FORECAST_HORIZON", "12")

		config, err := LoadFromFiles(base)
		require.NoError(t, err)
		ApplyFlagOverrides(config, "monthly", 3)

		assert.Equal(t, 3, config.Forecast.Horizon)
		assert.Equal(t, "monthly", config.Forecast.Granularity)
	})
}

func TestLoadFromFiles_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeConfig(t, "bad.toml", "[forecast\nhorizon = ")
		_, err := LoadFromFiles(path)
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"weekly granularity", func(c *Config) { c.Forecast.Granularity = "weekly" }, false},
		{"daily granularity", func(c *Config) { c.Forecast.Granularity = "daily" }, true},
		{"zero horizon", func(c *Config) { c.Forecast.Horizon = 0 }, true},
		{"horizon too long", func(c *Config) { c.Forecast.Horizon = 37 }, true},
		{"negative min revenue", func(c *Config) { c.Forecast.MinBucketRevenue = -1 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty badger path", func(c *Config) { c.Storage.Badger.Path = "" }, true},
		{"bad cron", func(c *Config) { c.Scheduler.Schedule = "every hour" }, true},
		{"feed urls", func(c *Config) { c.Market.Feeds = []string{"https://example.com/rss"} }, false},
		{"bad feed url", func(c *Config) { c.Market.Feeds = []string{"not a url"} }, true},
		{"zero feed rate", func(c *Config) { c.Market.FeedRatePerSecond = 0 }, true},
		{"bad news cron with feeds", func(c *Config) {
			c.Market.Feeds = []string{"https://example.com/rss"}
			c.Scheduler.NewsSchedule = "often"
		}, true},
		{"bad news cron ignored without feeds", func(c *Config) { c.Scheduler.NewsSchedule = "often" }, false},
		{"bad cron ignored when disabled", func(c *Config) {
			c.Scheduler.Enabled = false
			c.Scheduler.Schedule = "every hour"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
