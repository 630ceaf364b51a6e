package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the effective settings
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("BizPulse", GetVersion())

	logger.Info().
		Str("version", GetVersion()).
		Str("environment", config.Environment).
		Str("storage", config.Storage.Badger.Path).
		Str("granularity", config.Forecast.Granularity).
		Int("horizon", config.Forecast.Horizon).
		Bool("scheduler", config.Scheduler.Enabled).
		Msg("BizPulse starting")
}
