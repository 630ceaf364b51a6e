package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/bizpulse/internal/services/forecast"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project revenue from the sales export",
	Long:  `Aggregates the sales export into monthly or weekly periods and projects the configured horizon. Monthly forecasts compound the average month-over-month growth rate and scale each projected month by its seasonal index; weekly forecasts repeat the last observed week.`,
	RunE:  runForecast,
}

var (
	forecastGranularity string
	forecastHorizon     int
)

func init() {
	forecastCmd.Flags().StringVarP(&forecastGranularity, "granularity", "g", "", "Period granularity: monthly or weekly (overrides config)")
	forecastCmd.Flags().IntVarP(&forecastHorizon, "horizon", "n", 0, "Number of periods to project (overrides config)")
}

func runForecast(cmd *cobra.Command, args []string) error {
	granularity, err := forecast.ParseGranularity(config.Forecast.Granularity)
	if err != nil {
		return err
	}

	result, err := application.Forecast(cmd.Context(), granularity, config.Forecast.Horizon)
	if err != nil {
		return err
	}
	return printJSON(result)
}
