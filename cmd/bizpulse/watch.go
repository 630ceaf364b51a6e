package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the risk snapshot on the configured schedule until interrupted",
	RunE:  runWatch,
}

var watchImmediate bool

func init() {
	watchCmd.Flags().BoolVar(&watchImmediate, "now", false, "Run the news and risk refresh jobs immediately before waiting for the schedule")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := application.StartScheduler(); err != nil {
		logger.Error().Err(err).Msg("Failed to start scheduler")
		return err
	}

	if watchImmediate {
		if err := application.TriggerRefresh(cmd.Context()); err != nil {
			logger.Warn().Err(err).Msg("Failed to trigger initial refresh")
		}
	}

	logger.Info().
		Str("schedule", config.Scheduler.Schedule).
		Msg("Watching - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received")
	if err := application.SchedulerService.Stop(); err != nil {
		logger.Warn().Err(err).Msg("Failed to stop scheduler")
	}
	application.LogJobStatuses()
	return nil
}
