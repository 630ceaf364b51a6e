package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/app"
	"github.com/ternarybob/bizpulse/internal/common"
)

var (
	// Command-line flags
	configFiles []string // Multiple --config flags supported

	// Global state
	config      *common.Config
	logger      arbor.ILogger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "bizpulse",
	Short: "Business analytics pipeline",
	Long: `bizpulse classifies market headlines, aggregates market stress, forecasts revenue,
scores business risk and simulates what-if scenarios over sales, inventory, expense and employee exports.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")

	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(stressCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(profitCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// bootstrap runs the startup sequence in the required order:
// config files -> flag overrides -> validation -> logger -> banner -> app.
func bootstrap(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("bizpulse.toml"); err == nil {
			configFiles = append(configFiles, "bizpulse.toml")
		} else if _, err := os.Stat("deployments/local/bizpulse.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/bizpulse.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		return err
	}

	common.ApplyFlagOverrides(config, forecastGranularity, forecastHorizon)

	if err := config.Validate(); err != nil {
		arbor.NewLogger().Error().Err(err).Msg("Configuration rejected")
		return err
	}

	logger = common.InitLogger(config)
	common.PrintBanner(config, logger)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("badger_path", config.Storage.Badger.Path).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Resolved configuration")

	application, err = app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return err
	}

	return nil
}

func shutdown() {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close application")
	}
	application = nil
}

// printJSON writes v to stdout as indented JSON
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
