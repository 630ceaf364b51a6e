package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/bizpulse/internal/ingest"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a what-if scenario against the current business",
	Long: `Applies the levers in a YAML scenario file (price, demand, cost, new product revenue,
expense reduction) to the current revenue and net profit and recommends whether to proceed.`,
	RunE: runSimulate,
}

var (
	simulateLevers string
	simulateName   string
)

func init() {
	simulateCmd.Flags().StringVarP(&simulateLevers, "levers", "l", "", "YAML scenario file with the lever values")
	simulateCmd.Flags().StringVar(&simulateName, "name", "", "Scenario name (defaults to the name in the file, then the file name)")
	_ = simulateCmd.MarkFlagRequired("levers")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	scenario, err := ingest.LoadScenarioFile(simulateLevers)
	if err != nil {
		logger.Error().Str("path", simulateLevers).Err(err).Msg("Failed to load scenario")
		return err
	}
	if simulateName != "" {
		scenario.Name = simulateName
	}

	outcome, err := application.Simulate(cmd.Context(), scenario)
	if err != nil {
		return err
	}
	return printJSON(outcome)
}
