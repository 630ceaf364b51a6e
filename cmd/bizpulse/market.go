package main

import (
	"github.com/spf13/cobra"

	"github.com/ternarybob/bizpulse/internal/services/market"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Aggregate recent headlines into a market stress score",
	RunE:  runStress,
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Compute the business risk index",
	Long:  `Blends current market stress with margin, inventory, revenue trend and expense ratio risk. Use --save to store the result as a snapshot.`,
	RunE:  runRisk,
}

var (
	stressIntelligence bool
	riskSave           bool
)

func init() {
	stressCmd.Flags().BoolVar(&stressIntelligence, "intelligence", false, "Also print the market intelligence digest")
	riskCmd.Flags().BoolVar(&riskSave, "save", false, "Store the result as a risk snapshot")
}

func runStress(cmd *cobra.Command, args []string) error {
	stress, err := application.MarketStress(cmd.Context())
	if err != nil {
		return err
	}
	if !stressIntelligence {
		return printJSON(stress)
	}

	intel, err := application.MarketIntelligence(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(struct {
		Stress       *market.StressResult  `json:"market_stress"`
		Intelligence *market.Intelligence `json:"intelligence"`
	}{stress, intel})
}

func runRisk(cmd *cobra.Command, args []string) error {
	if riskSave {
		snapshot, err := application.RefreshRiskSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(snapshot)
	}

	report, err := application.RiskIndex(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(report)
}
