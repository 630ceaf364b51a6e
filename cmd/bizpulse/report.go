package main

import (
	"github.com/spf13/cobra"
)

var profitCmd = &cobra.Command{
	Use:   "profit",
	Short: "Analyse profit drivers in the sales export",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := application.ProfitDrivers(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the business summary built from the configured exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := application.BusinessSummary(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(summary)
	},
}
