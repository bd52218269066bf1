package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/marketing_analytics/internal/report"
)

//nolint:gochecknoglobals // Command flags need to be global for cobra
var reportJSON bool

//nolint:gochecknoglobals // Cobra commands are typically global
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the executive summary, KPIs and recommendations",
	Long: `Report prints a plain-text executive summary followed by insights and
recommendations for the selected date range.

Examples:
  mktdash report --from 2024-01-01 --to 2024-01-31
  mktdash report --platforms facebook,google --json`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addFilterFlags(reportCmd)
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the KPI set as JSON after the summary")
}

func runReport(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	q, err := filterQuery()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	summary, insights, err := a.Metrics.Report(ctx, q)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summary)
	if err := report.WriteInsights(out, insights); err != nil {
		return err
	}

	if reportJSON {
		k, err := a.Metrics.KPIs(ctx, q)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", " ")
		return enc.Encode(k)
	}
	return nil
}
