package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/marketing_analytics/internal/report"
)

//nolint:gochecknoglobals // Command flags need to be global for cobra
var exportOut string

//nolint:gochecknoglobals // Cobra commands are typically global
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the enriched daily table to CSV or an XLSX workbook",
	Long: `Export writes the cleaned table with every derived column. A .xlsx
output also gets KPIs, Platforms and Attribution sheets.

Examples:
  mktdash export --out build/daily.csv
  mktdash export --out build/report.xlsx --from 2024-02-01`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (.csv or .xlsx)")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	q, err := filterQuery()
	if err != nil {
		return err
	}
	b, err := a.Metrics.Export(cmd.Context(), q)
	if err != nil {
		return err
	}
	if err := report.ExportFile(exportOut, b); err != nil {
		return fmt.Errorf("export %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(b.Rows), exportOut)
	return nil
}
