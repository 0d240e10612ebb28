package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/poi-parking/internal/report"
)

var (
	reportProfile string
	reportCSV     string
	reportOut     string
	reportXLSX    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the detailed parking report for an analysis CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		profile, err := cfg.Profile(reportProfile)
		if err != nil {
			return err
		}
		path := reportCSV
		if path == "" {
			path = profile.Output
		}

		records, err := report.ReadCSVFile(path)
		if err != nil {
			return err
		}
		out := reportOut
		if out == "" {
			out = "-"
		}
		return writeExtras(cmd, records, profile, out, reportXLSX)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportProfile, "profile", "citywide", "profile whose report layout to use")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "analysis CSV to read (defaults to the profile output)")
	reportCmd.Flags().StringVar(&reportOut, "output", "", "write the report to this path instead of stdout")
	reportCmd.Flags().StringVar(&reportXLSX, "xlsx", "", "also write an XLSX workbook to this path")
	rootCmd.AddCommand(reportCmd)
}
