package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-parking/internal/model"
	"github.com/sells-group/poi-parking/internal/poi"
	"github.com/sells-group/poi-parking/internal/report"
)

var (
	scanFlags         profileFlags
	scanParkingOutput string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Flag parking facilities by POI name alone, without geocoding",
	RunE: func(cmd *cobra.Command, _ []string) error {
		profile, err := scanFlags.resolve(cfg, cmd.Flags())
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("output") {
			profile.Output = "top_100_pois_analysis.csv"
		}

		cl, err := newClassifier(cfg)
		if err != nil {
			return err
		}
		pois, err := poi.Load(profile.Input, poi.Filter{Limit: profile.Limit, Region: profile.Region})
		if err != nil {
			return err
		}

		results := scanPOIs(pois, cl.ScanName)
		if err := report.WriteScanSummary(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		if err := report.WriteScanCSVFile(profile.Output, results, false); err != nil {
			return err
		}
		if err := report.WriteScanCSVFile(scanParkingOutput, results, true); err != nil {
			return err
		}
		zap.L().Info("scan results saved",
			zap.String("all", profile.Output),
			zap.String("parking", scanParkingOutput),
		)
		return nil
	},
}

func scanPOIs(pois []model.POI, scan func(string) (string, bool)) []report.ScanResult {
	results := make([]report.ScanResult, len(pois))
	for i, p := range pois {
		results[i].POI = p
		if kw, ok := scan(p.Name); ok {
			results[i].Indicator = kw
		}
	}
	return results
}

func init() {
	scanFlags.register(scanCmd.Flags())
	scanCmd.Flags().StringVar(&scanParkingOutput, "parking-output", "parking_facilities_top_100.csv", "CSV of the POIs flagged as parking")
	rootCmd.AddCommand(scanCmd)
}
