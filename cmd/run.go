package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-parking/internal/config"
	"github.com/sells-group/poi-parking/internal/model"
	"github.com/sells-group/poi-parking/internal/poi"
	"github.com/sells-group/poi-parking/internal/report"
)

var (
	runFlags  profileFlags
	runReport string
	runXLSX   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reverse-geocode and classify the POIs of a profile",
	Long: `Loads the profile's POIs, looks each one up with Nominatim, classifies its
parking, and writes the analysis CSV. Progress is checkpointed every few POIs so
an interrupted run resumes where it stopped.

Examples:
  poi-parking run
  poi-parking run --profile south_bay --report -
  poi-parking run --limit 10 --output sample.csv --xlsx sample.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		profile, err := runFlags.resolve(cfg, cmd.Flags())
		if err != nil {
			return err
		}

		env, err := initRun(ctx, cfg, runFlags.name, profile)
		if err != nil {
			return err
		}
		defer env.Close()

		pois, err := poi.Load(profile.Input, poi.Filter{Limit: profile.Limit, Region: profile.Region})
		if err != nil {
			return err
		}
		zap.L().Info("loaded pois",
			zap.String("profile", runFlags.name),
			zap.String("input", profile.Input),
			zap.Int("count", len(pois)),
		)

		records, err := env.Pipeline.Run(ctx, pois)
		if err != nil {
			return eris.Wrap(err, "run pipeline")
		}

		if err := report.WriteCSVFile(profile.Output, records); err != nil {
			return err
		}
		if err := report.WriteSummary(cmd.OutOrStdout(), records, profile.Output); err != nil {
			return err
		}
		return writeExtras(cmd, records, profile, runReport, runXLSX)
	},
}

// writeExtras writes the optional detailed report ("-" for stdout) and
// workbook.
func writeExtras(cmd *cobra.Command, records []model.Record, p config.Profile, reportPath, xlsxPath string) error {
	if reportPath != "" {
		if err := writeDetailedReport(cmd, records, p, reportPath); err != nil {
			return err
		}
	}
	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, records); err != nil {
			return err
		}
		zap.L().Info("workbook saved", zap.String("path", xlsxPath))
	}
	return nil
}

func reportOptions(p config.Profile) report.Options {
	return report.Options{
		Area:                p.Area,
		Cities:              p.Cities,
		HighlightKeywords:   p.HighlightKeywords,
		HighlightPlaceTypes: p.HighlightPlaceTypes,
		HighlightTitle:      p.HighlightTitle,
	}
}

func writeDetailedReport(cmd *cobra.Command, records []model.Record, p config.Profile, path string) error {
	if path == "-" {
		return report.WriteDetailed(cmd.OutOrStdout(), records, reportOptions(p))
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create report %s", path)
	}
	if err := report.WriteDetailed(f, records, reportOptions(p)); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close report %s", path)
	}
	zap.L().Info("report saved", zap.String("path", path))
	return nil
}

func init() {
	runFlags.register(runCmd.Flags())
	runCmd.Flags().StringVar(&runReport, "report", "", "also write the detailed text report to this path (- for stdout)")
	runCmd.Flags().StringVar(&runXLSX, "xlsx", "", "also write an XLSX workbook to this path")
	rootCmd.AddCommand(runCmd)
}
