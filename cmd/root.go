package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-parking/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "poi-parking",
	Short: "Identify parking facilities near points of interest",
	Long:  "Reverse-geocodes POIs from a GeoJSON file with Nominatim, classifies each one's likely parking facility, and writes CSV, text and spreadsheet reports.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
