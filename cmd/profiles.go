package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the configured analysis profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		for _, name := range slices.Sorted(maps.Keys(cfg.Profiles)) {
			p := cfg.Profiles[name]
			region := p.Region
			if region == "" {
				region = "(all)"
			}
			limit := "all"
			if p.Limit > 0 {
				limit = fmt.Sprint(p.Limit)
			}
			fmt.Fprintf(w, "%s\n", name)
			fmt.Fprintf(w, "  input:      %s\n", p.Input)
			fmt.Fprintf(w, "  limit:      %s\n", limit)
			fmt.Fprintf(w, "  region:     %s\n", region)
			fmt.Fprintf(w, "  output:     %s\n", p.Output)
			fmt.Fprintf(w, "  checkpoint: %s\n", p.Checkpoint)
			if len(p.Cities) > 0 {
				fmt.Fprintf(w, "  cities:     %s\n", strings.Join(p.Cities, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
