package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Regenerate every page and the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite()
		if err != nil {
			return err
		}

		res, err := s.Build(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages and %s in %s.\n", res.PagesWritten, res.IndexPath, res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
