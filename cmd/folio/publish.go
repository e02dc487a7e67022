package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var publishMessage string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Rebuild the site, then commit and push it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite()
		if err != nil {
			return err
		}

		res, pub, err := s.Publish(cmd.Context(), publishMessage)
		if err != nil {
			return err
		}
		if !pub.OK {
			return errors.New(pub.Message)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages; %s\n", res.PagesWritten, pub.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVarP(&publishMessage, "message", "m", "", "Commit message")
	publishCmd.MarkFlagRequired("message")
}
