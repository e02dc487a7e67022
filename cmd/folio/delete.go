package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/editor"
)

var deletePath string

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a post and its page, rebuild and publish",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite()
		if err != nil {
			return err
		}

		_, out := s.Editor.Delete(cmd.Context(), editor.Session{TargetPath: deletePath})
		return report(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deletePath, "path", "", "Post path relative to the site root")
	deleteCmd.MarkFlagRequired("path")
}
