package main

import (
	"github.com/spf13/cobra"
)

var (
	editPath     string
	editTitle    string
	editBody     string
	editBodyFile string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change the title or body of an existing post",
	Long: `Edit rewrites an existing post in place. Its file name and date never change,
even when the title does. Omitted flags keep the current value.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite()
		if err != nil {
			return err
		}

		sess, doc, err := s.Editor.Open(cmd.Context(), editPath)
		if err != nil {
			return err
		}

		title := doc.Title
		if cmd.Flags().Changed("title") {
			title = editTitle
		}
		body := doc.Body
		if cmd.Flags().Changed("body") || cmd.Flags().Changed("body-file") {
			if body, err = readBody(cmd, editBody, editBodyFile); err != nil {
				return err
			}
		}

		_, out := s.Editor.Save(cmd.Context(), sess, title, body)
		return report(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editPath, "path", "", "Post path relative to the site root, e.g. posts/2024-06-01_Hello.md")
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editBody, "body", "", "New body")
	editCmd.Flags().StringVar(&editBodyFile, "body-file", "", "Read the new body from a file (- for stdin)")
	editCmd.MarkFlagRequired("path")
	editCmd.MarkFlagsMutuallyExclusive("body", "body-file")
}
