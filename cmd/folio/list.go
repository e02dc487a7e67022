package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all posts, newest file first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSite()
		if err != nil {
			return err
		}

		docs, err := s.Editor.List(cmd.Context())
		if err != nil {
			return err
		}

		if listJSON {
			type row struct {
				Path  string `json:"path"`
				Title string `json:"title"`
				Date  string `json:"date"`
			}
			rows := make([]row, 0, len(docs))
			for _, d := range docs {
				rows = append(rows, row{Path: d.Path, Title: d.Title, Date: d.Date})
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(rows)
		}

		for _, d := range docs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", d.Date, d.Path, d.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
