package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/editor"
)

var (
	newTitle    string
	newBody     string
	newBodyFile string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Write a new post, rebuild and publish",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readBody(cmd, newBody, newBodyFile)
		if err != nil {
			return err
		}

		s, err := openSite()
		if err != nil {
			return err
		}

		_, out := s.Editor.Save(cmd.Context(), editor.Session{}, newTitle, body)
		return report(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Post title")
	newCmd.Flags().StringVar(&newBody, "body", "", "Post body")
	newCmd.Flags().StringVar(&newBodyFile, "body-file", "", "Read the body from a file (- for stdin)")
	newCmd.MarkFlagRequired("title")
	newCmd.MarkFlagsMutuallyExclusive("body", "body-file")
}

// readBody returns the inline body or the contents of file.
func readBody(cmd *cobra.Command, inline, file string) (string, error) {
	switch file {
	case "":
		return inline, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read body: %w", err)
		}
		return string(data), nil
	}
}

// report prints a successful outcome or turns a failed one into an error.
func report(cmd *cobra.Command, out editor.Outcome) error {
	if !out.Success {
		return errors.New(out.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Message)
	return nil
}
