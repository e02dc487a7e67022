package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
)

var (
	verbose bool
	cfgFile string
	rootDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Build and publish a static blog from Markdown posts",
	Long: `Folio renders every post under the content directory into its own page,
regenerates the index page, and publishes the result with git.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is folio.yaml in the site root)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Site root (default is the nearest directory with folio.yaml or .git)")
}

// openSite resolves the site root and opens it with the shared flags.
func openSite(extra ...folio.Option) (*folio.Site, error) {
	root := rootDir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = cwd
		if found, err := folio.FindSiteRoot(cwd); err == nil {
			root = found
		}
	}

	opts := []folio.Option{folio.WithLogger(slog.Default())}
	if cfgFile != "" {
		opts = append(opts, folio.WithConfigFile(cfgFile))
	}
	opts = append(opts, extra...)
	return folio.Open(root, opts...)
}
