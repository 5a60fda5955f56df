// Package cmd implements the command-line interface for pagesift.
// It provides the root command and subcommands for analyzing page
// structure, extracting product records, and validating extraction runs.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cmdanalyze "github.com/jonesrussell/pagesift/cmd/analyze"
	cmdextract "github.com/jonesrussell/pagesift/cmd/extract"
	cmdvalidate "github.com/jonesrussell/pagesift/cmd/validate"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug mode for all commands.
	debug bool

	// rootCmd represents the root command for the pagesift CLI.
	rootCmd = &cobra.Command{
		Use:   "pagesift",
		Short: "Structural page analysis and selector-driven product extraction",
		Long: `pagesift discovers the repeating structure of e-commerce HTML,
extracts product records with a configurable selector spec, and scores
how well the spec performed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pagesift version %s\n", "0.1.0")
		},
	})

	rootCmd.AddCommand(cmdanalyze.Command())
	rootCmd.AddCommand(cmdextract.Command())
	rootCmd.AddCommand(cmdvalidate.Command())
}
