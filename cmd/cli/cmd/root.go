// Package cmd provides the CLI commands for teamrate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamrate/internal/config"
	"teamrate/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "teamrate",
	Short: "Compute fully-loaded hourly prices for delivery teams",
	Long: `teamrate computes a fully-loaded hourly price per technology stack from
employee compensation, shared overhead pools and tunable business ratios.

Named scenarios overlay the base data non-destructively, so what-if pricing
never mutates a record.

Examples:
  teamrate price
  teamrate price --scenario hiring-freeze --format json
  teamrate price --input snapshot.json
  teamrate validate`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.teamrate.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("teamrate version 0.1.0")
	},
}
