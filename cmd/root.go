// Package cmd implements the quarrybot CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "⛏️"

// configPath overrides the default config location when set via --config.
var configPath string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "quarrybot",
	Short: logo + " quarrybot — research-data tools for LLM hosts",
	Long:  logo + " quarrybot — a collection of LLM-callable tools over public research and market-data APIs",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.quarrybot/config.json)")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}
