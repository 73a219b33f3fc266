package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarrybot/quarrybot/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show quarrybot status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	fmt.Printf("%s quarrybot Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:   %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	manifestPath := config.ManifestPath()
	_, mfErr := os.Stat(manifestPath)
	mfMark := "✗ (all tools enabled)"
	if mfErr == nil {
		mfMark = "✓"
	}
	fmt.Printf("Manifest: %s %s\n", manifestPath, mfMark)

	fmt.Printf("HTTP:     %ds timeout, %d attempts\n", cfg.HTTP.TimeoutSeconds, cfg.HTTP.MaxAttempts)
	fmt.Printf("Timezone: %s\n\n", cfg.Timezone)

	keyMark := "(not set)"
	if os.Getenv(cfg.Congress.APIKeyEnv) != "" {
		keyMark = "✓"
	}
	fmt.Println("API keys:")
	fmt.Printf("  %-20s %s\n", cfg.Congress.APIKeyEnv, keyMark)
	return nil
}
