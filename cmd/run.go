package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarrybot/quarrybot/internal/config"
	"github.com/quarrybot/quarrybot/internal/container"
	"github.com/quarrybot/quarrybot/internal/emitter"
)

var runParams string

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Invoke one tool with JSON parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runParams, "params", "p", "{}", "tool parameters as a JSON object")
}

func runRun(cmd *cobra.Command, args []string) error {
	var params map[string]any
	if err := json.Unmarshal([]byte(runParams), &params); err != nil {
		return fmt.Errorf("parse --params: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	manifest, err := config.LoadManifest("")
	if err != nil {
		return err
	}

	// Status events go to stderr so stdout stays clean tool output.
	c, err := container.New(cfg, manifest, emitter.NewWriter(os.Stderr))
	if err != nil {
		return err
	}

	list := c.Tools()
	tool := list.Get(args[0])
	if tool == nil {
		return fmt.Errorf("unknown tool %q; run \"quarrybot tools\" for the list", args[0])
	}

	result, err := tool.Execute(context.Background(), params)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
