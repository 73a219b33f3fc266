package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quarrybot/quarrybot/internal/config"
	"github.com/quarrybot/quarrybot/internal/container"
	"github.com/quarrybot/quarrybot/internal/emitter"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "print tool definitions as JSON")
}

func runTools(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	manifest, err := config.LoadManifest("")
	if err != nil {
		return err
	}

	c, err := container.New(cfg, manifest, emitter.Noop{})
	if err != nil {
		return err
	}

	list := c.Tools()
	if toolsJSON {
		out, err := json.MarshalIndent(list.Definitions(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	names := list.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stdout, "%-24s %s\n", name, list.Get(name).Description())
	}
	return nil
}
