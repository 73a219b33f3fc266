// Package container wires core quarrybot services using go.uber.org/dig.
package container

import (
	"fmt"
	"time"

	"go.uber.org/dig"

	"github.com/quarrybot/quarrybot/internal/apicall"
	"github.com/quarrybot/quarrybot/internal/config"
	"github.com/quarrybot/quarrybot/internal/emitter"
	"github.com/quarrybot/quarrybot/internal/schema"
	"github.com/quarrybot/quarrybot/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	client   *apicall.Client
	registry *tools.Registry
}

func (c *Container) Client() *apicall.Client    { return c.client }
func (c *Container) Registry() *tools.Registry  { return c.registry }
func (c *Container) Tools() tools.ToolList      { return c.registry.AllTools() }

// New builds and wires all core services from cfg. manifest selects which
// tools the registry exposes (nil enables everything); sink receives tool
// status events (nil falls back to the slog emitter).
func New(cfg *config.Config, manifest *config.Manifest, sink schema.Emitter) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() *config.Manifest { return manifest }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() schema.Emitter {
		if sink == nil {
			return emitter.NewSlog(nil)
		}
		return sink
	}); err != nil {
		return nil, err
	}
	if err := d.Provide(newLocation); err != nil {
		return nil, err
	}
	if err := d.Provide(newAPIClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newToolRegistry); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(client *apicall.Client, registry *tools.Registry) {
		result = &Container{client: client, registry: registry}
	})
	return result, err
}

func newLocation(cfg *config.Config) (*time.Location, error) {
	if cfg.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q in %s: %w", cfg.Timezone, config.ConfigPath(), err)
	}
	return loc, nil
}

func newAPIClient(cfg *config.Config, sink schema.Emitter) *apicall.Client {
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return apicall.NewClient(sink, timeout, cfg.HTTP.MaxAttempts)
}

func newToolRegistry(cfg *config.Config, manifest *config.Manifest, client *apicall.Client, loc *time.Location) *tools.Registry {
	all := []schema.Tool{
		tools.NewArXivSearchTool(client, cfg.ArXiv),
		tools.NewPaperSearchTool(client),
		tools.NewPaperBulkSearchTool(client),
		tools.NewPaperTitleMatchTool(client),
		tools.NewPaperAutocompleteTool(client),
		tools.NewPaperDetailsTool(client),
		tools.NewPaperAuthorsTool(client),
		tools.NewPaperCitationsTool(client),
		tools.NewPaperReferencesTool(client),
		tools.NewPaperBatchTool(client),
		tools.NewAuthorSearchTool(client),
		tools.NewAuthorDetailsTool(client),
		tools.NewAuthorPapersTool(client),
		tools.NewAuthorBatchTool(client),
		tools.NewSnippetSearchTool(client),
		tools.NewRORSearchTool(client),
		tools.NewRORAdvancedSearchTool(client),
		tools.NewRORAffiliationTool(client),
		tools.NewCongressBillsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressBillTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressLawsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressAmendmentsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressSummariesTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressInfoTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressMembersTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressCommitteesTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressCommitteeTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressReportsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressPrintsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressMeetingsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressHearingsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressRecordTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressDailyRecordTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressCommunicationsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressRequirementsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressNominationsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressCRSReportsTool(client, cfg.Congress.APIKeyEnv),
		tools.NewCongressTreatiesTool(client, cfg.Congress.APIKeyEnv),
		tools.NewMarketDataTool(client, cfg.Market, loc),
		tools.NewCurrentDatetimeTool(loc),
	}

	builder := tools.NewRegistryBuilder()
	for _, t := range all {
		if manifest.Enabled(t.Name()) {
			builder.WithTool(t)
		}
	}
	return builder.Build()
}
