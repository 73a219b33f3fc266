package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/quarrybot/quarrybot/internal/apicall"
)

var rorBaseURL = "https://api.ror.org/v2/organizations"

// rorFilterKeys map tool parameters onto the single comma-joined "filter"
// query parameter the ROR API expects.
var rorFilterKeys = []string{
	"status",
	"types",
	"country_code",
	"country_name",
	"continent_code",
	"continent_name",
}

func rorFilter(params map[string]any) string {
	filters := make([]string, 0, len(rorFilterKeys))
	for _, key := range rorFilterKeys {
		if v, ok := strParam(params, key); ok {
			filters = append(filters, fmt.Sprintf("%s:%s", key, v))
		}
	}
	return strings.Join(filters, ",")
}

// RORSearchTool performs a quick search of organization names and external
// IDs in the Research Organization Registry. Multiple organizations fan out
// into one call each; results are combined under a "results" list with
// per-organization error envelopes embedded.
type RORSearchTool struct {
	client *apicall.Client
}

func NewRORSearchTool(client *apicall.Client) *RORSearchTool {
	return &RORSearchTool{client: client}
}

func (t *RORSearchTool) Name() string { return string(ToolRORSearch) }
func (t *RORSearchTool) Description() string {
	return "Search the Research Organization Registry by organization name or external identifier, with status, type, country, and continent filters."
}

func (t *RORSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Organization name(s) to search for"
			},
			"status": {"type": "string", "enum": ["active", "inactive", "withdrawn"]},
			"types": {"type": "string", "enum": ["archive", "company", "education", "facility", "funder", "government", "healthcare", "other"]},
			"country_code": {"type": "string", "description": "ISO 3166-2 country code, uppercase"},
			"country_name": {"type": "string"},
			"continent_code": {"type": "string", "enum": ["AF", "AN", "AS", "EU", "NA", "OC", "SA"]},
			"continent_name": {"type": "string"},
			"all_status": {"type": "boolean", "description": "Include inactive and withdrawn records; overrides the status filter"}
		}
	}`)
}

func (t *RORSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query := apicall.Params{}
	if filter := rorFilter(params); filter != "" {
		query["filter"] = filter
	}
	// The registry expects all_status as a bare valueless flag.
	if allStatus, ok := boolParam(params, "all_status"); ok && allStatus {
		query["all_status"] = apicall.Empty
	}

	orgs, _ := strSliceParam(params, "organization")

	if len(orgs) > 1 {
		// One registry call per organization, combined in request order.
		results := make([]any, 0, len(orgs))
		for _, org := range orgs {
			orgQuery := apicall.Params{"query": org}
			if filter, ok := query["filter"]; ok {
				orgQuery["filter"] = filter
			}
			if flag, ok := query["all_status"]; ok {
				orgQuery["all_status"] = flag
			}
			envelope, err := t.query(ctx, orgQuery)
			if err != nil {
				results = append(results, map[string]any{"error": err.Error()})
				continue
			}
			results = append(results, envelope)
		}
		return marshalResult(map[string]any{"results": results})
	}

	if len(orgs) == 1 {
		query["query"] = orgs[0]
	}
	envelope, err := t.query(ctx, query)
	if err != nil {
		return errorEnvelope(err), nil
	}
	return marshalResult(envelope)
}

func (t *RORSearchTool) query(ctx context.Context, query apicall.Params) (any, error) {
	return t.client.Invoke(ctx, apicall.Descriptor{
		Operation: "organizations",
		Method:    http.MethodGet,
		BaseURL:   rorBaseURL,
		Query:     query,
		Hidden:    true,
	})
}

// RORAdvancedSearchTool queries any ROR record field using Elasticsearch
// query string syntax via the query.advanced parameter.
type RORAdvancedSearchTool struct {
	client *apicall.Client
}

func NewRORAdvancedSearchTool(client *apicall.Client) *RORAdvancedSearchTool {
	return &RORAdvancedSearchTool{client: client}
}

func (t *RORAdvancedSearchTool) Name() string { return string(ToolRORAdvancedSearch) }
func (t *RORAdvancedSearchTool) Description() string {
	return "Search all Research Organization Registry record fields with Elasticsearch query string syntax, e.g. (types:education AND country.country_code:GB)."
}

func (t *RORAdvancedSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"advanced_query": {
				"type": "string",
				"description": "Elasticsearch query string. Case-sensitive; reserved characters must be escaped."
			},
			"all_status": {"type": "boolean", "description": "Include inactive and withdrawn records"}
		},
		"required": ["advanced_query"]
	}`)
}

func (t *RORAdvancedSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query := apicall.Params{}
	if q, ok := strParam(params, "advanced_query"); ok {
		query["query.advanced"] = q
	}
	if allStatus, ok := boolParam(params, "all_status"); ok && allStatus {
		query["all_status"] = apicall.Empty
	}

	envelope, err := t.client.Invoke(ctx, apicall.Descriptor{
		Operation: "organizations (advanced)",
		Method:    http.MethodGet,
		BaseURL:   rorBaseURL,
		Query:     query,
		Hidden:    true,
	})
	if err != nil {
		return errorEnvelope(err), nil
	}
	return marshalResult(envelope)
}

// RORAffiliationTool matches messy affiliation text (addresses, departments,
// punctuation and all) to ROR records, ranked by confidence.
type RORAffiliationTool struct {
	client *apicall.Client
}

func NewRORAffiliationTool(client *apicall.Client) *RORAffiliationTool {
	return &RORAffiliationTool{client: client}
}

func (t *RORAffiliationTool) Name() string { return string(ToolRORAffiliation) }
func (t *RORAffiliationTool) Description() string {
	return "Match a raw affiliation string (e.g. a full author affiliation line) to Research Organization Registry records, ranked by confidence."
}

func (t *RORAffiliationTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"affiliation": {
				"type": "string",
				"description": "Affiliation text, e.g. \"Department of Civil Engineering, University of Pisa, Italy\""
			}
		},
		"required": ["affiliation"]
	}`)
}

func (t *RORAffiliationTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	affiliation, ok := strParam(params, "affiliation")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("affiliation is required")), nil
	}

	envelope, err := t.client.Invoke(ctx, apicall.Descriptor{
		Operation: "affiliation matches",
		Method:    http.MethodGet,
		BaseURL:   rorBaseURL,
		Query:     apicall.Params{"affiliation": affiliation},
		Hidden:    true,
	})
	if err != nil {
		return errorEnvelope(err), nil
	}
	return marshalResult(envelope)
}
