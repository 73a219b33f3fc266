package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quarrybot/quarrybot/internal/apicall"
	"github.com/quarrybot/quarrybot/internal/config"
)

var arxivBaseURL = "http://export.arxiv.org/api/query"

// ArXivSearchTool queries the arXiv Atom API and returns flattened paper
// records. Pagination and sort come either from the configured defaults or
// from the caller, never mixed: with UseDefaults set, caller-supplied start,
// max_results, sortBy, and sortOrder are ignored.
type ArXivSearchTool struct {
	client *apicall.Client
	cfg    config.ArXivConfig
}

func NewArXivSearchTool(client *apicall.Client, cfg config.ArXivConfig) *ArXivSearchTool {
	return &ArXivSearchTool{client: client, cfg: cfg}
}

func (t *ArXivSearchTool) Name() string { return string(ToolArXivSearch) }
func (t *ArXivSearchTool) Description() string {
	return "Search arXiv for papers by query string and/or arXiv IDs. Returns title, summary, authors, categories, and links per paper."
}

func (t *ArXivSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"search_query": {
				"type": "string",
				"description": "Plain-text query, e.g. \"all:quantum computing\" or \"ti:\\\"electron thermal conductivity\\\"\""
			},
			"id_list": {
				"type": "string",
				"description": "Comma-separated arXiv IDs, e.g. \"2106.15928,hep-th/9901001\""
			},
			"start": {
				"type": "integer",
				"description": "Index of the first result (0-based)"
			},
			"max_results": {
				"type": "integer",
				"description": "Maximum results to return (<= 30000)"
			},
			"sortBy": {
				"type": "string",
				"enum": ["relevance", "lastUpdatedDate", "submittedDate"]
			},
			"sortOrder": {
				"type": "string",
				"enum": ["ascending", "descending"]
			}
		}
	}`)
}

func (t *ArXivSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query := apicall.Params{}
	copyParams(query, params, "search_query", "id_list")

	if t.cfg.UseDefaults {
		query["start"] = t.cfg.Start
		query["max_results"] = t.cfg.MaxResults
		query["sortBy"] = t.cfg.SortBy
		query["sortOrder"] = t.cfg.SortOrder
	} else {
		copyParams(query, params, "start", "max_results", "sortBy", "sortOrder")
	}

	result, err := t.client.Invoke(ctx, apicall.Descriptor{
		Operation: "arXiv papers",
		Method:    http.MethodGet,
		BaseURL:   arxivBaseURL,
		Query:     query,
		Shape:     apicall.ShapeAtom,
		Hidden:    true,
	})
	if err != nil {
		return errorEnvelope(err), nil
	}
	return marshalResult(result)
}
