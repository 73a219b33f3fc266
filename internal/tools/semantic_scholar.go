package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quarrybot/quarrybot/internal/apicall"
)

var semanticScholarBaseURL = "https://api.semanticscholar.org/graph/v1"

// paperFilterKeys are the optional filters shared by the paper search
// endpoints. They pass through to the API only when the caller supplied them.
var paperFilterKeys = []string{
	"fields",
	"publicationTypes",
	"openAccessPdf",
	"minCitationCount",
	"publicationDateOrYear",
	"year",
	"venue",
	"fieldsOfStudy",
}

// semanticScholar is the shared base for all Semantic Scholar tools.
type semanticScholar struct {
	client *apicall.Client
}

func (s semanticScholar) call(ctx context.Context, d apicall.Descriptor) (string, error) {
	d.BaseURL = semanticScholarBaseURL
	d.Hidden = true
	result, err := s.client.Invoke(ctx, d)
	if err != nil {
		return errorEnvelope(err), nil
	}
	return marshalResult(result)
}

func segments(values ...string) []apicall.Segment {
	segs := make([]apicall.Segment, 0, len(values))
	for _, v := range values {
		segs = append(segs, apicall.Segment{Name: v, Value: v, Required: true})
	}
	return segs
}

// ---------------------------------------------------------------------------
// Paper search
// ---------------------------------------------------------------------------

// PaperSearchTool performs relevance-ranked paper search.
type PaperSearchTool struct{ semanticScholar }

func NewPaperSearchTool(client *apicall.Client) *PaperSearchTool {
	return &PaperSearchTool{semanticScholar{client: client}}
}

func (t *PaperSearchTool) Name() string { return string(ToolPaperSearch) }
func (t *PaperSearchTool) Description() string {
	return "Search Semantic Scholar for papers by relevance. Supports field selection and filters for year, venue, citations, and open access."
}

func (t *PaperSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Plain-text search query"},
			"fields": {"type": "string", "description": "Comma-separated fields, e.g. \"title,authors,year\""},
			"limit": {"type": "integer", "description": "Max results (<= 100)"},
			"offset": {"type": "integer", "description": "Pagination offset"},
			"publicationTypes": {"type": "string"},
			"openAccessPdf": {"type": "string"},
			"minCitationCount": {"type": "integer"},
			"publicationDateOrYear": {"type": "string"},
			"year": {"type": "string"},
			"venue": {"type": "string"},
			"fieldsOfStudy": {"type": "string"}
		},
		"required": ["query"]
	}`)
}

func (t *PaperSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	q, ok := strParam(params, "query")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("query is required")), nil
	}
	query := apicall.Params{"query": q}
	copyParams(query, params, "limit", "offset")
	copyParams(query, params, paperFilterKeys...)

	return t.call(ctx, apicall.Descriptor{
		Operation: "papers",
		Method:    http.MethodGet,
		Path:      segments("paper", "search"),
		Query:     query,
	})
}

// PaperBulkSearchTool retrieves large result sets without relevance ranking,
// paginated by continuation token.
type PaperBulkSearchTool struct{ semanticScholar }

func NewPaperBulkSearchTool(client *apicall.Client) *PaperBulkSearchTool {
	return &PaperBulkSearchTool{semanticScholar{client: client}}
}

func (t *PaperBulkSearchTool) Name() string { return string(ToolPaperBulkSearch) }
func (t *PaperBulkSearchTool) Description() string {
	return "Bulk paper search on Semantic Scholar with boolean query syntax, continuation-token pagination, and sorting."
}

func (t *PaperBulkSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Boolean text query matched against title and abstract"},
			"token": {"type": "string", "description": "Continuation token from a previous response"},
			"sort": {"type": "string", "description": "field:order, e.g. \"citationCount:desc\""},
			"fields": {"type": "string"},
			"publicationTypes": {"type": "string"},
			"openAccessPdf": {"type": "string"},
			"minCitationCount": {"type": "integer"},
			"publicationDateOrYear": {"type": "string"},
			"year": {"type": "string"},
			"venue": {"type": "string"},
			"fieldsOfStudy": {"type": "string"}
		},
		"required": ["query"]
	}`)
}

func (t *PaperBulkSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	q, ok := strParam(params, "query")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("query is required")), nil
	}
	query := apicall.Params{"query": q}
	copyParams(query, params, "token", "sort")
	copyParams(query, params, paperFilterKeys...)

	return t.call(ctx, apicall.Descriptor{
		Operation: "bulk papers",
		Method:    http.MethodGet,
		Path:      segments("paper", "search", "bulk"),
		Query:     query,
	})
}

// PaperTitleMatchTool finds the single paper whose title best matches the query.
type PaperTitleMatchTool struct{ semanticScholar }

func NewPaperTitleMatchTool(client *apicall.Client) *PaperTitleMatchTool {
	return &PaperTitleMatchTool{semanticScholar{client: client}}
}

func (t *PaperTitleMatchTool) Name() string { return string(ToolPaperTitleMatch) }
func (t *PaperTitleMatchTool) Description() string {
	return "Find the Semantic Scholar paper whose title most closely matches the given text."
}

func (t *PaperTitleMatchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Paper title text to match"},
			"fields": {"type": "string"},
			"publicationTypes": {"type": "string"},
			"openAccessPdf": {"type": "string"},
			"minCitationCount": {"type": "integer"},
			"publicationDateOrYear": {"type": "string"},
			"year": {"type": "string"},
			"venue": {"type": "string"},
			"fieldsOfStudy": {"type": "string"}
		},
		"required": ["query"]
	}`)
}

func (t *PaperTitleMatchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	q, ok := strParam(params, "query")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("query is required")), nil
	}
	query := apicall.Params{"query": q}
	copyParams(query, params, paperFilterKeys...)

	return t.call(ctx, apicall.Descriptor{
		Operation: "title match",
		Method:    http.MethodGet,
		Path:      segments("paper", "search", "match"),
		Query:     query,
	})
}

// PaperAutocompleteTool suggests query completions for interactive search.
type PaperAutocompleteTool struct{ semanticScholar }

func NewPaperAutocompleteTool(client *apicall.Client) *PaperAutocompleteTool {
	return &PaperAutocompleteTool{semanticScholar{client: client}}
}

func (t *PaperAutocompleteTool) Name() string { return string(ToolPaperAutocomplete) }
func (t *PaperAutocompleteTool) Description() string {
	return "Suggest paper completions for a partial query. Returns minimal paper info; partial queries are truncated to 100 characters."
}

func (t *PaperAutocompleteTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Partial query string"}
		},
		"required": ["query"]
	}`)
}

func (t *PaperAutocompleteTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	q, ok := strParam(params, "query")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("query is required")), nil
	}
	return t.call(ctx, apicall.Descriptor{
		Operation: "paper completions",
		Method:    http.MethodGet,
		Path:      segments("paper", "autocomplete"),
		Query:     apicall.Params{"query": q},
	})
}

// ---------------------------------------------------------------------------
// Paper details and sub-resources
// ---------------------------------------------------------------------------

// PaperDetailsTool fetches one paper by ID (SHA, CorpusId:, DOI:, ARXIV:, ...).
type PaperDetailsTool struct{ semanticScholar }

func NewPaperDetailsTool(client *apicall.Client) *PaperDetailsTool {
	return &PaperDetailsTool{semanticScholar{client: client}}
}

func (t *PaperDetailsTool) Name() string { return string(ToolPaperDetails) }
func (t *PaperDetailsTool) Description() string {
	return "Get details for one Semantic Scholar paper by ID. Supports SHA, CorpusId:, DOI:, ARXIV:, MAG:, ACL:, PMID:, PMCID:, and URL: identifiers."
}

func (t *PaperDetailsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"paper_id": {"type": "string", "description": "Paper identifier"},
			"fields": {"type": "string", "description": "Comma-separated fields, dot notation for nested fields"}
		},
		"required": ["paper_id"]
	}`)
}

func (t *PaperDetailsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	id, _ := strParam(params, "paper_id")
	query := apicall.Params{}
	copyParams(query, params, "fields")

	return t.call(ctx, apicall.Descriptor{
		Operation: "paper details",
		Method:    http.MethodGet,
		Path: []apicall.Segment{
			{Name: "paper", Value: "paper", Required: true},
			{Name: "paper_id", Value: id, Required: true},
		},
		Query: query,
	})
}

// paperSubResourceTool factors the three paper sub-resource endpoints
// (authors, citations, references), which share shape and parameters.
type paperSubResourceTool struct {
	semanticScholar
	name        ToolName
	resource    string
	description string
	operation   string
}

func (t *paperSubResourceTool) Name() string        { return string(t.name) }
func (t *paperSubResourceTool) Description() string { return t.description }

func (t *paperSubResourceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"paper_id": {"type": "string", "description": "Paper identifier"},
			"offset": {"type": "integer"},
			"limit": {"type": "integer"},
			"fields": {"type": "string"},
			"publicationDateOrYear": {"type": "string"}
		},
		"required": ["paper_id"]
	}`)
}

func (t *paperSubResourceTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	id, _ := strParam(params, "paper_id")
	query := apicall.Params{}
	copyParams(query, params, "offset", "limit", "fields", "publicationDateOrYear")

	return t.call(ctx, apicall.Descriptor{
		Operation: t.operation,
		Method:    http.MethodGet,
		Path: []apicall.Segment{
			{Name: "paper", Value: "paper", Required: true},
			{Name: "paper_id", Value: id, Required: true},
			{Name: t.resource, Value: t.resource, Required: true},
		},
		Query: query,
	})
}

func NewPaperAuthorsTool(client *apicall.Client) *paperSubResourceTool {
	return &paperSubResourceTool{
		semanticScholar: semanticScholar{client: client},
		name:            ToolPaperAuthors,
		resource:        "authors",
		operation:       "paper authors",
		description:     "List the authors of a Semantic Scholar paper, with pagination and field selection.",
	}
}

func NewPaperCitationsTool(client *apicall.Client) *paperSubResourceTool {
	return &paperSubResourceTool{
		semanticScholar: semanticScholar{client: client},
		name:            ToolPaperCitations,
		resource:        "citations",
		operation:       "paper citations",
		description:     "List the papers that cite a Semantic Scholar paper, including citation contexts and intents when requested.",
	}
}

func NewPaperReferencesTool(client *apicall.Client) *paperSubResourceTool {
	return &paperSubResourceTool{
		semanticScholar: semanticScholar{client: client},
		name:            ToolPaperReferences,
		resource:        "references",
		operation:       "paper references",
		description:     "List the papers cited by a Semantic Scholar paper (its bibliography), with pagination and field selection.",
	}
}

// ---------------------------------------------------------------------------
// Batch endpoints (POST with ids in the body, fields in the query)
// ---------------------------------------------------------------------------

type batchTool struct {
	semanticScholar
	name        ToolName
	collection  string
	description string
	operation   string
}

func (t *batchTool) Name() string        { return string(t.name) }
func (t *batchTool) Description() string { return t.description }

func (t *batchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"ids": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Identifiers to look up (max 500 papers or 1000 authors)"
			},
			"fields": {"type": "string", "description": "Comma-separated fields; a single string, not a list"}
		},
		"required": ["ids"]
	}`)
}

func (t *batchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	ids, ok := strSliceParam(params, "ids")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("ids is required")), nil
	}
	query := apicall.Params{}
	copyParams(query, params, "fields")

	return t.call(ctx, apicall.Descriptor{
		Operation: t.operation,
		Method:    http.MethodPost,
		Path:      segments(t.collection, "batch"),
		Query:     query,
		Body:      map[string]any{"ids": ids},
	})
}

func NewPaperBatchTool(client *apicall.Client) *batchTool {
	return &batchTool{
		semanticScholar: semanticScholar{client: client},
		name:            ToolPaperBatch,
		collection:      "paper",
		operation:       "paper batch",
		description:     "Get details for up to 500 Semantic Scholar papers at once by ID list.",
	}
}

func NewAuthorBatchTool(client *apicall.Client) *batchTool {
	return &batchTool{
		semanticScholar: semanticScholar{client: client},
		name:            ToolAuthorBatch,
		collection:      "author",
		operation:       "author batch",
		description:     "Get details for up to 1000 Semantic Scholar authors at once by ID list.",
	}
}

// ---------------------------------------------------------------------------
// Authors
// ---------------------------------------------------------------------------

// AuthorSearchTool searches authors by name.
type AuthorSearchTool struct{ semanticScholar }

func NewAuthorSearchTool(client *apicall.Client) *AuthorSearchTool {
	return &AuthorSearchTool{semanticScholar{client: client}}
}

func (t *AuthorSearchTool) Name() string { return string(ToolAuthorSearch) }
func (t *AuthorSearchTool) Description() string {
	return "Search Semantic Scholar authors by name. Hyphenated terms may yield no results; use spaces instead."
}

func (t *AuthorSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Author name"},
			"offset": {"type": "integer"},
			"limit": {"type": "integer", "description": "Max authors (<= 1000)"},
			"fields": {"type": "string"}
		},
		"required": ["query"]
	}`)
}

func (t *AuthorSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	q, ok := strParam(params, "query")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("query is required")), nil
	}
	query := apicall.Params{"query": q}
	copyParams(query, params, "offset", "limit", "fields")

	return t.call(ctx, apicall.Descriptor{
		Operation: "authors",
		Method:    http.MethodGet,
		Path:      segments("author", "search"),
		Query:     query,
	})
}

// AuthorDetailsTool fetches one author by ID.
type AuthorDetailsTool struct{ semanticScholar }

func NewAuthorDetailsTool(client *apicall.Client) *AuthorDetailsTool {
	return &AuthorDetailsTool{semanticScholar{client: client}}
}

func (t *AuthorDetailsTool) Name() string { return string(ToolAuthorDetails) }
func (t *AuthorDetailsTool) Description() string {
	return "Get details for one Semantic Scholar author by ID, including affiliations and papers when requested."
}

func (t *AuthorDetailsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"author_id": {"type": "string", "description": "Semantic Scholar author ID"},
			"fields": {"type": "string"}
		},
		"required": ["author_id"]
	}`)
}

func (t *AuthorDetailsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	id, _ := strParam(params, "author_id")
	query := apicall.Params{}
	copyParams(query, params, "fields")

	return t.call(ctx, apicall.Descriptor{
		Operation: "author details",
		Method:    http.MethodGet,
		Path: []apicall.Segment{
			{Name: "author", Value: "author", Required: true},
			{Name: "author_id", Value: id, Required: true},
		},
		Query: query,
	})
}

// AuthorPapersTool lists an author's papers.
type AuthorPapersTool struct{ semanticScholar }

func NewAuthorPapersTool(client *apicall.Client) *AuthorPapersTool {
	return &AuthorPapersTool{semanticScholar{client: client}}
}

func (t *AuthorPapersTool) Name() string { return string(ToolAuthorPapers) }
func (t *AuthorPapersTool) Description() string {
	return "List the papers of a Semantic Scholar author, with pagination, field selection, and a publication date filter."
}

func (t *AuthorPapersTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"author_id": {"type": "string", "description": "Semantic Scholar author ID"},
			"offset": {"type": "integer"},
			"limit": {"type": "integer", "description": "Max papers (<= 1000)"},
			"fields": {"type": "string"},
			"publicationDateOrYear": {"type": "string", "description": "e.g. \"2015:2020\" or \"2020-06\""}
		},
		"required": ["author_id"]
	}`)
}

func (t *AuthorPapersTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	id, _ := strParam(params, "author_id")
	query := apicall.Params{}
	copyParams(query, params, "offset", "limit", "fields", "publicationDateOrYear")

	return t.call(ctx, apicall.Descriptor{
		Operation: "author papers",
		Method:    http.MethodGet,
		Path: []apicall.Segment{
			{Name: "author", Value: "author", Required: true},
			{Name: "author_id", Value: id, Required: true},
			{Name: "papers", Value: "papers", Required: true},
		},
		Query: query,
	})
}

// ---------------------------------------------------------------------------
// Snippets
// ---------------------------------------------------------------------------

// SnippetSearchTool retrieves ~500-word text excerpts matching a query.
type SnippetSearchTool struct{ semanticScholar }

func NewSnippetSearchTool(client *apicall.Client) *SnippetSearchTool {
	return &SnippetSearchTool{semanticScholar{client: client}}
}

func (t *SnippetSearchTool) Name() string { return string(ToolSnippetSearch) }
func (t *SnippetSearchTool) Description() string {
	return "Search for text snippets from paper titles, abstracts, and bodies that best match a plain-text query."
}

func (t *SnippetSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "Plain-text search string"},
			"limit": {"type": "integer", "description": "Results to return (<= 1000)"},
			"fields": {"type": "string"},
			"paperIds": {"type": "string", "description": "Comma-separated paper IDs restricting search scope"},
			"minCitationCount": {"type": "integer"},
			"insertedBefore": {"type": "string", "description": "e.g. \"2020-01-01\""},
			"publicationDateOrYear": {"type": "string"},
			"year": {"type": "string"},
			"venue": {"type": "string"},
			"fieldsOfStudy": {"type": "string"}
		},
		"required": ["query"]
	}`)
}

func (t *SnippetSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	q, ok := strParam(params, "query")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("query is required")), nil
	}
	query := apicall.Params{"query": q}
	copyParams(query, params,
		"limit", "fields", "paperIds", "minCitationCount", "insertedBefore",
		"publicationDateOrYear", "year", "venue", "fieldsOfStudy")

	return t.call(ctx, apicall.Descriptor{
		Operation: "snippets",
		Method:    http.MethodGet,
		Path:      segments("snippet", "search"),
		Query:     query,
	})
}
