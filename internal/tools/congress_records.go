package tools

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/quarrybot/quarrybot/internal/apicall"
)

// CongressRecordTool lists bound congressional record issues, optionally
// narrowed by publication date.
type CongressRecordTool struct{ congressAPI }

func NewCongressRecordTool(client *apicall.Client, keyEnv string) *CongressRecordTool {
	return &CongressRecordTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressRecordTool) Name() string { return string(ToolCongressRecord) }
func (t *CongressRecordTool) Description() string {
	return "List congressional record issues from congress.gov, optionally filtered by publication year, month, and day."
}

func (t *CongressRecordTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"year": {"type": "integer", "description": "Publication year, e.g. 2022"},
			"month": {"type": "integer", "description": "Publication month, 1-12"},
			"day": {"type": "integer", "description": "Publication day, 1-31"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressRecordTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	// The record endpoints use single-letter date filters.
	for key, short := range map[string]string{"year": "y", "month": "m", "day": "d"} {
		if n, ok := intParam(params, key); ok {
			query[short] = n
		}
	}

	return t.call(ctx, "congressional record", []apicall.Segment{
		{Name: "congressional-record", Value: "congressional-record", Required: true},
	}, query)
}

// ---------------------------------------------------------------------------
// Daily congressional record
// ---------------------------------------------------------------------------

// CongressDailyRecordTool covers the daily congressional record endpoints:
// issue listings, one issue by volume and number, and its articles.
type CongressDailyRecordTool struct{ congressAPI }

func NewCongressDailyRecordTool(client *apicall.Client, keyEnv string) *CongressDailyRecordTool {
	return &CongressDailyRecordTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressDailyRecordTool) Name() string { return string(ToolCongressDailyRec) }
func (t *CongressDailyRecordTool) Description() string {
	return "List daily congressional record issues from congress.gov, optionally narrowed to one volume, one issue, or that issue's articles."
}

func (t *CongressDailyRecordTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"volume": {"type": "string", "description": "Volume number, e.g. 169"},
			"issue": {"type": "string", "description": "Issue number within the volume"},
			"articles": {"type": "boolean", "description": "With issue: return the issue's articles"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressDailyRecordTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	volume, hasVolume := strParam(params, "volume")
	issue, hasIssue := strParam(params, "issue")
	if hasIssue && !hasVolume {
		return errorEnvelope(apicall.InvalidArgumentf("issue requires volume")), nil
	}

	var articles string
	if wantArticles, ok := boolParam(params, "articles"); ok && wantArticles {
		if !hasIssue {
			return errorEnvelope(apicall.InvalidArgumentf("articles requires issue")), nil
		}
		articles = "articles"
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")

	return t.call(ctx, "daily congressional record", []apicall.Segment{
		{Name: "daily-congressional-record", Value: "daily-congressional-record", Required: true},
		{Name: "volumeNumber", Value: volume},
		{Name: "issueNumber", Value: issue},
		{Name: "articles", Value: articles},
	}, query)
}

// ---------------------------------------------------------------------------
// Communications
// ---------------------------------------------------------------------------

var communicationTypes = map[string]map[string]bool{
	"house":  {"ec": true, "ml": true, "pm": true, "pt": true},
	"senate": {"ec": true, "pm": true, "pom": true},
}

// CongressCommunicationsTool covers both the house-communication and
// senate-communication endpoint families, selected by chamber.
type CongressCommunicationsTool struct{ congressAPI }

func NewCongressCommunicationsTool(client *apicall.Client, keyEnv string) *CongressCommunicationsTool {
	return &CongressCommunicationsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressCommunicationsTool) Name() string { return string(ToolCongressComms) }
func (t *CongressCommunicationsTool) Description() string {
	return "List house or senate communications from congress.gov, optionally narrowed by congress and communication type (ec, ml, pm, pt for house; ec, pm, pom for senate), or fetch one communication by number."
}

func (t *CongressCommunicationsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"chamber": {"type": "string", "enum": ["house", "senate"]},
			"congress": {"type": "integer"},
			"communication_type": {"type": "string", "enum": ["ec", "ml", "pm", "pt", "pom"]},
			"communication_number": {"type": "integer"},` + congressPagingProps + `
		},
		"required": ["chamber"]
	}`)
}

func (t *CongressCommunicationsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	chamber, _ := strParam(params, "chamber")
	validTypes, ok := communicationTypes[chamber]
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("chamber must be house or senate, got %q", chamber)), nil
	}

	congress := congressNumber(params)
	commType, hasType := strParam(params, "communication_type")
	if hasType {
		if congress == "" {
			return errorEnvelope(apicall.InvalidArgumentf("communication_type requires congress")), nil
		}
		if !validTypes[commType] {
			return errorEnvelope(apicall.InvalidArgumentf("unknown %s communication type %q", chamber, commType)), nil
		}
	}

	var number string
	if n, ok := intParam(params, "communication_number"); ok {
		if !hasType {
			return errorEnvelope(apicall.InvalidArgumentf("communication_number requires communication_type")), nil
		}
		number = strconv.Itoa(n)
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")

	return t.call(ctx, chamber+" communications", []apicall.Segment{
		{Name: "communication", Value: chamber + "-communication", Required: true},
		{Name: "congress", Value: congress},
		{Name: "communicationType", Value: commType},
		{Name: "communicationNumber", Value: number},
	}, query)
}

// ---------------------------------------------------------------------------
// House requirements
// ---------------------------------------------------------------------------

// CongressRequirementsTool covers the house-requirement endpoints: the
// listing, one requirement's details, and its matching communications.
type CongressRequirementsTool struct{ congressAPI }

func NewCongressRequirementsTool(client *apicall.Client, keyEnv string) *CongressRequirementsTool {
	return &CongressRequirementsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressRequirementsTool) Name() string { return string(ToolCongressReqs) }
func (t *CongressRequirementsTool) Description() string {
	return "List house requirements from congress.gov, or fetch one requirement by number, optionally its matching communications."
}

func (t *CongressRequirementsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"requirement_number": {"type": "integer"},
			"matching_communications": {"type": "boolean", "description": "With requirement_number: list the communications matching the requirement"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressRequirementsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	var number string
	if n, ok := intParam(params, "requirement_number"); ok {
		number = strconv.Itoa(n)
	}

	var matching string
	if wantMatching, ok := boolParam(params, "matching_communications"); ok && wantMatching {
		if number == "" {
			return errorEnvelope(apicall.InvalidArgumentf("matching_communications requires requirement_number")), nil
		}
		matching = "matching-communications"
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")

	return t.call(ctx, "house requirements", []apicall.Segment{
		{Name: "house-requirement", Value: "house-requirement", Required: true},
		{Name: "requirementNumber", Value: number},
		{Name: "matchingCommunications", Value: matching},
	}, query)
}
