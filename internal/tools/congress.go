package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/quarrybot/quarrybot/internal/apicall"
)

var congressBaseURL = "https://api.congress.gov/v3"

// congressDateLayout is the only datetime format congress.gov accepts.
const congressDateLayout = "2006-01-02T15:04:05Z"

// congressAPI is the shared base for the congress.gov tools. Every request
// carries format=application/json and the API key; the key is read from the
// environment lazily, so a missing key surfaces on the first call rather
// than at startup.
type congressAPI struct {
	client *apicall.Client
	keyEnv string
}

func (c congressAPI) call(ctx context.Context, operation string, path []apicall.Segment, query apicall.Params) (string, error) {
	key := os.Getenv(c.keyEnv)
	if key == "" {
		return errorEnvelope(fmt.Errorf("congress.gov API key not configured: set %s", c.keyEnv)), nil
	}
	if query == nil {
		query = apicall.Params{}
	}
	query["format"] = "application/json"
	query["api_key"] = key

	envelope, err := c.client.Invoke(ctx, apicall.Descriptor{
		Operation: operation,
		Method:    http.MethodGet,
		BaseURL:   congressBaseURL,
		Path:      path,
		Query:     query,
		Hidden:    true,
	})
	if err != nil {
		return errorEnvelope(err), nil
	}
	return marshalResult(envelope)
}

// copyDateParams validates and copies fromDateTime/toDateTime. A malformed
// date is a caller error, never silently dropped.
func copyDateParams(query apicall.Params, params map[string]any) error {
	for _, key := range []string{"fromDateTime", "toDateTime"} {
		v, ok := strParam(params, key)
		if !ok {
			continue
		}
		if _, err := time.Parse(congressDateLayout, v); err != nil {
			return apicall.InvalidArgumentf("%s must match YYYY-MM-DDT00:00:00Z, got %q", key, v)
		}
		query[key] = v
	}
	return nil
}

// congressNumber renders an optional congress-number parameter as a path value.
func congressNumber(params map[string]any) string {
	if n, ok := intParam(params, "congress"); ok {
		return strconv.Itoa(n)
	}
	return ""
}

// congressPagingProps is shared by every list-shaped congress.gov tool.
const congressPagingProps = `
			"offset": {"type": "integer", "description": "Starting record"},
			"limit": {"type": "integer", "description": "Records to return (<= 250)"}`

// ---------------------------------------------------------------------------
// Bills
// ---------------------------------------------------------------------------

// CongressBillsTool lists bills: all, by congress, or by congress and type.
type CongressBillsTool struct{ congressAPI }

func NewCongressBillsTool(client *apicall.Client, keyEnv string) *CongressBillsTool {
	return &CongressBillsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressBillsTool) Name() string { return string(ToolCongressBills) }
func (t *CongressBillsTool) Description() string {
	return "List bills from congress.gov: all bills, bills of one congress, or bills of one congress and type (hr, s, hjres, sjres, hconres, sconres, hres, sres)."
}

func (t *CongressBillsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer", "description": "Congress number, e.g. 117"},
			"bill_type": {"type": "string", "enum": ["hr", "s", "hjres", "sjres", "hconres", "sconres", "hres", "sres"]},
			"fromDateTime": {"type": "string", "description": "YYYY-MM-DDT00:00:00Z"},
			"toDateTime": {"type": "string", "description": "YYYY-MM-DDT00:00:00Z"},
			"sort": {"type": "string", "enum": ["updateDate+asc", "updateDate+desc"]},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressBillsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	billType, hasType := strParam(params, "bill_type")
	congress := congressNumber(params)
	if hasType && congress == "" {
		return errorEnvelope(apicall.InvalidArgumentf("bill_type requires congress")), nil
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit", "sort")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "bills", []apicall.Segment{
		{Name: "bill", Value: "bill", Required: true},
		{Name: "congress", Value: congress},
		{Name: "billType", Value: billType},
	}, query)
}

// billSubResources are the per-bill listings congress.gov exposes below a
// bill's detail record.
var billSubResources = map[string]bool{
	"actions":      true,
	"amendments":   true,
	"committees":   true,
	"cosponsors":   true,
	"relatedbills": true,
	"subjects":     true,
	"summaries":    true,
	"text":         true,
	"titles":       true,
}

// CongressBillTool fetches one bill's details or one of its sub-resources.
type CongressBillTool struct{ congressAPI }

func NewCongressBillTool(client *apicall.Client, keyEnv string) *CongressBillTool {
	return &CongressBillTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressBillTool) Name() string { return string(ToolCongressBill) }
func (t *CongressBillTool) Description() string {
	return "Get one bill from congress.gov by congress, type, and number; optionally a sub-resource: actions, amendments, committees, cosponsors, relatedbills, subjects, summaries, text, or titles."
}

func (t *CongressBillTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"bill_type": {"type": "string", "enum": ["hr", "s", "hjres", "sjres", "hconres", "sconres", "hres", "sres"]},
			"bill_number": {"type": "integer"},
			"sub_resource": {"type": "string", "enum": ["actions", "amendments", "committees", "cosponsors", "relatedbills", "subjects", "summaries", "text", "titles"]},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		},
		"required": ["congress", "bill_type", "bill_number"]
	}`)
}

func (t *CongressBillTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	billType, _ := strParam(params, "bill_type")
	var number string
	if n, ok := intParam(params, "bill_number"); ok {
		number = strconv.Itoa(n)
	}

	sub, hasSub := strParam(params, "sub_resource")
	if hasSub && !billSubResources[sub] {
		return errorEnvelope(apicall.InvalidArgumentf("unknown bill sub-resource %q", sub)), nil
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	operation := "bill details"
	if hasSub {
		operation = "bill " + sub
	}
	return t.call(ctx, operation, []apicall.Segment{
		{Name: "bill", Value: "bill", Required: true},
		{Name: "congress", Value: congressNumber(params), Required: true},
		{Name: "billType", Value: billType, Required: true},
		{Name: "billNumber", Value: number, Required: true},
		{Name: "subResource", Value: sub},
	}, query)
}

// ---------------------------------------------------------------------------
// Laws
// ---------------------------------------------------------------------------

// CongressLawsTool lists laws of a congress, optionally narrowed to one law
// type or one specific law.
type CongressLawsTool struct{ congressAPI }

func NewCongressLawsTool(client *apicall.Client, keyEnv string) *CongressLawsTool {
	return &CongressLawsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressLawsTool) Name() string { return string(ToolCongressLaws) }
func (t *CongressLawsTool) Description() string {
	return "List laws from congress.gov by congress, optionally filtered to public (pub) or private (priv) laws, or fetch one law by number."
}

func (t *CongressLawsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"law_type": {"type": "string", "enum": ["pub", "priv"]},
			"law_number": {"type": "integer"},` + congressPagingProps + `
		},
		"required": ["congress"]
	}`)
}

func (t *CongressLawsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	lawType, hasType := strParam(params, "law_type")
	var number string
	if n, ok := intParam(params, "law_number"); ok {
		if !hasType {
			return errorEnvelope(apicall.InvalidArgumentf("law_number requires law_type")), nil
		}
		number = strconv.Itoa(n)
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")

	return t.call(ctx, "laws", []apicall.Segment{
		{Name: "law", Value: "law", Required: true},
		{Name: "congress", Value: congressNumber(params), Required: true},
		{Name: "lawType", Value: lawType},
		{Name: "lawNumber", Value: number},
	}, query)
}

// ---------------------------------------------------------------------------
// Amendments
// ---------------------------------------------------------------------------

var amendmentSubResources = map[string]bool{
	"actions":    true,
	"cosponsors": true,
	"amendments": true,
	"text":       true,
}

// CongressAmendmentsTool lists amendments or fetches one amendment and its
// sub-resources.
type CongressAmendmentsTool struct{ congressAPI }

func NewCongressAmendmentsTool(client *apicall.Client, keyEnv string) *CongressAmendmentsTool {
	return &CongressAmendmentsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressAmendmentsTool) Name() string { return string(ToolCongressAmendments) }
func (t *CongressAmendmentsTool) Description() string {
	return "List amendments from congress.gov, or fetch one amendment by congress, type (hamdt, samdt, suamdt), and number, optionally with a sub-resource: actions, cosponsors, amendments, or text."
}

func (t *CongressAmendmentsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"amendment_type": {"type": "string", "enum": ["hamdt", "samdt", "suamdt"]},
			"amendment_number": {"type": "integer"},
			"sub_resource": {"type": "string", "enum": ["actions", "cosponsors", "amendments", "text"]},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressAmendmentsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	congress := congressNumber(params)
	amdtType, hasType := strParam(params, "amendment_type")
	if hasType && congress == "" {
		return errorEnvelope(apicall.InvalidArgumentf("amendment_type requires congress")), nil
	}

	var number string
	if n, ok := intParam(params, "amendment_number"); ok {
		if !hasType {
			return errorEnvelope(apicall.InvalidArgumentf("amendment_number requires amendment_type")), nil
		}
		number = strconv.Itoa(n)
	}

	sub, hasSub := strParam(params, "sub_resource")
	if hasSub {
		if !amendmentSubResources[sub] {
			return errorEnvelope(apicall.InvalidArgumentf("unknown amendment sub-resource %q", sub)), nil
		}
		if number == "" {
			return errorEnvelope(apicall.InvalidArgumentf("sub_resource requires amendment_number")), nil
		}
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "amendments", []apicall.Segment{
		{Name: "amendment", Value: "amendment", Required: true},
		{Name: "congress", Value: congress},
		{Name: "amendmentType", Value: amdtType},
		{Name: "amendmentNumber", Value: number},
		{Name: "subResource", Value: sub},
	}, query)
}

// ---------------------------------------------------------------------------
// Summaries
// ---------------------------------------------------------------------------

// CongressSummariesTool lists bill summaries, optionally scoped by congress
// and bill type.
type CongressSummariesTool struct{ congressAPI }

func NewCongressSummariesTool(client *apicall.Client, keyEnv string) *CongressSummariesTool {
	return &CongressSummariesTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressSummariesTool) Name() string { return string(ToolCongressSummaries) }
func (t *CongressSummariesTool) Description() string {
	return "List bill summaries from congress.gov: all, by congress, or by congress and bill type, sorted by update date."
}

func (t *CongressSummariesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"bill_type": {"type": "string", "enum": ["hr", "s", "hjres", "sjres", "hconres", "sconres", "hres", "sres"]},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},
			"sort": {"type": "string", "enum": ["updateDate+asc", "updateDate+desc"]},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressSummariesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	billType, hasType := strParam(params, "bill_type")
	congress := congressNumber(params)
	if hasType && congress == "" {
		return errorEnvelope(apicall.InvalidArgumentf("bill_type requires congress")), nil
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit", "sort")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "summaries", []apicall.Segment{
		{Name: "summaries", Value: "summaries", Required: true},
		{Name: "congress", Value: congress},
		{Name: "billType", Value: billType},
	}, query)
}

// ---------------------------------------------------------------------------
// Congress info
// ---------------------------------------------------------------------------

// CongressInfoTool returns congress metadata: the full list, one congress by
// number, or the current congress.
type CongressInfoTool struct{ congressAPI }

func NewCongressInfoTool(client *apicall.Client, keyEnv string) *CongressInfoTool {
	return &CongressInfoTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressInfoTool) Name() string { return string(ToolCongressInfo) }
func (t *CongressInfoTool) Description() string {
	return "Get congress metadata from congress.gov: list all congresses, one congress by number, or the current congress."
}

func (t *CongressInfoTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer", "description": "Congress number; omit for the full list"},
			"current": {"type": "boolean", "description": "Return the current congress"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressInfoTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	selector := congressNumber(params)
	if current, ok := boolParam(params, "current"); ok && current {
		selector = "current"
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")

	return t.call(ctx, "congress info", []apicall.Segment{
		{Name: "congress", Value: "congress", Required: true},
		{Name: "selector", Value: selector},
	}, query)
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

// CongressMembersTool covers the member endpoints: listing, one member by
// bioguide ID, legislation sponsored or cosponsored by a member, and listing
// by congress, state, and district.
type CongressMembersTool struct{ congressAPI }

func NewCongressMembersTool(client *apicall.Client, keyEnv string) *CongressMembersTool {
	return &CongressMembersTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressMembersTool) Name() string { return string(ToolCongressMembers) }
func (t *CongressMembersTool) Description() string {
	return "Get congressional members from congress.gov: list all, one by bioguide ID (optionally their sponsored or cosponsored legislation), or filter by congress, state, and district."
}

func (t *CongressMembersTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"bioguide_id": {"type": "string", "description": "Member bioguide identifier, e.g. L000174"},
			"legislation": {"type": "string", "enum": ["sponsored", "cosponsored"], "description": "With bioguide_id: list that member's legislation"},
			"congress": {"type": "integer"},
			"state_code": {"type": "string", "description": "Two-letter state code, e.g. VT"},
			"district": {"type": "integer"},
			"current_member": {"type": "boolean", "description": "Restrict to current members"},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressMembersTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}
	if current, ok := boolParam(params, "current_member"); ok {
		query["currentMember"] = current
	}

	congress := congressNumber(params)
	state, hasState := strParam(params, "state_code")
	var district string
	if n, ok := intParam(params, "district"); ok {
		district = strconv.Itoa(n)
	}

	if bioguide, ok := strParam(params, "bioguide_id"); ok {
		var listing string
		switch legislation, _ := strParam(params, "legislation"); legislation {
		case "":
		case "sponsored":
			listing = "sponsored-legislation"
		case "cosponsored":
			listing = "cosponsored-legislation"
		default:
			return errorEnvelope(apicall.InvalidArgumentf("legislation must be sponsored or cosponsored")), nil
		}
		return t.call(ctx, "member details", []apicall.Segment{
			{Name: "member", Value: "member", Required: true},
			{Name: "bioguideId", Value: bioguide, Required: true},
			{Name: "legislation", Value: listing},
		}, query)
	}

	switch {
	case congress != "":
		if district != "" && !hasState {
			return errorEnvelope(apicall.InvalidArgumentf("district requires state_code")), nil
		}
		return t.call(ctx, "members", []apicall.Segment{
			{Name: "member", Value: "member", Required: true},
			{Name: "byCongress", Value: "congress", Required: true},
			{Name: "congress", Value: congress, Required: true},
			{Name: "stateCode", Value: state},
			{Name: "district", Value: district},
		}, query)
	case hasState:
		return t.call(ctx, "members", []apicall.Segment{
			{Name: "member", Value: "member", Required: true},
			{Name: "stateCode", Value: state, Required: true},
			{Name: "district", Value: district},
		}, query)
	case district != "":
		return errorEnvelope(apicall.InvalidArgumentf("district requires state_code")), nil
	default:
		return t.call(ctx, "members", []apicall.Segment{
			{Name: "member", Value: "member", Required: true},
		}, query)
	}
}

// ---------------------------------------------------------------------------
// Committees
// ---------------------------------------------------------------------------

// CongressCommitteesTool lists committees: all, by chamber, by congress, or
// by congress and chamber.
type CongressCommitteesTool struct{ congressAPI }

func NewCongressCommitteesTool(client *apicall.Client, keyEnv string) *CongressCommitteesTool {
	return &CongressCommitteesTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressCommitteesTool) Name() string { return string(ToolCongressCommittees) }
func (t *CongressCommitteesTool) Description() string {
	return "List congressional committees from congress.gov, optionally filtered by chamber (house, senate, joint) and/or congress number."
}

func (t *CongressCommitteesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"chamber": {"type": "string", "enum": ["house", "senate", "joint"]},
			"congress": {"type": "integer"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressCommitteesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	chamber, _ := strParam(params, "chamber")
	congress := congressNumber(params)

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")

	// With both filters the congress comes first: /committee/{congress}/{chamber}.
	path := []apicall.Segment{{Name: "committee", Value: "committee", Required: true}}
	if congress != "" {
		path = append(path,
			apicall.Segment{Name: "congress", Value: congress},
			apicall.Segment{Name: "chamber", Value: chamber})
	} else {
		path = append(path, apicall.Segment{Name: "chamber", Value: chamber})
	}

	return t.call(ctx, "committees", path, query)
}
