package tools

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/quarrybot/quarrybot/internal/apicall"
)

// nominationSubResources are the per-nomination listings congress.gov exposes
// below a nomination's detail record.
var nominationSubResources = map[string]bool{
	"actions":    true,
	"committees": true,
	"hearings":   true,
}

// CongressNominationsTool covers the nomination endpoints: listings, one
// nomination's details, its sub-resources, and individual nominee positions.
type CongressNominationsTool struct{ congressAPI }

func NewCongressNominationsTool(client *apicall.Client, keyEnv string) *CongressNominationsTool {
	return &CongressNominationsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressNominationsTool) Name() string { return string(ToolCongressNomination) }
func (t *CongressNominationsTool) Description() string {
	return "List presidential nominations from congress.gov, or fetch one nomination by congress and number, optionally a sub-resource (actions, committees, hearings) or one nominee position by ordinal."
}

func (t *CongressNominationsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"nomination_number": {"type": "integer"},
			"sub_resource": {"type": "string", "enum": ["actions", "committees", "hearings"]},
			"ordinal": {"type": "integer", "description": "With nomination_number: fetch one nominee position"},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressNominationsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	congress := congressNumber(params)

	var number string
	if n, ok := intParam(params, "nomination_number"); ok {
		if congress == "" {
			return errorEnvelope(apicall.InvalidArgumentf("nomination_number requires congress")), nil
		}
		number = strconv.Itoa(n)
	}

	// Below a nomination the path takes either a named sub-resource or a
	// nominee ordinal, never both.
	sub, hasSub := strParam(params, "sub_resource")
	if hasSub {
		if !nominationSubResources[sub] {
			return errorEnvelope(apicall.InvalidArgumentf("unknown nomination sub-resource %q", sub)), nil
		}
		if number == "" {
			return errorEnvelope(apicall.InvalidArgumentf("sub_resource requires nomination_number")), nil
		}
	}
	if n, ok := intParam(params, "ordinal"); ok {
		if hasSub {
			return errorEnvelope(apicall.InvalidArgumentf("ordinal and sub_resource are mutually exclusive")), nil
		}
		if number == "" {
			return errorEnvelope(apicall.InvalidArgumentf("ordinal requires nomination_number")), nil
		}
		sub = strconv.Itoa(n)
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "nominations", []apicall.Segment{
		{Name: "nomination", Value: "nomination", Required: true},
		{Name: "congress", Value: congress},
		{Name: "nominationNumber", Value: number},
		{Name: "subResource", Value: sub},
	}, query)
}

// ---------------------------------------------------------------------------
// CRS reports
// ---------------------------------------------------------------------------

// CongressCRSReportsTool lists Congressional Research Service reports or
// fetches one by report number.
type CongressCRSReportsTool struct{ congressAPI }

func NewCongressCRSReportsTool(client *apicall.Client, keyEnv string) *CongressCRSReportsTool {
	return &CongressCRSReportsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressCRSReportsTool) Name() string { return string(ToolCongressCRSReports) }
func (t *CongressCRSReportsTool) Description() string {
	return "List Congressional Research Service reports from congress.gov, or fetch one report by number (e.g. R47175)."
}

func (t *CongressCRSReportsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"report_number": {"type": "string", "description": "CRS report number, e.g. R47175"},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressCRSReportsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	reportNumber, _ := strParam(params, "report_number")

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "CRS reports", []apicall.Segment{
		{Name: "crsreport", Value: "crsreport", Required: true},
		{Name: "reportNumber", Value: reportNumber},
	}, query)
}

// ---------------------------------------------------------------------------
// Treaties
// ---------------------------------------------------------------------------

// CongressTreatiesTool covers the treaty endpoints: listings, one treaty by
// congress and number (with or without a partition suffix), and the actions
// and committees sub-resources.
type CongressTreatiesTool struct{ congressAPI }

func NewCongressTreatiesTool(client *apicall.Client, keyEnv string) *CongressTreatiesTool {
	return &CongressTreatiesTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressTreatiesTool) Name() string { return string(ToolCongressTreaties) }
func (t *CongressTreatiesTool) Description() string {
	return "List treaties from congress.gov, or fetch one treaty by congress and number, optionally a partition suffix (e.g. A) and a sub-resource: actions or committees."
}

func (t *CongressTreatiesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"treaty_number": {"type": "integer"},
			"treaty_suffix": {"type": "string", "description": "Partition suffix for partitioned treaties, e.g. A"},
			"sub_resource": {"type": "string", "enum": ["actions", "committees"]},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressTreatiesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	congress := congressNumber(params)

	var number string
	if n, ok := intParam(params, "treaty_number"); ok {
		if congress == "" {
			return errorEnvelope(apicall.InvalidArgumentf("treaty_number requires congress")), nil
		}
		number = strconv.Itoa(n)
	}

	suffix, hasSuffix := strParam(params, "treaty_suffix")
	if hasSuffix && number == "" {
		return errorEnvelope(apicall.InvalidArgumentf("treaty_suffix requires treaty_number")), nil
	}

	sub, hasSub := strParam(params, "sub_resource")
	if hasSub {
		switch {
		case number == "":
			return errorEnvelope(apicall.InvalidArgumentf("sub_resource requires treaty_number")), nil
		case sub == "actions":
			// Actions are available on both whole and partitioned treaties.
		case sub == "committees":
			if hasSuffix {
				return errorEnvelope(apicall.InvalidArgumentf("committees is not available for partitioned treaties")), nil
			}
		default:
			return errorEnvelope(apicall.InvalidArgumentf("unknown treaty sub-resource %q", sub)), nil
		}
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	// The suffix is optional even when a sub-resource follows, so the path
	// is assembled rather than declared with fixed positions.
	path := []apicall.Segment{
		{Name: "treaty", Value: "treaty", Required: true},
		{Name: "congress", Value: congress},
		{Name: "treatyNumber", Value: number},
	}
	if hasSuffix {
		path = append(path, apicall.Segment{Name: "treatySuffix", Value: suffix})
	}
	path = append(path, apicall.Segment{Name: "subResource", Value: sub})

	return t.call(ctx, "treaties", path, query)
}
