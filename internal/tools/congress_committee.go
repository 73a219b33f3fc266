package tools

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/quarrybot/quarrybot/internal/apicall"
)

// committeeSubResources map the tool-facing sub-resource names onto the
// committee detail path segments congress.gov uses.
var committeeSubResources = map[string]string{
	"bills":                 "bills",
	"reports":               "reports",
	"nominations":           "nominations",
	"house_communications":  "house-communication",
	"senate_communications": "senate-communication",
}

// CongressCommitteeTool fetches one committee's details or one of its
// associated listings (bills, reports, nominations, communications).
type CongressCommitteeTool struct{ congressAPI }

func NewCongressCommitteeTool(client *apicall.Client, keyEnv string) *CongressCommitteeTool {
	return &CongressCommitteeTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressCommitteeTool) Name() string { return string(ToolCongressCommittee) }
func (t *CongressCommitteeTool) Description() string {
	return "Get one congressional committee from congress.gov by chamber and committee code (e.g. hsfa), optionally a sub-resource: bills, reports, nominations, house_communications, or senate_communications."
}

func (t *CongressCommitteeTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"chamber": {"type": "string", "enum": ["house", "senate", "joint"]},
			"committee_code": {"type": "string", "description": "Committee code, e.g. hsfa or ssbk"},
			"sub_resource": {"type": "string", "enum": ["bills", "reports", "nominations", "house_communications", "senate_communications"]},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		},
		"required": ["chamber", "committee_code"]
	}`)
}

func (t *CongressCommitteeTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	chamber, _ := strParam(params, "chamber")
	code, _ := strParam(params, "committee_code")

	var subSegment string
	sub, hasSub := strParam(params, "sub_resource")
	if hasSub {
		subSegment = committeeSubResources[sub]
		if subSegment == "" {
			return errorEnvelope(apicall.InvalidArgumentf("unknown committee sub-resource %q", sub)), nil
		}
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	operation := "committee details"
	if hasSub {
		operation = "committee " + sub
	}
	return t.call(ctx, operation, []apicall.Segment{
		{Name: "committee", Value: "committee", Required: true},
		{Name: "chamber", Value: chamber, Required: true},
		{Name: "committeeCode", Value: code, Required: true},
		{Name: "subResource", Value: subSegment},
	}, query)
}

// ---------------------------------------------------------------------------
// Committee reports
// ---------------------------------------------------------------------------

// CongressReportsTool covers the committee-report endpoints: listings by
// congress and report type, one report's details, and its text versions.
type CongressReportsTool struct{ congressAPI }

func NewCongressReportsTool(client *apicall.Client, keyEnv string) *CongressReportsTool {
	return &CongressReportsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressReportsTool) Name() string { return string(ToolCongressReports) }
func (t *CongressReportsTool) Description() string {
	return "List committee reports from congress.gov, filtered by congress and report type (hrpt, srpt, erpt), or fetch one report by number, optionally its text versions."
}

func (t *CongressReportsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"report_type": {"type": "string", "enum": ["hrpt", "srpt", "erpt"]},
			"report_number": {"type": "integer"},
			"text": {"type": "boolean", "description": "With report_number: return the report's text versions"},
			"conference": {"type": "string", "enum": ["true", "false"], "description": "Restrict listings to conference reports"},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressReportsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	congress := congressNumber(params)
	reportType, hasType := strParam(params, "report_type")
	if hasType && congress == "" {
		return errorEnvelope(apicall.InvalidArgumentf("report_type requires congress")), nil
	}

	var number string
	if n, ok := intParam(params, "report_number"); ok {
		if !hasType {
			return errorEnvelope(apicall.InvalidArgumentf("report_number requires report_type")), nil
		}
		number = strconv.Itoa(n)
	}

	var text string
	if wantText, ok := boolParam(params, "text"); ok && wantText {
		if number == "" {
			return errorEnvelope(apicall.InvalidArgumentf("text requires report_number")), nil
		}
		text = "text"
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit", "conference")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "committee reports", []apicall.Segment{
		{Name: "committee-report", Value: "committee-report", Required: true},
		{Name: "congress", Value: congress},
		{Name: "reportType", Value: reportType},
		{Name: "reportNumber", Value: number},
		{Name: "text", Value: text},
	}, query)
}

// ---------------------------------------------------------------------------
// Committee prints
// ---------------------------------------------------------------------------

// CongressPrintsTool covers the committee-print endpoints.
type CongressPrintsTool struct{ congressAPI }

func NewCongressPrintsTool(client *apicall.Client, keyEnv string) *CongressPrintsTool {
	return &CongressPrintsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressPrintsTool) Name() string { return string(ToolCongressPrints) }
func (t *CongressPrintsTool) Description() string {
	return "List committee prints from congress.gov by congress and chamber, or fetch one print by jacket number, optionally its text versions."
}

func (t *CongressPrintsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"chamber": {"type": "string", "enum": ["house", "senate", "nochamber"]},
			"jacket_number": {"type": "integer"},
			"text": {"type": "boolean", "description": "With jacket_number: return the print's text versions"},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressPrintsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	congress := congressNumber(params)
	chamber, hasChamber := strParam(params, "chamber")
	if hasChamber && congress == "" {
		return errorEnvelope(apicall.InvalidArgumentf("chamber requires congress")), nil
	}

	var jacket string
	if n, ok := intParam(params, "jacket_number"); ok {
		if !hasChamber {
			return errorEnvelope(apicall.InvalidArgumentf("jacket_number requires chamber")), nil
		}
		jacket = strconv.Itoa(n)
	}

	var text string
	if wantText, ok := boolParam(params, "text"); ok && wantText {
		if jacket == "" {
			return errorEnvelope(apicall.InvalidArgumentf("text requires jacket_number")), nil
		}
		text = "text"
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "committee prints", []apicall.Segment{
		{Name: "committee-print", Value: "committee-print", Required: true},
		{Name: "congress", Value: congress},
		{Name: "chamber", Value: chamber},
		{Name: "jacketNumber", Value: jacket},
		{Name: "text", Value: text},
	}, query)
}

// ---------------------------------------------------------------------------
// Committee meetings
// ---------------------------------------------------------------------------

// CongressMeetingsTool covers the committee-meeting endpoints.
type CongressMeetingsTool struct{ congressAPI }

func NewCongressMeetingsTool(client *apicall.Client, keyEnv string) *CongressMeetingsTool {
	return &CongressMeetingsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressMeetingsTool) Name() string { return string(ToolCongressMeetings) }
func (t *CongressMeetingsTool) Description() string {
	return "List committee meetings from congress.gov by congress and chamber, or fetch one meeting by event ID."
}

func (t *CongressMeetingsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"chamber": {"type": "string", "enum": ["house", "senate", "nochamber"]},
			"event_id": {"type": "string", "description": "Meeting event identifier, e.g. 115538"},
			"fromDateTime": {"type": "string"},
			"toDateTime": {"type": "string"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressMeetingsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	congress := congressNumber(params)
	chamber, hasChamber := strParam(params, "chamber")
	if hasChamber && congress == "" {
		return errorEnvelope(apicall.InvalidArgumentf("chamber requires congress")), nil
	}
	eventID, hasEvent := strParam(params, "event_id")
	if hasEvent && !hasChamber {
		return errorEnvelope(apicall.InvalidArgumentf("event_id requires chamber")), nil
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")
	if err := copyDateParams(query, params); err != nil {
		return errorEnvelope(err), nil
	}

	return t.call(ctx, "committee meetings", []apicall.Segment{
		{Name: "committee-meeting", Value: "committee-meeting", Required: true},
		{Name: "congress", Value: congress},
		{Name: "chamber", Value: chamber},
		{Name: "eventId", Value: eventID},
	}, query)
}

// ---------------------------------------------------------------------------
// Hearings
// ---------------------------------------------------------------------------

// CongressHearingsTool covers the hearing endpoints: listings by congress and
// chamber, or one hearing by jacket number.
type CongressHearingsTool struct{ congressAPI }

func NewCongressHearingsTool(client *apicall.Client, keyEnv string) *CongressHearingsTool {
	return &CongressHearingsTool{congressAPI{client: client, keyEnv: keyEnv}}
}

func (t *CongressHearingsTool) Name() string { return string(ToolCongressHearings) }
func (t *CongressHearingsTool) Description() string {
	return "List hearings from congress.gov by congress and chamber, or fetch one hearing by jacket number."
}

func (t *CongressHearingsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"congress": {"type": "integer"},
			"chamber": {"type": "string", "enum": ["house", "senate", "nochamber"]},
			"jacket_number": {"type": "integer"},` + congressPagingProps + `
		}
	}`)
}

func (t *CongressHearingsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	congress := congressNumber(params)
	chamber, hasChamber := strParam(params, "chamber")
	if hasChamber && congress == "" {
		return errorEnvelope(apicall.InvalidArgumentf("chamber requires congress")), nil
	}

	var jacket string
	if n, ok := intParam(params, "jacket_number"); ok {
		if !hasChamber {
			return errorEnvelope(apicall.InvalidArgumentf("jacket_number requires chamber")), nil
		}
		jacket = strconv.Itoa(n)
	}

	query := apicall.Params{}
	copyParams(query, params, "offset", "limit")

	return t.call(ctx, "hearings", []apicall.Segment{
		{Name: "hearing", Value: "hearing", Required: true},
		{Name: "congress", Value: congress},
		{Name: "chamber", Value: chamber},
		{Name: "jacketNumber", Value: jacket},
	}, query)
}
