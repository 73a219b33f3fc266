package tools

import (
	"context"
	"encoding/json"
	"time"
)

// CurrentDatetimeTool reports the current date, time, and timezone. It is the
// ground truth for "now" in a conversation; no network involved.
type CurrentDatetimeTool struct {
	location *time.Location
	now      func() time.Time
}

func NewCurrentDatetimeTool(location *time.Location) *CurrentDatetimeTool {
	if location == nil {
		location = time.UTC
	}
	return &CurrentDatetimeTool{location: location, now: time.Now}
}

func (t *CurrentDatetimeTool) Name() string { return string(ToolCurrentDatetime) }
func (t *CurrentDatetimeTool) Description() string {
	return "Return the current date, time, and timezone. Use this for the ground truth about the current moment."
}

func (t *CurrentDatetimeTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)
}

func (t *CurrentDatetimeTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	return t.now().In(t.location).Format("Monday, January 02, 2006 at 03:04:05 PM MST"), nil
}
