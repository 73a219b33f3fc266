// Package tools implements the LLM-callable provider adapters and the
// registry that exposes them to the host. Each provider file owns the tools
// for one upstream API; all remote calls go through internal/apicall.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/quarrybot/quarrybot/internal/apicall"
)

// strParam extracts a non-empty string parameter.
func strParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key].(string)
	return v, ok && v != ""
}

// intParam extracts an integer parameter. JSON numbers arrive as float64.
func intParam(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// boolParam extracts a boolean parameter.
func boolParam(params map[string]any, key string) (bool, bool) {
	v, ok := params[key].(bool)
	return v, ok
}

// strSliceParam extracts a list-of-strings parameter. A bare string is
// accepted as a one-element list.
func strSliceParam(params map[string]any, key string) ([]string, bool) {
	switch v := params[key].(type) {
	case []string:
		return v, len(v) > 0
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok || s == "" {
				continue
			}
			out = append(out, s)
		}
		return out, len(out) > 0
	case string:
		if v == "" {
			return nil, false
		}
		return []string{v}, true
	}
	return nil, false
}

// copyParams copies the named keys from raw tool params into query params.
// Unset keys and nil values are skipped, so they never reach the wire.
func copyParams(dst apicall.Params, src map[string]any, keys ...string) {
	for _, k := range keys {
		v, ok := src[k]
		if !ok || v == nil {
			continue
		}
		dst[k] = v
	}
}

// marshalResult renders a tool result the way the host expects it.
func marshalResult(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(out), nil
}

// errorEnvelope renders a failed call as data. Tool failures are part of the
// conversation, not host crashes, so the Go error stays nil.
func errorEnvelope(err error) string {
	out, _ := json.Marshal(map[string]any{"error": err.Error()})
	return string(out)
}
