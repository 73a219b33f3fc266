// Package apicall implements the bounded external-API adapter every quarrybot
// tool is a call site of: assemble optional parameters, perform one remote
// HTTP/Atom call with bounded retry and a fixed per-attempt timeout, report
// progress to the host sink, and return a decoded envelope or a tagged error.
package apicall

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Shape names the response decoding rule for a descriptor.
type Shape int

const (
	// ShapeJSON decodes the body as arbitrary JSON (object or array).
	ShapeJSON Shape = iota
	// ShapeAtom parses the body as an Atom feed and flattens its entries
	// into an ordered slice of records with absent fields dropped.
	ShapeAtom
)

// Segment is one path element below the base URL. Required segments are
// validated before any network attempt: a missing one is a caller error,
// not a network failure.
type Segment struct {
	Name     string
	Value    string
	Required bool
}

// Empty marks a query parameter the provider expects as a bare flag
// (serialized as "name=" with no value).
type emptyValue struct{}

var Empty = emptyValue{}

// Params maps parameter names to values. A key that is absent, or present
// with a nil value, is never serialized into the outgoing request. Accepted
// value types: string, bool, int, int64, float64, []string, Empty.
type Params map[string]any

// encode renders p as a URL query string with deterministic key order.
func (p Params) encode() (string, error) {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		switch v := p[k].(type) {
		case emptyValue:
			q.Set(k, "")
		case string:
			q.Set(k, v)
		case bool:
			q.Set(k, fmt.Sprintf("%t", v))
		case int:
			q.Set(k, fmt.Sprintf("%d", v))
		case int64:
			q.Set(k, fmt.Sprintf("%d", v))
		case float64:
			// JSON numbers arrive as float64; render integral values without
			// a fractional part so providers that expect integers accept them.
			if v == float64(int64(v)) {
				q.Set(k, fmt.Sprintf("%d", int64(v)))
			} else {
				q.Set(k, fmt.Sprintf("%g", v))
			}
		case []string:
			for _, item := range v {
				q.Add(k, item)
			}
		default:
			return "", invalidArgumentf("parameter %q has unsupported type %T", k, v)
		}
	}
	return q.Encode(), nil
}

// Descriptor describes one logical remote call.
type Descriptor struct {
	// Operation is the human-readable name used in status lines,
	// e.g. "bill details" or "arXiv search".
	Operation string
	Method    string
	BaseURL   string
	Path      []Segment
	Query     Params
	// Body, when non-nil, is JSON-encoded into the request body (POST).
	Body  any
	Shape Shape
	// Hidden is forwarded to status events so the host UI removes them
	// once the chat completion finishes.
	Hidden bool
}

// validate checks the locally-checkable invariants: required path segments
// present and a usable base URL. It performs no network I/O.
func (d Descriptor) validate() error {
	if d.BaseURL == "" {
		return invalidArgumentf("operation %q has no endpoint", d.Operation)
	}
	for _, seg := range d.Path {
		if seg.Required && seg.Value == "" {
			return invalidArgumentf("%s: required path segment %q not supplied", d.Operation, seg.Name)
		}
	}
	return nil
}

// url builds the full request URL from base, path segments, and query.
// Optional segments with empty values are skipped; a skipped segment also
// drops everything after it, since deeper segments would be meaningless.
func (d Descriptor) url() (string, error) {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(d.BaseURL, "/"))
	for _, seg := range d.Path {
		if seg.Value == "" {
			break
		}
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(seg.Value))
	}
	qs, err := d.Query.encode()
	if err != nil {
		return "", err
	}
	if qs != "" {
		sb.WriteByte('?')
		sb.WriteString(qs)
	}
	return sb.String(), nil
}

func (d Descriptor) startMessage() string {
	return fmt.Sprintf("Searching for %s...", d.Operation)
}
