package apicall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quarrybot/quarrybot/internal/schema"
)

const (
	// DefaultTimeout bounds each individual network attempt.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxAttempts bounds transport-level retries per logical call.
	DefaultMaxAttempts = 3
)

// Client performs logical remote calls described by Descriptors. All retry
// state is local to one Invoke call; the only shared resource is the
// underlying HTTP transport's connection pool, which carries no correctness
// obligations.
type Client struct {
	http        *http.Client
	maxAttempts int
	emitter     schema.Emitter
	// retryWait is the pause between retry attempts. Kept short and constant:
	// the sources this adapter fronts are public APIs where a transient DNS or
	// connection failure either clears immediately or not at all.
	retryWait time.Duration
}

// NewClient creates a Client. emitter may be nil (status emission becomes a
// no-op). Zero timeout or maxAttempts fall back to the defaults.
func NewClient(emitter schema.Emitter, timeout time.Duration, maxAttempts int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
		emitter:     emitter,
		retryWait:   200 * time.Millisecond,
	}
}

// emit forwards ev to the progress sink, if any. Sink failures are logged
// and swallowed; they must never become the call's result.
func (c *Client) emit(ctx context.Context, ev schema.StatusEvent) {
	if c.emitter == nil {
		return
	}
	if err := c.emitter.Emit(ctx, ev); err != nil {
		slog.Warn("status emit failed", "description", ev.Description, "error", err)
	}
}

// Invoke executes one logical call: validate, assemble, attempt with bounded
// retry, decode. On success it returns the decoded envelope: a
// map[string]any or []any for ShapeJSON, a []map[string]any for ShapeAtom.
//
// HTTP status errors and invalid arguments are terminal and never consume a
// retry slot; transport and decode failures retry up to the attempt bound.
func (c *Client) Invoke(ctx context.Context, d Descriptor) (any, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	target, err := d.url()
	if err != nil {
		return nil, err
	}
	if d.Method == "" {
		d.Method = http.MethodGet
	}

	var result any
	attempt := func() error {
		c.emit(ctx, schema.StatusEvent{Description: d.startMessage(), Done: false, Hidden: d.Hidden})

		envelope, err := c.do(ctx, d, target)
		if err != nil {
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				apiErr = transportError(err)
			}
			switch apiErr.Kind {
			case KindHTTPStatus, KindInvalidArgument:
				c.emit(ctx, schema.StatusEvent{Description: apiErr.Error(), Done: true, Hidden: d.Hidden})
				return backoff.Permanent(error(apiErr))
			default:
				c.emit(ctx, schema.StatusEvent{Description: fmt.Sprintf("Request error: %v", apiErr), Done: false, Hidden: true})
				return apiErr
			}
		}
		result = envelope
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryWait), uint64(c.maxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(attempt, policy); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && (apiErr.Kind == KindHTTPStatus || apiErr.Kind == KindInvalidArgument) {
			return nil, apiErr
		}
		exhausted := &Error{
			Kind: KindRetriesExhausted,
			msg:  fmt.Sprintf("giving up on %s after %d attempts: %v", d.Operation, c.maxAttempts, err),
			err:  err,
		}
		c.emit(ctx, schema.StatusEvent{Description: exhausted.Error(), Done: true, Hidden: d.Hidden})
		return nil, exhausted
	}

	c.emit(ctx, schema.StatusEvent{Description: fmt.Sprintf("Fetched %s successfully", d.Operation), Done: true, Hidden: d.Hidden})
	return result, nil
}

// do performs a single network attempt and decodes the response.
func (c *Client) do(ctx context.Context, d Descriptor, target string) (any, error) {
	var body io.Reader
	if d.Body != nil {
		raw, err := json.Marshal(d.Body)
		if err != nil {
			return nil, invalidArgumentf("%s: encode request body: %v", d.Operation, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, target, body)
	if err != nil {
		return nil, invalidArgumentf("%s: build request: %v", d.Operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if d.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, httpStatusError(resp.StatusCode)
	}

	switch d.Shape {
	case ShapeAtom:
		return decodeAtom(resp.Body)
	default:
		var envelope any
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, decodeError(err)
		}
		return envelope, nil
	}
}
