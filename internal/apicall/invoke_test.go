package apicall

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quarrybot/quarrybot/internal/emitter"
	"github.com/quarrybot/quarrybot/internal/schema"
)

func newTestClient(t *testing.T, sink schema.Emitter) *Client {
	t.Helper()
	c := NewClient(sink, time.Second, 3)
	c.retryWait = time.Millisecond
	return c
}

func TestInvoke_OmitsUnsetParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, nil)
	_, err := client.Invoke(context.Background(), Descriptor{
		Operation: "things",
		BaseURL:   srv.URL,
		Query: Params{
			"query": "fish",
			"limit": nil, // unset, must never reach the wire
			"flag":  Empty,
			"count": float64(10),
			"ids":   []string{"a", "b"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(gotQuery, "limit") {
		t.Errorf("nil-valued parameter serialized: %q", gotQuery)
	}
	for _, want := range []string{"query=fish", "flag=", "count=10", "ids=a", "ids=b"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestInvoke_MissingRequiredSegment(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, nil)
	_, err := client.Invoke(context.Background(), Descriptor{
		Operation: "paper details",
		BaseURL:   srv.URL,
		Path:      []Segment{{Name: "paper_id", Required: true}},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("expected zero network calls, got %d", n)
	}
}

func TestInvoke_TransientFailuresThenSuccess(t *testing.T) {
	// First two responses are unparseable, the third succeeds. Decode
	// failures consume retry slots like transport failures.
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.Write([]byte(`{truncated`))
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	rec := &emitter.Recorder{}
	client := newTestClient(t, rec)
	result, err := client.Invoke(context.Background(), Descriptor{
		Operation: "things",
		BaseURL:   srv.URL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	envelope, ok := result.(map[string]any)
	if !ok || envelope["ok"] != true {
		t.Errorf("unexpected envelope: %#v", result)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}

	var attempts, failures, terminal int
	for _, ev := range rec.Events() {
		switch {
		case strings.HasPrefix(ev.Description, "Searching for"):
			attempts++
		case strings.HasPrefix(ev.Description, "Request error"):
			failures++
		case ev.Done:
			terminal++
		}
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempt events, got %d", attempts)
	}
	if failures != 2 {
		t.Errorf("expected 2 failure events, got %d", failures)
	}
	if terminal != 1 {
		t.Errorf("expected 1 terminal event, got %d", terminal)
	}
}

func TestInvoke_RetriesExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := newTestClient(t, nil)
	_, err := client.Invoke(context.Background(), Descriptor{
		Operation: "things",
		BaseURL:   srv.URL,
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected retries_exhausted, got %v", err)
	}
	// The last underlying failure stays visible through the wrapper.
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected wrapped decode_error, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected exactly maxAttempts=3 requests, got %d", n)
	}
}

func TestInvoke_HTTPStatusErrorIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := &emitter.Recorder{}
	client := newTestClient(t, rec)
	_, err := client.Invoke(context.Background(), Descriptor{
		Operation: "things",
		BaseURL:   srv.URL,
	})
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("expected http_status_error, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500 on error value, got %#v", apiErr)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("status errors must not retry: got %d requests", n)
	}

	events := rec.Events()
	last := events[len(events)-1]
	if !last.Done || !strings.Contains(last.Description, "500") {
		t.Errorf("expected terminal event naming the status, got %+v", last)
	}
}

func TestInvoke_NilEmitter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(t, nil)
	if _, err := client.Invoke(context.Background(), Descriptor{Operation: "things", BaseURL: srv.URL}); err != nil {
		t.Fatalf("nil emitter must be a no-op, got error: %v", err)
	}
}

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, schema.StatusEvent) error {
	return errors.New("sink is down")
}

func TestInvoke_EmitterFailureSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, failingEmitter{})
	result, err := client.Invoke(context.Background(), Descriptor{Operation: "things", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("sink failure must not become the call result: %v", err)
	}
	if result == nil {
		t.Error("expected envelope despite sink failure")
	}
}

func TestInvoke_PostBody(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(t, nil)
	_, err := client.Invoke(context.Background(), Descriptor{
		Operation: "paper batch",
		Method:    http.MethodPost,
		BaseURL:   srv.URL,
		Body:      map[string]any{"ids": []string{"x", "y"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}
	if !strings.Contains(gotBody, `"ids":["x","y"]`) {
		t.Errorf("unexpected body: %q", gotBody)
	}
}

func TestDescriptorURL_OptionalSegmentDropsTail(t *testing.T) {
	d := Descriptor{
		BaseURL: "https://example.test/v3",
		Path: []Segment{
			{Name: "bill", Value: "bill", Required: true},
			{Name: "congress", Value: ""},
			{Name: "billType", Value: "hr"},
		},
	}
	got, err := d.url()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://example.test/v3/bill" {
		t.Errorf("segments after a skipped optional must drop, got %q", got)
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(httpStatusError(404)) != KindHTTPStatus {
		t.Error("expected http_status_error kind")
	}
	if KindOf(errors.New("plain")) != KindTransport {
		t.Error("non-adapter errors should classify as transport")
	}
}
