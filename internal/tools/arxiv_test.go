package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/quarrybot/quarrybot/internal/config"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <title>Widget Theory</title>
    <summary>All about widgets.</summary>
    <published>2021-01-01T00:00:00Z</published>
    <author><name>Ada Lovelace</name></author>
    <category term="cs.LG"/>
  </entry>
</feed>`

func arxivServer(t *testing.T, query *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*query = r.URL.Query()
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(testFeed))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestArXivSearch_ConfigDefaultsWinOverCaller(t *testing.T) {
	var query url.Values
	srv := arxivServer(t, &query)
	withBase(t, &arxivBaseURL, srv.URL)

	cfg := config.DefaultConfig().ArXiv // UseDefaults is on by default
	tool := NewArXivSearchTool(testClient(t), cfg)

	_, err := tool.Execute(context.Background(), map[string]any{
		"search_query": "all:widgets",
		"start":        float64(5),
		"max_results":  float64(99),
		"sortBy":       "submittedDate",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := query.Get("start"); got != "0" {
		t.Errorf("expected configured start 0, got %q", got)
	}
	if got := query.Get("max_results"); got != "10" {
		t.Errorf("expected configured max_results 10, got %q", got)
	}
	if got := query.Get("sortBy"); got != "relevance" {
		t.Errorf("expected configured sortBy, got %q", got)
	}
	if got := query.Get("search_query"); got != "all:widgets" {
		t.Errorf("search_query must pass through, got %q", got)
	}
}

func TestArXivSearch_CallerParamsWhenDefaultsOff(t *testing.T) {
	var query url.Values
	srv := arxivServer(t, &query)
	withBase(t, &arxivBaseURL, srv.URL)

	cfg := config.DefaultConfig().ArXiv
	cfg.UseDefaults = false
	tool := NewArXivSearchTool(testClient(t), cfg)

	_, err := tool.Execute(context.Background(), map[string]any{
		"search_query": "all:widgets",
		"start":        float64(5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := query.Get("start"); got != "5" {
		t.Errorf("expected caller start 5, got %q", got)
	}
	if query.Has("sortBy") || query.Has("max_results") {
		t.Errorf("unsupplied caller params must stay off the wire: %v", query)
	}
}

func TestArXivSearch_FlattensFeed(t *testing.T) {
	var query url.Values
	srv := arxivServer(t, &query)
	withBase(t, &arxivBaseURL, srv.URL)

	tool := NewArXivSearchTool(testClient(t), config.DefaultConfig().ArXiv)
	out, err := tool.Execute(context.Background(), map[string]any{"search_query": "all:widgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var papers []map[string]any
	if err := json.Unmarshal([]byte(out), &papers); err != nil {
		t.Fatalf("result is not a JSON array: %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("expected 1 paper, got %d", len(papers))
	}
	if papers[0]["title"] != "Widget Theory" {
		t.Errorf("unexpected title: %v", papers[0]["title"])
	}
	if _, present := papers[0]["doi"]; present {
		t.Error("absent doi must be dropped from the record")
	}
}
