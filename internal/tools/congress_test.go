package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
)

const testKeyEnv = "CONGRESS_TEST_KEY"

func congressServer(t *testing.T, path *string, query *url.Values, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if path != nil {
			*path = r.URL.Path
		}
		if query != nil {
			*query = r.URL.Query()
		}
		w.Write([]byte(`{"bills": []}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCongressBills_KeyAndFormatInjected(t *testing.T) {
	var path string
	var query url.Values
	srv := congressServer(t, &path, &query, nil)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "secret-key")

	tool := NewCongressBillsTool(testClient(t), testKeyEnv)
	_, err := tool.Execute(context.Background(), map[string]any{
		"congress":  float64(117),
		"bill_type": "hr",
		"limit":     float64(20),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/bill/117/hr" {
		t.Errorf("path = %q, want /bill/117/hr", path)
	}
	if got := query.Get("api_key"); got != "secret-key" {
		t.Errorf("api_key = %q", got)
	}
	if got := query.Get("format"); got != "application/json" {
		t.Errorf("format = %q", got)
	}
	if got := query.Get("limit"); got != "20" {
		t.Errorf("limit = %q", got)
	}
}

func TestCongressBills_MissingKeyIsConfigError(t *testing.T) {
	var calls int32
	srv := congressServer(t, nil, nil, &calls)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "")

	tool := NewCongressBillsTool(testClient(t), testKeyEnv)
	out, err := tool.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("config errors are data, got Go error: %v", err)
	}
	if !strings.Contains(out, testKeyEnv) {
		t.Errorf("error should name the key variable, got %q", out)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("missing key must not reach the network")
	}
}

func TestCongressBills_BadDateIsInvalidArgument(t *testing.T) {
	var calls int32
	srv := congressServer(t, nil, nil, &calls)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "secret-key")

	tool := NewCongressBillsTool(testClient(t), testKeyEnv)
	for _, bad := range []string{"2024-01-01", "01/01/2024", "2024-13-40T00:00:00Z", "yesterday"} {
		out, err := tool.Execute(context.Background(), map[string]any{"fromDateTime": bad})
		if err != nil {
			t.Fatalf("unexpected Go error for %q: %v", bad, err)
		}
		if !strings.Contains(out, "invalid_argument") {
			t.Errorf("fromDateTime=%q: expected invalid_argument envelope, got %q", bad, out)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("malformed dates must not reach the network")
	}
}

func TestCongressBills_TypeRequiresCongress(t *testing.T) {
	var calls int32
	srv := congressServer(t, nil, nil, &calls)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "secret-key")

	tool := NewCongressBillsTool(testClient(t), testKeyEnv)
	out, err := tool.Execute(context.Background(), map[string]any{"bill_type": "hr"})
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if !strings.Contains(out, "invalid_argument") {
		t.Errorf("expected invalid_argument envelope, got %q", out)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("dependency violations must not reach the network")
	}
}

func TestCongressBill_SubResourcePath(t *testing.T) {
	var path string
	srv := congressServer(t, &path, nil, nil)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "secret-key")

	tool := NewCongressBillTool(testClient(t), testKeyEnv)
	_, err := tool.Execute(context.Background(), map[string]any{
		"congress":     float64(117),
		"bill_type":    "hr",
		"bill_number":  float64(3076),
		"sub_resource": "cosponsors",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/bill/117/hr/3076/cosponsors" {
		t.Errorf("path = %q", path)
	}

	out, _ := tool.Execute(context.Background(), map[string]any{
		"congress":     float64(117),
		"bill_type":    "hr",
		"bill_number":  float64(3076),
		"sub_resource": "lobbyists",
	})
	if !strings.Contains(out, "invalid_argument") {
		t.Errorf("unknown sub-resource should be rejected, got %q", out)
	}
}

func TestCongressMembers_PathSelection(t *testing.T) {
	var path string
	srv := congressServer(t, &path, nil, nil)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "secret-key")

	tool := NewCongressMembersTool(testClient(t), testKeyEnv)
	cases := []struct {
		params map[string]any
		want   string
	}{
		{map[string]any{}, "/member"},
		{map[string]any{"bioguide_id": "L000174"}, "/member/L000174"},
		{map[string]any{"bioguide_id": "L000174", "legislation": "sponsored"}, "/member/L000174/sponsored-legislation"},
		{map[string]any{"congress": float64(118)}, "/member/congress/118"},
		{map[string]any{"state_code": "VT"}, "/member/VT"},
		{map[string]any{"state_code": "MI", "district": float64(10)}, "/member/MI/10"},
		{map[string]any{"congress": float64(118), "state_code": "MI", "district": float64(10)}, "/member/congress/118/MI/10"},
	}
	for _, tc := range cases {
		if _, err := tool.Execute(context.Background(), tc.params); err != nil {
			t.Fatalf("params %v: %v", tc.params, err)
		}
		if path != tc.want {
			t.Errorf("params %v: path = %q, want %q", tc.params, path, tc.want)
		}
	}

	out, _ := tool.Execute(context.Background(), map[string]any{"district": float64(10)})
	if !strings.Contains(out, "invalid_argument") {
		t.Errorf("district without state must be rejected, got %q", out)
	}
}

func TestCongressCommittees_PathSelection(t *testing.T) {
	var path string
	srv := congressServer(t, &path, nil, nil)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "secret-key")

	tool := NewCongressCommitteesTool(testClient(t), testKeyEnv)
	cases := []struct {
		params map[string]any
		want   string
	}{
		{map[string]any{}, "/committee"},
		{map[string]any{"chamber": "house"}, "/committee/house"},
		{map[string]any{"congress": float64(117)}, "/committee/117"},
		{map[string]any{"congress": float64(117), "chamber": "senate"}, "/committee/117/senate"},
	}
	for _, tc := range cases {
		if _, err := tool.Execute(context.Background(), tc.params); err != nil {
			t.Fatalf("params %v: %v", tc.params, err)
		}
		if path != tc.want {
			t.Errorf("params %v: path = %q, want %q", tc.params, path, tc.want)
		}
	}
}

func TestCongressInfo_CurrentSelector(t *testing.T) {
	var path string
	srv := congressServer(t, &path, nil, nil)
	withBase(t, &congressBaseURL, srv.URL)
	t.Setenv(testKeyEnv, "secret-key")

	tool := NewCongressInfoTool(testClient(t), testKeyEnv)
	if _, err := tool.Execute(context.Background(), map[string]any{"current": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/congress/current" {
		t.Errorf("path = %q", path)
	}
}
