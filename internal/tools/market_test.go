package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/quarrybot/quarrybot/internal/config"
)

// chartBody renders a minimal chart response with two bars.
func chartBody(ts1, ts2 int64) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"symbol": "TEST"},
				"timestamp": [%d, %d],
				"events": {"dividends": {"%d": {"amount": 0.24, "date": %d}}},
				"indicators": {
					"quote": [{
						"open": [10.0, 10.5],
						"high": [11.0, 11.5],
						"low": [9.5, 10.1],
						"close": [10.8, null],
						"volume": [1000, 2000]
					}],
					"adjclose": [{"adjclose": [10.7, 11.2]}]
				}
			}],
			"error": null
		}
	}`, ts1, ts2, ts1, ts1)
}

func marketTool(t *testing.T, chartURL, summaryURL string) *MarketDataTool {
	t.Helper()
	if chartURL != "" {
		withBase(t, &marketChartBaseURL, chartURL)
	}
	if summaryURL != "" {
		withBase(t, &marketSummaryBaseURL, summaryURL)
	}
	tool := NewMarketDataTool(testClient(t), config.DefaultConfig().Market, time.UTC)
	tool.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return tool
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("all three rejected", func(t *testing.T) {
		_, err := resolveRange(map[string]any{
			"start": "2024-01-01", "end": "2024-02-01", "period": "1mo",
		}, now, time.UTC)
		if err == nil || !strings.Contains(err.Error(), "invalid_argument") {
			t.Errorf("expected invalid_argument, got %v", err)
		}
	})

	t.Run("start plus period computes end", func(t *testing.T) {
		r, err := resolveRange(map[string]any{"start": "2024-01-01", "period": "1mo"}, now, time.UTC)
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		if !r.end.Equal(want) {
			t.Errorf("end = %v, want %v", r.end, want)
		}
	})

	t.Run("end plus period computes start", func(t *testing.T) {
		r, err := resolveRange(map[string]any{"end": "2024-02-01", "period": "5d"}, now, time.UTC)
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2024, 1, 27, 0, 0, 0, 0, time.UTC)
		if !r.start.Equal(want) {
			t.Errorf("start = %v, want %v", r.start, want)
		}
	})

	t.Run("period alone stays relative", func(t *testing.T) {
		r, err := resolveRange(map[string]any{"period": "max"}, now, time.UTC)
		if err != nil {
			t.Fatal(err)
		}
		if r.relative != "max" {
			t.Errorf("relative = %q", r.relative)
		}
	})

	t.Run("nothing defaults to the last two days", func(t *testing.T) {
		r, err := resolveRange(map[string]any{}, now, time.UTC)
		if err != nil {
			t.Fatal(err)
		}
		if !r.start.Equal(now.Add(-48*time.Hour)) || !r.end.Equal(now.Add(-24*time.Hour)) {
			t.Errorf("unexpected default window: %v .. %v", r.start, r.end)
		}
	})

	t.Run("bad date is a caller error", func(t *testing.T) {
		_, err := resolveRange(map[string]any{"start": "01/02/2024", "end": "2024-02-01"}, now, time.UTC)
		if err == nil || !strings.Contains(err.Error(), "invalid_argument") {
			t.Errorf("malformed dates must fail loudly, got %v", err)
		}
	})

	t.Run("max cannot combine with dates", func(t *testing.T) {
		_, err := resolveRange(map[string]any{"start": "2024-01-01", "period": "max"}, now, time.UTC)
		if err == nil {
			t.Error("expected error for max with start")
		}
	})
}

func TestMarketData_HistoryNormalization(t *testing.T) {
	ts1 := time.Date(2024, 3, 13, 14, 30, 0, 0, time.UTC).Unix()
	ts2 := time.Date(2024, 3, 14, 14, 30, 0, 0, time.UTC).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody(ts1, ts2)))
	}))
	t.Cleanup(srv.Close)

	tool := marketTool(t, srv.URL, "")
	out, err := tool.Execute(context.Background(), map[string]any{
		"symbols": []any{"TEST"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var combined map[string][]map[string]any
	if err := json.Unmarshal([]byte(out), &combined); err != nil {
		t.Fatalf("unexpected result shape: %v\n%s", err, out)
	}
	rows := combined["TEST"]
	if len(rows) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(rows))
	}

	if got := rows[0]["Datetime"]; got != "2024-03-13 14:30:00" {
		t.Errorf("Datetime = %v, want string timestamp", got)
	}
	for _, col := range []string{"Open", "High", "Low", "Close", "Volume", "Adj Close"} {
		if _, present := rows[0][col]; !present {
			t.Errorf("first bar missing %q", col)
		}
	}
	// Second bar has a null close: the column is dropped, not null.
	if _, present := rows[1]["Close"]; present {
		t.Error("null close should be dropped from the row")
	}
	if _, present := rows[1]["Open"]; !present {
		t.Error("second bar should keep its open")
	}
}

func TestMarketData_FanOutEmbedsPerSymbolErrors(t *testing.T) {
	ts := time.Now().Add(-24 * time.Hour).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "BROKEN") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(chartBody(ts, ts+86400)))
	}))
	t.Cleanup(srv.Close)

	tool := marketTool(t, srv.URL, "")
	out, err := tool.Execute(context.Background(), map[string]any{
		"symbols": []any{"GOOD", "BROKEN"},
	})
	if err != nil {
		t.Fatalf("fan-out must not fail the whole call: %v", err)
	}

	var combined map[string]any
	if err := json.Unmarshal([]byte(out), &combined); err != nil {
		t.Fatal(err)
	}
	if len(combined) != 2 {
		t.Fatalf("expected both symbols present, got %v", combined)
	}
	broken, ok := combined["BROKEN"].(map[string]any)
	if !ok || broken["error"] == nil {
		t.Errorf("failing symbol should embed an error, got %v", combined["BROKEN"])
	}
	if _, isRows := combined["GOOD"].([]any); !isRows {
		t.Errorf("healthy symbol should carry its bars, got %T", combined["GOOD"])
	}
}

func TestMarketData_ExtraPairsMainAndSub(t *testing.T) {
	ts := time.Now().Add(-24 * time.Hour).Unix()
	chartSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody(ts, ts+86400)))
	}))
	t.Cleanup(chartSrv.Close)

	tool := marketTool(t, chartSrv.URL, "")
	out, err := tool.Execute(context.Background(), map[string]any{
		"symbols": []any{"TEST"},
		"extra":   "dividends",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var combined map[string]map[string]any
	if err := json.Unmarshal([]byte(out), &combined); err != nil {
		t.Fatalf("unexpected shape: %v\n%s", err, out)
	}
	sym := combined["TEST"]
	if sym["main"] == nil {
		t.Error("expected main data under \"main\"")
	}
	if sym["dividends"] == nil {
		t.Error("expected dividends alongside main")
	}
}

func TestMarketData_CapitalGainsExtra(t *testing.T) {
	ts := time.Now().Add(-24 * time.Hour).Unix()
	var eventParams []string
	chartSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventParams = append(eventParams, r.URL.Query().Get("events"))
		fmt.Fprintf(w, `{
			"chart": {
				"result": [{
					"meta": {"symbol": "TESTFUND"},
					"timestamp": [%d],
					"events": {"capitalGains": {"%d": {"amount": 1.25, "date": %d}}},
					"indicators": {"quote": [{"open": [10.0], "high": [10.0], "low": [10.0], "close": [10.0], "volume": [100]}]}
				}],
				"error": null
			}
		}`, ts, ts, ts)
	}))
	t.Cleanup(chartSrv.Close)

	tool := marketTool(t, chartSrv.URL, "")
	out, err := tool.Execute(context.Background(), map[string]any{
		"symbols": []any{"TESTFUND"},
		"extra":   "capital_gains",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawToken bool
	for _, events := range eventParams {
		if strings.Contains(events, "capitalGains") {
			sawToken = true
		}
	}
	if !sawToken {
		t.Errorf("capital-gains fetch should request the capitalGains event, got %v", eventParams)
	}

	var combined map[string]map[string]any
	if err := json.Unmarshal([]byte(out), &combined); err != nil {
		t.Fatalf("unexpected shape: %v\n%s", err, out)
	}
	sym := combined["TESTFUND"]
	if sym["main"] == nil {
		t.Error("expected main data under \"main\"")
	}
	gains, ok := sym["capital_gains"].(map[string]any)
	if !ok || len(gains) == 0 {
		t.Errorf("expected capital gains alongside main, got %v", sym["capital_gains"])
	}
}

func TestMarketData_SummaryTypes(t *testing.T) {
	var query url.Values
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query()
		w.Write([]byte(`{"quoteSummary": {"result": [{"price": {"shortName": "Test Co"}}], "error": null}}`))
	}))
	t.Cleanup(srv.Close)

	tool := marketTool(t, "", srv.URL)
	out, err := tool.Execute(context.Background(), map[string]any{
		"symbols":   []any{"TEST"},
		"data_type": "fast_info",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/TEST" {
		t.Errorf("path = %q", path)
	}
	if got := query.Get("modules"); got != "price" {
		t.Errorf("modules = %q, want price", got)
	}
	if !strings.Contains(out, "Test Co") {
		t.Errorf("expected summary payload, got %q", out)
	}
}

func TestMarketData_Validation(t *testing.T) {
	tool := marketTool(t, "", "")

	out, err := tool.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if !strings.Contains(out, "symbols is required") {
		t.Errorf("expected missing-symbols envelope, got %q", out)
	}

	out, _ = tool.Execute(context.Background(), map[string]any{
		"symbols":   []any{"TEST"},
		"data_type": "options_chain",
	})
	if !strings.Contains(out, "unknown data_type") {
		t.Errorf("expected unknown data_type envelope, got %q", out)
	}

	out, _ = tool.Execute(context.Background(), map[string]any{
		"symbols": []any{"TEST"},
		"start":   "2024-01-01",
		"end":     "2024-02-01",
		"period":  "1mo",
	})
	if !strings.Contains(out, "invalid_argument") {
		t.Errorf("ambiguous range must be rejected, got %q", out)
	}
}
