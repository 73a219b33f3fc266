package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quarrybot/quarrybot/internal/apicall"
	"github.com/quarrybot/quarrybot/internal/config"
)

var (
	marketChartBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	marketSummaryBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
)

const (
	marketDateLayout = "2006-01-02"
	barTimeLayout    = "2006-01-02 15:04:05"
)

// summaryModules maps a dataType onto the quoteSummary module that carries it.
var summaryModules = map[string]string{
	"info":          "assetProfile,summaryDetail,quoteType",
	"fast_info":     "price",
	"financials":    "incomeStatementHistory",
	"balance_sheet": "balanceSheetHistory",
	"cashflow":      "cashflowStatementHistory",
}

// extraModules maps the optional extra sub-resource onto a quoteSummary
// module. Dividends, splits, and actions come from chart events instead.
var extraModules = map[string]string{
	"earnings_dates":        "calendarEvents",
	"financials":            "incomeStatementHistory",
	"balance_sheet":         "balanceSheetHistory",
	"cashflow":              "cashflowStatementHistory",
	"institutional_holders": "institutionOwnership",
	"major_holders":         "majorHoldersBreakdown",
	"mutualfund_holders":    "fundOwnership",
}

// chartEvents names one chart-sourced extra: the events token sent on the
// chart request and the key it comes back under. An empty key returns the
// whole events map.
type chartEvents struct {
	token string
	key   string
}

var chartEventExtras = map[string]chartEvents{
	"dividends":     {token: "div", key: "dividends"},
	"splits":        {token: "split", key: "splits"},
	"capital_gains": {token: "capitalGains", key: "capitalGains"},
	"actions":       {token: "div,split,capitalGains"},
}

// periodDurations cover the relative periods that can be combined with a
// single start or end date. "ytd" and "max" have no fixed span and are only
// usable on their own.
var periodDurations = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"5d":  5 * 24 * time.Hour,
	"1mo": 30 * 24 * time.Hour,
	"3mo": 91 * 24 * time.Hour,
	"6mo": 182 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"2y":  2 * 365 * 24 * time.Hour,
	"5y":  5 * 365 * 24 * time.Hour,
	"10y": 10 * 365 * 24 * time.Hour,
}

var standalonePeriods = map[string]bool{"ytd": true, "max": true}

// timeRange is the resolved history window: either an absolute [start, end)
// pair or a single relative range string, never both.
type timeRange struct {
	start, end time.Time
	relative   string
}

// resolveRange applies the closed set of start/end/period combinations.
// Supplying all three is ambiguous and rejected; a malformed date is a
// caller error, never a silently empty result.
func resolveRange(params map[string]any, now time.Time, loc *time.Location) (timeRange, error) {
	startStr, hasStart := strParam(params, "start")
	endStr, hasEnd := strParam(params, "end")
	period, hasPeriod := strParam(params, "period")

	if hasStart && hasEnd && hasPeriod {
		return timeRange{}, apicall.InvalidArgumentf("supply at most two of start, end, period")
	}

	parse := func(name, v string) (time.Time, error) {
		ts, err := time.ParseInLocation(marketDateLayout, v, loc)
		if err != nil {
			return time.Time{}, apicall.InvalidArgumentf("%s must match YYYY-MM-DD, got %q", name, v)
		}
		return ts, nil
	}

	var r timeRange
	var err error
	if hasStart {
		if r.start, err = parse("start", startStr); err != nil {
			return timeRange{}, err
		}
	}
	if hasEnd {
		if r.end, err = parse("end", endStr); err != nil {
			return timeRange{}, err
		}
	}

	if hasPeriod {
		if standalonePeriods[period] {
			if hasStart || hasEnd {
				return timeRange{}, apicall.InvalidArgumentf("period %q cannot be combined with start or end", period)
			}
			return timeRange{relative: period}, nil
		}
		dur, ok := periodDurations[period]
		if !ok {
			return timeRange{}, apicall.InvalidArgumentf("unknown period %q", period)
		}
		switch {
		case hasStart:
			r.end = r.start.Add(dur)
		case hasEnd:
			r.start = r.end.Add(-dur)
		default:
			return timeRange{relative: period}, nil
		}
		return r, nil
	}

	if hasStart && hasEnd {
		return r, nil
	}
	if hasStart || hasEnd {
		return timeRange{}, apicall.InvalidArgumentf("start and end must be supplied together, or with period")
	}

	// Neither dates nor period: the day before yesterday through yesterday.
	r.start = now.In(loc).Add(-48 * time.Hour)
	r.end = now.In(loc).Add(-24 * time.Hour)
	return r, nil
}

// MarketDataTool fetches market data for one or more ticker symbols. Symbols
// are fetched concurrently and combined into one object keyed by symbol; a
// failing symbol contributes an embedded error envelope without disturbing
// the others.
type MarketDataTool struct {
	client   *apicall.Client
	cfg      config.MarketConfig
	location *time.Location
	now      func() time.Time
}

func NewMarketDataTool(client *apicall.Client, cfg config.MarketConfig, location *time.Location) *MarketDataTool {
	if location == nil {
		location = time.UTC
	}
	return &MarketDataTool{client: client, cfg: cfg, location: location, now: time.Now}
}

func (t *MarketDataTool) Name() string { return string(ToolMarketData) }
func (t *MarketDataTool) Description() string {
	return "Fetch market data for one or more ticker symbols: price history, company info, fast quote info, financials, balance sheet, or cash flow. History supports date ranges, relative periods, and intervals."
}

func (t *MarketDataTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbols": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Ticker symbols, e.g. [\"AAPL\", \"MSFT\"]"
			},
			"data_type": {
				"type": "string",
				"enum": ["history", "info", "fast_info", "financials", "balance_sheet", "cashflow"],
				"default": "history"
			},
			"start": {"type": "string", "description": "Range start, YYYY-MM-DD"},
			"end": {"type": "string", "description": "Range end, YYYY-MM-DD"},
			"period": {"type": "string", "enum": ["1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"], "description": "Relative range; use at most two of start, end, period"},
			"interval": {"type": "string", "enum": ["1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"], "default": "1d"},
			"extra": {"type": "string", "enum": ["dividends", "splits", "capital_gains", "actions", "earnings_dates", "financials", "balance_sheet", "cashflow", "institutional_holders", "major_holders", "mutualfund_holders"], "description": "Optional sub-resource returned alongside the main data"}
		},
		"required": ["symbols"]
	}`)
}

func (t *MarketDataTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	symbols, ok := strSliceParam(params, "symbols")
	if !ok {
		return errorEnvelope(apicall.InvalidArgumentf("symbols is required")), nil
	}

	dataType := "history"
	if dt, ok := strParam(params, "data_type"); ok {
		dataType = dt
	}
	if dataType != "history" {
		if _, ok := summaryModules[dataType]; !ok {
			return errorEnvelope(apicall.InvalidArgumentf("unknown data_type %q", dataType)), nil
		}
	}

	interval := "1d"
	if iv, ok := strParam(params, "interval"); ok {
		interval = iv
	}

	extra, hasExtra := strParam(params, "extra")
	_, isChartExtra := chartEventExtras[extra]
	if hasExtra && !isChartExtra {
		if _, ok := extraModules[extra]; !ok {
			return errorEnvelope(apicall.InvalidArgumentf("unknown extra %q", extra)), nil
		}
	}

	var window timeRange
	if dataType == "history" || isChartExtra {
		var err error
		window, err = resolveRange(params, t.now(), t.location)
		if err != nil {
			return errorEnvelope(err), nil
		}
	}

	combined := make(map[string]any, len(symbols))
	var mu sync.Mutex
	var g errgroup.Group
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			// An error for one symbol becomes its embedded envelope;
			// the other symbols proceed untouched.
			data, err := t.fetchSymbol(ctx, symbol, dataType, window, interval, extra)
			if err != nil {
				data = map[string]any{"error": err.Error()}
			}
			mu.Lock()
			combined[symbol] = data
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return marshalResult(combined)
}

func (t *MarketDataTool) fetchSymbol(ctx context.Context, symbol, dataType string, window timeRange, interval, extra string) (any, error) {
	var main any
	var err error
	if dataType == "history" {
		main, err = t.fetchHistory(ctx, symbol, window, interval)
	} else {
		main, err = t.fetchSummary(ctx, symbol, dataType, summaryModules[dataType])
	}
	if err != nil {
		return nil, err
	}
	if extra == "" {
		return main, nil
	}

	var extraData any
	if ev, ok := chartEventExtras[extra]; ok {
		extraData, err = t.fetchEvents(ctx, symbol, window, ev)
	} else {
		extraData, err = t.fetchSummary(ctx, symbol, extra, extraModules[extra])
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{"main": main, extra: extraData}, nil
}

// chartQuery builds the chart endpoint parameters for the resolved window.
// An event extra overrides the configured event set for its own fetch.
func (t *MarketDataTool) chartQuery(window timeRange, interval, eventTokens string) apicall.Params {
	query := apicall.Params{
		"interval":             interval,
		"includePrePost":       t.cfg.IncludePrePost,
		"includeAdjustedClose": t.cfg.AutoAdjust,
	}
	if eventTokens == "" {
		var events []string
		if t.cfg.IncludeDividends {
			events = append(events, "div")
		}
		if t.cfg.IncludeSplits {
			events = append(events, "split")
		}
		eventTokens = strings.Join(events, ",")
	}
	if eventTokens != "" {
		query["events"] = eventTokens
	}
	if window.relative != "" {
		query["range"] = window.relative
	} else {
		query["period1"] = strconv.FormatInt(window.start.Unix(), 10)
		query["period2"] = strconv.FormatInt(window.end.Unix(), 10)
	}
	return query
}

func (t *MarketDataTool) fetchChart(ctx context.Context, symbol string, window timeRange, interval, eventTokens string) (map[string]any, error) {
	envelope, err := t.client.Invoke(ctx, apicall.Descriptor{
		Operation: symbol + " price history",
		Method:    http.MethodGet,
		BaseURL:   marketChartBaseURL,
		Path:      []apicall.Segment{{Name: "symbol", Value: symbol, Required: true}},
		Query:     t.chartQuery(window, interval, eventTokens),
		Hidden:    true,
	})
	if err != nil {
		return nil, err
	}
	result, err := dig(envelope, "chart", "result")
	if err != nil {
		return nil, err
	}
	items, ok := result.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	chart, ok := items[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	return chart, nil
}

func (t *MarketDataTool) fetchHistory(ctx context.Context, symbol string, window timeRange, interval string) (any, error) {
	chart, err := t.fetchChart(ctx, symbol, window, interval, "")
	if err != nil {
		return nil, err
	}
	return normalizeBars(chart, t.location)
}

func (t *MarketDataTool) fetchEvents(ctx context.Context, symbol string, window timeRange, ev chartEvents) (any, error) {
	chart, err := t.fetchChart(ctx, symbol, window, "1d", ev.token)
	if err != nil {
		return nil, err
	}
	events, _ := chart["events"].(map[string]any)
	if events == nil {
		events = map[string]any{}
	}
	if ev.key == "" {
		return events, nil
	}
	if sub, ok := events[ev.key]; ok {
		return sub, nil
	}
	return map[string]any{}, nil
}

func (t *MarketDataTool) fetchSummary(ctx context.Context, symbol, operation, modules string) (any, error) {
	envelope, err := t.client.Invoke(ctx, apicall.Descriptor{
		Operation: symbol + " " + operation,
		Method:    http.MethodGet,
		BaseURL:   marketSummaryBaseURL,
		Path:      []apicall.Segment{{Name: "symbol", Value: symbol, Required: true}},
		Query:     apicall.Params{"modules": modules},
		Hidden:    true,
	})
	if err != nil {
		return nil, err
	}
	result, err := dig(envelope, "quoteSummary", "result")
	if err != nil {
		return nil, err
	}
	if items, ok := result.([]any); ok && len(items) > 0 {
		return items[0], nil
	}
	return nil, fmt.Errorf("no summary data for %s", symbol)
}

// barColumns maps response series names onto row column names.
var barColumns = [...]struct{ series, column string }{
	{"open", "Open"},
	{"high", "High"},
	{"low", "Low"},
	{"close", "Close"},
	{"volume", "Volume"},
}

// normalizeBars flattens a chart result into one row map per bar with a
// string Datetime column rendered in loc. Missing values are dropped from
// the row rather than emitted as null.
func normalizeBars(chart map[string]any, loc *time.Location) ([]map[string]any, error) {
	timestamps, _ := chart["timestamp"].([]any)

	quote := map[string]any{}
	if q, err := dig(chart, "indicators", "quote"); err == nil {
		if items, ok := q.([]any); ok && len(items) > 0 {
			quote, _ = items[0].(map[string]any)
		}
	}

	var adjclose []any
	if ac, err := dig(chart, "indicators", "adjclose"); err == nil {
		if items, ok := ac.([]any); ok && len(items) > 0 {
			if inner, ok := items[0].(map[string]any); ok {
				adjclose, _ = inner["adjclose"].([]any)
			}
		}
	}

	rows := make([]map[string]any, 0, len(timestamps))
	for i, ts := range timestamps {
		sec, ok := ts.(float64)
		if !ok {
			continue
		}
		row := map[string]any{
			"Datetime": time.Unix(int64(sec), 0).In(loc).Format(barTimeLayout),
		}
		for _, col := range barColumns {
			series, _ := quote[col.series].([]any)
			if i < len(series) && series[i] != nil {
				row[col.column] = series[i]
			}
		}
		if i < len(adjclose) && adjclose[i] != nil {
			row["Adj Close"] = adjclose[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// dig walks nested JSON objects by key.
func dig(envelope any, keys ...string) (any, error) {
	current := envelope
	for _, key := range keys {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected response shape at %q", key)
		}
		current, ok = obj[key]
		if !ok {
			return nil, fmt.Errorf("response missing %q", key)
		}
	}
	return current, nil
}
