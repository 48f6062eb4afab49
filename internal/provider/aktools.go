package provider

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"StockVault/internal/frame"
)

// AKTools fetches akshare data through an AKTools HTTP gateway, which
// exposes each akshare function under /api/public/<function>. Responses
// are JSON arrays of objects whose keys are akshare's native column
// labels (Chinese for the hist/dividend endpoints).
type AKTools struct {
	client  *resty.Client
	baseURL string
}

// NewAKTools creates a provider against the given gateway base URL.
func NewAKTools(baseURL, proxy string) *AKTools {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	if proxy != "" {
		client.SetProxy(proxy)
	}
	return &AKTools{client: client, baseURL: baseURL}
}

func (a *AKTools) Name() string { return "aktools" }

func (a *AKTools) FetchDailyBars(symbol, period, startDate, endDate, adjust string) (*frame.Frame, error) {
	return a.fetch("stock_zh_a_hist", map[string]string{
		"symbol":     symbol,
		"period":     period,
		"start_date": startDate,
		"end_date":   endDate,
		"adjust":     adjust,
	})
}

func (a *AKTools) FetchFinancialIndicator(symbol string) (*frame.Frame, error) {
	return a.fetch("stock_a_indicator_lg", map[string]string{"symbol": symbol})
}

func (a *AKTools) FetchDividendDetail(symbol string) (*frame.Frame, error) {
	return a.fetch("stock_history_dividend_detail", map[string]string{"symbol": symbol})
}

func (a *AKTools) fetch(endpoint string, params map[string]string) (*frame.Frame, error) {
	resp, err := a.client.R().
		SetQueryParams(params).
		Get(a.baseURL + "/api/public/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("aktools %s: %w", endpoint, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("aktools %s: status %d, body: %s", endpoint, resp.StatusCode(), resp.String())
	}

	var records []map[string]any
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("aktools %s: decode: %w", endpoint, err)
	}
	return frameFromRecords(records), nil
}

// frameFromRecords lays out decoded JSON objects as a frame. Column order
// is the sorted union of keys, since JSON object order is not preserved.
func frameFromRecords(records []map[string]any) *frame.Frame {
	seen := map[string]bool{}
	var cols []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)

	f := frame.New(cols...)
	for _, rec := range records {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = rec[c]
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}
