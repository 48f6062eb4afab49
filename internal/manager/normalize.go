package manager

import (
	"strings"
	"time"

	"StockVault/internal/frame"
	"StockVault/internal/model"
)

const dateLayout = "2006-01-02"

// Column renames from akshare's native labels into the stored schema.
// Only labels that are actually present get renamed, so a provider-side
// column going missing degrades to an unusable-response soft failure
// instead of a crash.
var (
	dailyRename = map[string]string{
		"日期":  "date",
		"开盘":  "open",
		"最高":  "high",
		"最低":  "low",
		"收盘":  "close",
		"成交量": "volume",
		"成交额": "amount",
	}

	financialRename = map[string]string{
		"trade_date": "date",
		"pe_ttm":     "pe_ttm",
		"pb":         "pb_mrq",
		"total_mv":   "market_cap",
		"circ_mv":    "circulating_market_cap",
	}

	dividendRename = map[string]string{
		"公告日期":     "report_date",
		"除权除息日":    "ex_dividend_date",
		"每股股利(税前)": "dividend_per_share_pre_tax",
	}
)

// normalizeDailyBars renames provider columns, stamps the stock code and
// a default adjustment factor of 1.0 when the provider supplies none,
// projects down to the canonical column set, and drops rows without a
// date. An empty return means the response was unusable.
func normalizeDailyBars(f *frame.Frame, stockCode string) *frame.Frame {
	if f.Empty() {
		return frame.New(model.BarColumns...)
	}
	f.Rename(dailyRename)
	normalizeDateColumn(f, "date")
	f.SetColumn("stock_code", stockCode)
	if !f.Has("adj_factor") {
		f.SetColumn("adj_factor", 1.0)
	}
	return f.Select(model.BarColumns...).DropNull("date")
}

// normalizeFinancialSummary tolerates responses that omit mapped columns
// but requires a date column after renaming, plus at least one canonical
// column beyond the stamped stock code.
func normalizeFinancialSummary(f *frame.Frame, stockCode string) *frame.Frame {
	empty := frame.New(model.FinancialColumns...)
	if f.Empty() {
		return empty
	}
	f.Rename(financialRename)
	if !f.Has("date") {
		return empty
	}
	normalizeDateColumn(f, "date")
	f.SetColumn("stock_code", stockCode)

	out := f.Select(model.FinancialColumns...)
	if len(out.Columns) < 2 {
		return empty
	}
	return out.DropNull("date")
}

// normalizeDividends derives the raw per-event yield (per-share / 100)
// when the pre-tax dividend column is present, and drops rows without an
// ex-dividend date.
func normalizeDividends(f *frame.Frame, stockCode string) *frame.Frame {
	if f.Empty() {
		return frame.New(model.DividendColumns...)
	}
	f.Rename(dividendRename)
	normalizeDateColumn(f, "report_date")
	normalizeDateColumn(f, "ex_dividend_date")
	f.SetColumn("stock_code", stockCode)
	if f.Has("dividend_per_share_pre_tax") {
		f.AddColumn("dividend_yield", func(row int) any {
			return f.Float(row, "dividend_per_share_pre_tax") / 100
		})
	}
	return f.Select(model.DividendColumns...).DropNull("ex_dividend_date")
}

// stripMarketPrefix turns a market-prefixed code like SZ000858 into the
// bare symbol the provider expects.
func stripMarketPrefix(stockCode string) string {
	if len(stockCode) > 2 {
		return stockCode[2:]
	}
	return stockCode
}

// compactDate converts YYYY-MM-DD into the provider's YYYYMMDD form.
func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// normalizeDateColumn rewrites a date column into YYYY-MM-DD, accepting
// the handful of shapes the provider emits. Unparseable cells become
// null so the key filter drops them.
func normalizeDateColumn(f *frame.Frame, col string) {
	i := f.Index(col)
	if i < 0 {
		return
	}
	for r := range f.Rows {
		s := f.String(r, col)
		if s == "" {
			f.Rows[r][i] = nil
			continue
		}
		if iso, ok := toISODate(s); ok {
			f.Rows[r][i] = iso
		} else {
			f.Rows[r][i] = nil
		}
	}
}

func toISODate(s string) (string, bool) {
	for _, layout := range []string{dateLayout, "20060102", "2006-01-02T15:04:05", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), true
		}
	}
	return "", false
}
