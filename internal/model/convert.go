package model

import "StockVault/internal/frame"

// Canonical column sets, in storage order.
var (
	BarColumns = []string{"stock_code", "date", "open", "high", "low", "close", "volume", "amount", "adj_factor"}

	FinancialColumns = []string{"stock_code", "date", "pe_ttm", "pb_mrq", "market_cap", "circulating_market_cap"}

	DividendColumns = []string{"stock_code", "report_date", "ex_dividend_date", "dividend_per_share_pre_tax", "dividend_yield"}
)

// BarsFromFrame scans a canonical-column frame into bars.
func BarsFromFrame(f *frame.Frame) []Bar {
	if f.Empty() {
		return nil
	}
	bars := make([]Bar, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		bars = append(bars, Bar{
			StockCode: f.String(i, "stock_code"),
			Date:      f.String(i, "date"),
			Open:      f.Float(i, "open"),
			High:      f.Float(i, "high"),
			Low:       f.Float(i, "low"),
			Close:     f.Float(i, "close"),
			Volume:    int64(f.Float(i, "volume")),
			Amount:    f.Float(i, "amount"),
			AdjFactor: f.Float(i, "adj_factor"),
		})
	}
	return bars
}

// BarsToFrame lays bars out as a canonical-column frame.
func BarsToFrame(bars []Bar) *frame.Frame {
	f := frame.New(BarColumns...)
	for _, b := range bars {
		f.Append(b.StockCode, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, b.Amount, b.AdjFactor)
	}
	return f
}

// FinancialsFromFrame scans a canonical-column frame into summaries.
// Columns the provider omitted scan as zero.
func FinancialsFromFrame(f *frame.Frame) []FinancialSummary {
	if f.Empty() {
		return nil
	}
	out := make([]FinancialSummary, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		out = append(out, FinancialSummary{
			StockCode:            f.String(i, "stock_code"),
			Date:                 f.String(i, "date"),
			PETTM:                f.Float(i, "pe_ttm"),
			PBMRQ:                f.Float(i, "pb_mrq"),
			MarketCap:            f.Float(i, "market_cap"),
			CirculatingMarketCap: f.Float(i, "circulating_market_cap"),
		})
	}
	return out
}

// DividendsFromFrame scans a canonical-column frame into dividend records.
func DividendsFromFrame(f *frame.Frame) []DividendRecord {
	if f.Empty() {
		return nil
	}
	out := make([]DividendRecord, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		out = append(out, DividendRecord{
			StockCode:              f.String(i, "stock_code"),
			ReportDate:             f.String(i, "report_date"),
			ExDividendDate:         f.String(i, "ex_dividend_date"),
			DividendPerSharePreTax: f.Float(i, "dividend_per_share_pre_tax"),
			DividendYield:          f.Float(i, "dividend_yield"),
		})
	}
	return out
}
