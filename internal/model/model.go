package model

// Data kinds accepted by the update operations. Unknown kinds are logged
// and skipped, not treated as errors.
const (
	KindKline     = "kline"
	KindFinancial = "financial"
	KindDividend  = "dividend"
)

// AllKinds returns every updatable data kind, in update order.
func AllKinds() []string {
	return []string{KindKline, KindFinancial, KindDividend}
}

// Table names in the store.
const (
	TableDailyKline       = "daily_kline"
	TableWeeklyKline      = "weekly_kline"
	TableMonthlyKline     = "monthly_kline"
	TableFinancialSummary = "financial_summary"
	TableDividendData     = "dividend_data"
	TableSignals          = "historical_signals"
	TableUpdateLog        = "data_update_log"
)

// Bar is one OHLCV record for a stock over a day, week, or month bucket.
// Dates are calendar dates in YYYY-MM-DD form; for weekly and monthly
// bars the date is the bucket's period end.
type Bar struct {
	StockCode string
	Date      string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Amount    float64
	AdjFactor float64
}

// FinancialSummary is one valuation snapshot for a stock.
type FinancialSummary struct {
	StockCode            string
	Date                 string
	PETTM                float64
	PBMRQ                float64
	MarketCap            float64
	CirculatingMarketCap float64
}

// DividendRecord is one dividend event, keyed by ex-dividend date. Yield
// here is the raw per-event figure (per-share / 100), not the trailing
// twelve-month yield.
type DividendRecord struct {
	StockCode              string
	ReportDate             string
	ExDividendDate         string
	DividendPerSharePreTax float64
	DividendYield          float64
}

// UpdateLogEntry records when a (table, stock) pair was last refreshed.
// Write-only bookkeeping for now; no read path consults it.
type UpdateLogEntry struct {
	TableName               string
	StockCode               string
	LastUpdateDate          string
	LastSuccessfulFetchDate string
}
