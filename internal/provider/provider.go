package provider

import "StockVault/internal/frame"

// Provider defines the interface to the external market-data source. All
// three calls return tables with provider-native column labels — the data
// manager's normalization is the seam that absorbs label drift.
type Provider interface {
	// FetchDailyBars fetches daily bars for a bare symbol (market prefix
	// already stripped). Dates are in the provider's YYYYMMDD form.
	FetchDailyBars(symbol, period, startDate, endDate, adjust string) (*frame.Frame, error)
	// FetchFinancialIndicator fetches the valuation indicator series.
	FetchFinancialIndicator(symbol string) (*frame.Frame, error)
	// FetchDividendDetail fetches the full dividend event history.
	FetchDividendDetail(symbol string) (*frame.Frame, error)
	Name() string
}

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	DailyFrame     *frame.Frame
	FinancialFrame *frame.Frame
	DividendFrame  *frame.Frame
	Err            error

	DailyCalls     int
	FinancialCalls int
	DividendCalls  int
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) FetchDailyBars(_, _, _, _, _ string) (*frame.Frame, error) {
	m.DailyCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.DailyFrame, nil
}

func (m *Mock) FetchFinancialIndicator(_ string) (*frame.Frame, error) {
	m.FinancialCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.FinancialFrame, nil
}

func (m *Mock) FetchDividendDetail(_ string) (*frame.Frame, error) {
	m.DividendCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.DividendFrame, nil
}
