// Package manager implements the cache-through data-access layer: each
// read checks the store first and consults the external provider only on
// a miss, persisting the normalized response before returning it.
package manager

import (
	"fmt"
	"time"

	"StockVault/internal/frame"
	"StockVault/internal/logging"
	"StockVault/internal/model"
	"StockVault/internal/provider"
	"StockVault/internal/store"
)

// Manager coordinates the store, the provider, and the retry policy for
// every data kind. Single-threaded use only: the store handle underneath
// is single-writer.
type Manager struct {
	store      *store.Store
	provider   provider.Provider
	maxRetries int
	retryDelay time.Duration
	log        logging.Logger
}

// New creates a Manager. maxRetries and retryDelay come from
// configuration, not constants.
func New(st *store.Store, p provider.Provider, maxRetries int, retryDelay time.Duration, log logging.Logger) *Manager {
	return &Manager{
		store:      st,
		provider:   p,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        logging.OrDefault(log),
	}
}

// fetchWithRetry calls the provider up to maxRetries times with a fixed
// delay between attempts, regardless of the error kind, and returns the
// final error once attempts are exhausted.
func (m *Manager) fetchWithRetry(fn func() (*frame.Frame, error)) (*frame.Frame, error) {
	var lastErr error
	for attempt := 1; attempt <= m.maxRetries; attempt++ {
		f, err := fn()
		if err == nil {
			return f, nil
		}
		lastErr = err
		if attempt < m.maxRetries {
			m.log.Warnf("fetch attempt %d/%d failed: %v, retrying in %s", attempt, m.maxRetries, err, m.retryDelay)
			time.Sleep(m.retryDelay)
		}
	}
	m.log.Errorf("fetch failed after %d attempts: %v", m.maxRetries, lastErr)
	return nil, lastErr
}

// GetDailyBars returns daily bars for a stock over [startDate, endDate],
// ascending by date. Any cached rows for the stock in the range satisfy
// the read; on a miss the provider is fetched, normalized, persisted,
// and returned. An unusable provider response yields an empty result and
// persists nothing, so the next call fetches again.
func (m *Manager) GetDailyBars(stockCode, startDate, endDate string) ([]model.Bar, error) {
	cached, err := m.store.Query(
		`SELECT stock_code, date, open, high, low, close, volume, amount, adj_factor
		 FROM daily_kline
		 WHERE stock_code = ? AND date BETWEEN ? AND ?
		 ORDER BY date`,
		stockCode, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if !cached.Empty() {
		m.log.Infof("daily bars for %s served from store (%d rows)", stockCode, cached.Len())
		return model.BarsFromFrame(cached), nil
	}

	m.log.Infof("fetching daily bars for %s from %s", stockCode, m.provider.Name())
	symbol := stripMarketPrefix(stockCode)
	raw, err := m.fetchWithRetry(func() (*frame.Frame, error) {
		return m.provider.FetchDailyBars(symbol, "daily", compactDate(startDate), compactDate(endDate), "qfq")
	})
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", stockCode, err)
	}

	normalized := normalizeDailyBars(raw, stockCode)
	if normalized.Empty() {
		m.log.Warnf("no usable daily bars for %s, nothing persisted", stockCode)
		return nil, nil
	}
	if err := m.store.AppendFrame(model.TableDailyKline, normalized); err != nil {
		return nil, err
	}
	return model.BarsFromFrame(normalized), nil
}

// GetFinancialSummary returns financial summary rows for a stock. A
// cache hit returns the single latest stored snapshot; a miss fetches
// and persists the provider's whole indicator series.
func (m *Manager) GetFinancialSummary(stockCode string) ([]model.FinancialSummary, error) {
	cached, err := m.store.Query(
		`SELECT stock_code, date, pe_ttm, pb_mrq, market_cap, circulating_market_cap
		 FROM financial_summary
		 WHERE stock_code = ?
		 ORDER BY date DESC
		 LIMIT 1`,
		stockCode)
	if err != nil {
		return nil, err
	}
	if !cached.Empty() {
		m.log.Infof("financial summary for %s served from store", stockCode)
		return model.FinancialsFromFrame(cached), nil
	}

	m.log.Infof("fetching financial summary for %s from %s", stockCode, m.provider.Name())
	symbol := stripMarketPrefix(stockCode)
	raw, err := m.fetchWithRetry(func() (*frame.Frame, error) {
		return m.provider.FetchFinancialIndicator(symbol)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch financial summary for %s: %w", stockCode, err)
	}

	normalized := normalizeFinancialSummary(raw, stockCode)
	if normalized.Empty() {
		m.log.Warnf("no usable financial summary for %s, nothing persisted", stockCode)
		return nil, nil
	}
	if err := m.store.AppendFrame(model.TableFinancialSummary, normalized); err != nil {
		return nil, err
	}
	return model.FinancialsFromFrame(normalized), nil
}

// GetDividendRecords returns all dividend records for a stock, newest
// ex-dividend date first.
func (m *Manager) GetDividendRecords(stockCode string) ([]model.DividendRecord, error) {
	cached, err := m.store.Query(
		`SELECT stock_code, report_date, ex_dividend_date, dividend_per_share_pre_tax, dividend_yield
		 FROM dividend_data
		 WHERE stock_code = ?
		 ORDER BY ex_dividend_date DESC`,
		stockCode)
	if err != nil {
		return nil, err
	}
	if !cached.Empty() {
		m.log.Infof("dividend records for %s served from store (%d rows)", stockCode, cached.Len())
		return model.DividendsFromFrame(cached), nil
	}

	m.log.Infof("fetching dividend records for %s from %s", stockCode, m.provider.Name())
	symbol := stripMarketPrefix(stockCode)
	raw, err := m.fetchWithRetry(func() (*frame.Frame, error) {
		return m.provider.FetchDividendDetail(symbol)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch dividend records for %s: %w", stockCode, err)
	}

	normalized := normalizeDividends(raw, stockCode)
	if normalized.Empty() {
		m.log.Warnf("no usable dividend records for %s, nothing persisted", stockCode)
		return nil, nil
	}
	if err := m.store.AppendFrame(model.TableDividendData, normalized); err != nil {
		return nil, err
	}
	return model.DividendsFromFrame(normalized), nil
}

// UpdateSingleStock refreshes the requested data kinds for one stock.
// Bars cover the trailing 365 days ending today. A failure on one kind
// is logged and the remaining kinds still run; unknown kinds are logged
// and skipped.
func (m *Manager) UpdateSingleStock(stockCode string, kinds []string) {
	endDate := time.Now().Format(dateLayout)
	startDate := time.Now().AddDate(0, 0, -365).Format(dateLayout)

	for _, kind := range kinds {
		var err error
		switch kind {
		case model.KindKline:
			_, err = m.GetDailyBars(stockCode, startDate, endDate)
		case model.KindFinancial:
			_, err = m.GetFinancialSummary(stockCode)
		case model.KindDividend:
			_, err = m.GetDividendRecords(stockCode)
		default:
			m.log.Warnf("unknown data kind %q for %s, skipped", kind, stockCode)
			continue
		}
		if err != nil {
			m.log.Errorf("update %s data for %s: %v", kind, stockCode, err)
		}
	}
}

// UpdateBatch refreshes multiple stocks strictly sequentially. Per-item
// isolation: one stock failing never aborts the batch.
func (m *Manager) UpdateBatch(stockCodes []string, kinds []string) {
	for _, code := range stockCodes {
		m.log.Infof("updating data for %s", code)
		m.UpdateSingleStock(code, kinds)
	}
}

// RecordUpdate upserts the freshness bookkeeping row for (table, stock).
// Write-only for now: no read path consults it before fetching.
func (m *Manager) RecordUpdate(table, stockCode, fetchDate string) error {
	return m.store.Exec(
		`INSERT OR REPLACE INTO data_update_log
		 (table_name, stock_code, last_update_date, last_successful_fetch_date_for_stock)
		 VALUES (?, ?, ?, ?)`,
		table, stockCode, fetchDate, fetchDate)
}
