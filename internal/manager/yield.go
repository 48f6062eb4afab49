package manager

import (
	"fmt"
	"time"
)

// CalculateDynamicDividendYield computes the trailing dividend yield for
// a stock as a percentage: the sum of pre-tax dividends per share with an
// ex-dividend date on or before asOfDate and within its trailing 365
// days, divided by currentPrice. No qualifying records is a 0.0 yield,
// not an error. Pure apart from the cache-through dividend read, which
// may trigger a provider fetch.
func (m *Manager) CalculateDynamicDividendYield(stockCode string, currentPrice float64, asOfDate string) (float64, error) {
	records, err := m.GetDividendRecords(stockCode)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		m.log.Warnf("cannot compute dividend yield for %s: no dividend data", stockCode)
		return 0, nil
	}

	asOf, err := time.Parse(dateLayout, asOfDate)
	if err != nil {
		return 0, fmt.Errorf("parse as-of date %q: %w", asOfDate, err)
	}
	windowStart := asOf.AddDate(0, 0, -365)

	var total float64
	qualifying := 0
	for _, r := range records {
		ex, err := time.Parse(dateLayout, r.ExDividendDate)
		if err != nil {
			continue
		}
		if ex.After(asOf) || !ex.After(windowStart) {
			continue
		}
		total += r.DividendPerSharePreTax
		qualifying++
	}
	if qualifying == 0 || currentPrice <= 0 {
		return 0, nil
	}
	return total / currentPrice * 100, nil
}
