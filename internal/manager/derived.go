package manager

import (
	"fmt"
	"sort"
	"time"

	"StockVault/internal/model"
)

// Derived bar periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// CalculateDerivedKline resamples the trailing-365-day daily series of a
// stock into weekly or monthly bars and persists them. The daily series
// comes through the cache-through path, so this may itself trigger a
// provider fetch. With no daily data available it warns and writes
// nothing. Weekly and monthly bars are caches of this computation: they
// can always be regenerated from the daily table.
func (m *Manager) CalculateDerivedKline(stockCode, period string) error {
	var table string
	switch period {
	case PeriodWeekly:
		table = model.TableWeeklyKline
	case PeriodMonthly:
		table = model.TableMonthlyKline
	default:
		return fmt.Errorf("unknown derived period %q", period)
	}

	endDate := time.Now().Format(dateLayout)
	startDate := time.Now().AddDate(0, 0, -365).Format(dateLayout)
	daily, err := m.GetDailyBars(stockCode, startDate, endDate)
	if err != nil {
		return fmt.Errorf("load daily bars for %s: %w", stockCode, err)
	}
	if len(daily) == 0 {
		m.log.Warnf("cannot derive %s kline for %s: no daily data", period, stockCode)
		return nil
	}

	derived := resampleBars(daily, period)
	if err := m.store.AppendFrame(table, model.BarsToFrame(derived)); err != nil {
		return err
	}
	if err := m.RecordUpdate(table, stockCode, endDate); err != nil {
		return err
	}
	m.log.Infof("derived %d %s bars for %s", len(derived), period, stockCode)
	return nil
}

// resampleBars partitions daily bars into calendar weeks (Sunday-anchored
// period end) or calendar months and aggregates each non-empty bucket:
// open = first, high = max, low = min, close = last, volume and amount
// summed, adjustment factor = last. Bars with unparseable dates are
// skipped. Output rows are labeled with the bucket's period-end date,
// ascending.
func resampleBars(daily []model.Bar, period string) []model.Bar {
	bars := append([]model.Bar(nil), daily...)
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })

	buckets := map[string]*model.Bar{}
	var order []string
	for _, b := range bars {
		t, err := time.Parse(dateLayout, b.Date)
		if err != nil {
			continue
		}
		key := periodEnd(t, period).Format(dateLayout)

		agg, ok := buckets[key]
		if !ok {
			first := b
			first.Date = key
			buckets[key] = &first
			order = append(order, key)
			continue
		}
		if b.High > agg.High {
			agg.High = b.High
		}
		if b.Low < agg.Low {
			agg.Low = b.Low
		}
		agg.Close = b.Close
		agg.Volume += b.Volume
		agg.Amount += b.Amount
		agg.AdjFactor = b.AdjFactor
	}

	out := make([]model.Bar, 0, len(order))
	for _, key := range order {
		out = append(out, *buckets[key])
	}
	return out
}

// periodEnd returns the bucket label for a trading day: the Sunday ending
// its calendar week, or the last day of its calendar month.
func periodEnd(t time.Time, period string) time.Time {
	if period == PeriodWeekly {
		return t.AddDate(0, 0, (7-int(t.Weekday()))%7)
	}
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}
