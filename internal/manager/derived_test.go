package manager

import (
	"testing"
	"time"

	"StockVault/internal/model"
	"StockVault/internal/provider"
)

func weekOfBars(code string, dates ...string) []model.Bar {
	bars := make([]model.Bar, 0, len(dates))
	for i, d := range dates {
		bars = append(bars, model.Bar{
			StockCode: code, Date: d,
			Open:  10.0 + float64(i)*0.1,
			High:  10.5 + float64(i)*0.1,
			Low:   9.8 + float64(i)*0.1,
			Close: 10.2 + float64(i)*0.1,
			Volume: 1000 + int64(i)*100, Amount: 10000 + float64(i)*1000,
			AdjFactor: 1.0,
		})
	}
	return bars
}

func TestResampleBars_WeeklyAggregation(t *testing.T) {
	// Mon 2023-01-02 through Fri 2023-01-06: one calendar week ending
	// Sunday 2023-01-08.
	daily := weekOfBars("SZ000858", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05", "2023-01-06")

	weekly := resampleBars(daily, PeriodWeekly)
	if len(weekly) != 1 {
		t.Fatalf("expected 1 weekly bar, got %d", len(weekly))
	}
	w := weekly[0]
	if w.Date != "2023-01-08" {
		t.Errorf("expected period-end label 2023-01-08, got %s", w.Date)
	}
	if w.Open != 10.0 {
		t.Errorf("open: expected first day's 10.0, got %v", w.Open)
	}
	if w.High != 10.9 {
		t.Errorf("high: expected max 10.9, got %v", w.High)
	}
	if w.Low != 9.8 {
		t.Errorf("low: expected min 9.8, got %v", w.Low)
	}
	if w.Close != 10.6 {
		t.Errorf("close: expected last day's 10.6, got %v", w.Close)
	}
	if w.Volume != 6000 {
		t.Errorf("volume: expected sum 6000, got %v", w.Volume)
	}
	if w.Amount != 60000 {
		t.Errorf("amount: expected sum 60000, got %v", w.Amount)
	}
	if w.AdjFactor != 1.0 {
		t.Errorf("adj factor: expected last bucket value, got %v", w.AdjFactor)
	}
}

func TestResampleBars_SplitsCalendarWeeks(t *testing.T) {
	// Fri 2023-01-06 and Mon 2023-01-09 sit in different weeks.
	daily := weekOfBars("SZ000858", "2023-01-06", "2023-01-09")

	weekly := resampleBars(daily, PeriodWeekly)
	if len(weekly) != 2 {
		t.Fatalf("expected 2 weekly bars, got %d", len(weekly))
	}
	if weekly[0].Date != "2023-01-08" || weekly[1].Date != "2023-01-15" {
		t.Errorf("unexpected period ends: %s, %s", weekly[0].Date, weekly[1].Date)
	}
}

func TestResampleBars_MonthlyBuckets(t *testing.T) {
	daily := weekOfBars("SZ000858", "2023-01-30", "2023-01-31", "2023-02-01")

	monthly := resampleBars(daily, PeriodMonthly)
	if len(monthly) != 2 {
		t.Fatalf("expected 2 monthly bars, got %d", len(monthly))
	}
	jan, feb := monthly[0], monthly[1]
	if jan.Date != "2023-01-31" || feb.Date != "2023-02-28" {
		t.Errorf("unexpected period ends: %s, %s", jan.Date, feb.Date)
	}
	if jan.Volume != 2100 {
		t.Errorf("january volume: expected 1000+1100, got %d", jan.Volume)
	}
	if feb.Open != 10.2 {
		t.Errorf("february open: expected 10.2, got %v", feb.Open)
	}
}

func TestResampleBars_UnsortedInput(t *testing.T) {
	daily := weekOfBars("SZ000858", "2023-01-04", "2023-01-02", "2023-01-03")

	weekly := resampleBars(daily, PeriodWeekly)
	if len(weekly) != 1 {
		t.Fatalf("expected 1 weekly bar, got %d", len(weekly))
	}
	// First/last aggregation must follow date order, not input order:
	// 2023-01-02 carries open 10.1, 2023-01-04 carries close 10.2.
	if weekly[0].Open != 10.1 {
		t.Errorf("open: expected earliest day's 10.1, got %v", weekly[0].Open)
	}
	if weekly[0].Close != 10.2 {
		t.Errorf("close: expected latest day's 10.2, got %v", weekly[0].Close)
	}
}

func TestPeriodEnd(t *testing.T) {
	tests := []struct {
		date   string
		period string
		want   string
	}{
		{"2023-01-02", PeriodWeekly, "2023-01-08"}, // Monday
		{"2023-01-08", PeriodWeekly, "2023-01-08"}, // Sunday maps to itself
		{"2023-01-15", PeriodWeekly, "2023-01-15"},
		{"2023-02-10", PeriodMonthly, "2023-02-28"},
		{"2024-02-10", PeriodMonthly, "2024-02-29"},
		{"2023-12-31", PeriodMonthly, "2023-12-31"},
	}
	for _, tt := range tests {
		d, err := time.Parse(dateLayout, tt.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.date, err)
		}
		if got := periodEnd(d, tt.period).Format(dateLayout); got != tt.want {
			t.Errorf("%s %s: expected %s, got %s", tt.period, tt.date, tt.want, got)
		}
	}
}

func TestCalculateDerivedKline_PersistsAndLogs(t *testing.T) {
	m, st := newTestManager(t, &provider.Mock{})

	// Seed a handful of recent trading days so the trailing-365 window
	// finds them.
	var dates []string
	for i := 10; i >= 6; i-- {
		dates = append(dates, time.Now().AddDate(0, 0, -i).Format(dateLayout))
	}
	seedDailyBars(t, st, "SZ000858", dates...)

	if err := m.CalculateDerivedKline("SZ000858", PeriodWeekly); err != nil {
		t.Fatalf("derive weekly: %v", err)
	}
	if got := rowCount(t, st, model.TableWeeklyKline); got == 0 {
		t.Error("expected weekly bars persisted")
	}

	logRows, err := st.Query(`SELECT last_update_date FROM data_update_log
		WHERE table_name = ? AND stock_code = ?`, model.TableWeeklyKline, "SZ000858")
	if err != nil {
		t.Fatalf("query log: %v", err)
	}
	if logRows.Len() != 1 {
		t.Fatalf("expected one update-log row, got %d", logRows.Len())
	}
	if logRows.String(0, "last_update_date") != time.Now().Format(dateLayout) {
		t.Errorf("log should carry today's date, got %q", logRows.String(0, "last_update_date"))
	}
}

func TestCalculateDerivedKline_NoDailyDataWritesNothing(t *testing.T) {
	mock := &provider.Mock{DailyFrame: akshareDailyFrame()}
	m, st := newTestManager(t, mock)

	if err := m.CalculateDerivedKline("SZ000858", PeriodMonthly); err != nil {
		t.Fatalf("derive with no data should warn, not fail: %v", err)
	}
	if got := rowCount(t, st, model.TableMonthlyKline); got != 0 {
		t.Errorf("expected no derived rows, got %d", got)
	}
	if got := rowCount(t, st, model.TableUpdateLog); got != 0 {
		t.Errorf("expected no update-log rows, got %d", got)
	}
}

func TestCalculateDerivedKline_UnknownPeriod(t *testing.T) {
	m, _ := newTestManager(t, &provider.Mock{})
	if err := m.CalculateDerivedKline("SZ000858", "hourly"); err == nil {
		t.Error("expected error for unknown period")
	}
}
