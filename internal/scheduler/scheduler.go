// Package scheduler runs the periodic pool refresh: every configured
// tick, each stock in the pool gets its data kinds updated sequentially.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"StockVault/internal/logging"
	"StockVault/internal/manager"
	"StockVault/internal/model"
)

// Scheduler owns the cron instance and the refresh task.
type Scheduler struct {
	cron    *cron.Cron
	manager *manager.Manager
	stocks  []string
	log     logging.Logger
}

// New creates a scheduler refreshing the given stocks.
func New(m *manager.Manager, stocks []string, log logging.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		manager: m,
		stocks:  stocks,
		log:     logging.OrDefault(log),
	}
}

// Register adds the refresh task under the given cron spec.
func (s *Scheduler) Register(updateCron string) error {
	if _, err := s.cron.AddFunc(updateCron, s.refreshTask); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("scheduler started (%d stocks)", len(s.stocks))
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Infof("scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	s.log.Infof("running scheduled refresh")
	s.manager.UpdateBatch(s.stocks, model.AllKinds())
	for _, code := range s.stocks {
		for _, period := range []string{manager.PeriodWeekly, manager.PeriodMonthly} {
			if err := s.manager.CalculateDerivedKline(code, period); err != nil {
				s.log.Errorf("derive %s kline for %s: %v", period, code, err)
			}
		}
	}
}
