// Package scheduler wires the periodic jobs: interval data collection during
// trading hours and daily cleanup of expired bars.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"PatternSentinel/internal/collector"
	"PatternSentinel/internal/storage"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron          *cron.Cron
	Collector     *collector.Collector
	Store         storage.Store
	RetentionDays int
	log           zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(col *collector.Collector, store storage.Store, retentionDays int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Collector:     col,
		Store:         store,
		RetentionDays: retentionDays,
		log:           log,
	}
}

// RegisterAll registers the collection and cleanup tasks. Collection runs
// every intervalMinutes (gated on trading hours inside the task); cleanup
// runs daily at midnight.
func (s *Scheduler) RegisterAll(intervalMinutes int) error {
	if intervalMinutes <= 0 || intervalMinutes > 59 {
		return fmt.Errorf("invalid collection interval: %d minutes", intervalMinutes)
	}

	collectSpec := fmt.Sprintf("0 */%d * * * *", intervalMinutes)
	if _, err := s.Cron.AddFunc(collectSpec, s.collectTask); err != nil {
		return fmt.Errorf("register collection task: %w", err)
	}
	if _, err := s.Cron.AddFunc("0 0 0 * * *", s.cleanupTask); err != nil {
		return fmt.Errorf("register cleanup task: %w", err)
	}
	s.log.Info().Int("interval_minutes", intervalMinutes).Msg("scheduled collection and cleanup tasks")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) collectTask() {
	s.Collector.CollectIfTradingHours()
}

func (s *Scheduler) cleanupTask() {
	deleted, err := s.Store.DeleteOlderThan(s.RetentionDays)
	if err != nil {
		s.log.Error().Err(err).Msg("data cleanup failed")
		return
	}
	s.log.Info().Int64("deleted", deleted).Int("retention_days", s.RetentionDays).
		Msg("data cleanup completed")
}
