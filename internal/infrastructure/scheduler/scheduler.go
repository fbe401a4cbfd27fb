package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yeghor/habit-tracker-go/internal/domain/habits"
	"github.com/yeghor/habit-tracker-go/internal/domain/token"
	"github.com/yeghor/habit-tracker-go/pkg/config"
	"github.com/yeghor/habit-tracker-go/pkg/logger"
)

// Scheduler drives the two periodic triggers: an interval tick for token
// sweeping and checkpoint evaluation, and a daily tick at the configured
// hour for the full habit reset. A failed sweep is only logged; the next
// tick retries it and the reset is idempotent per habit.
type Scheduler struct {
	habitService habits.Service
	tokenService token.Service
	cfg          config.SchedulerConfig
	logger       *logger.Logger
	stop         chan struct{}
}

func NewScheduler(habitService habits.Service, tokenService token.Service, cfg config.SchedulerConfig, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		habitService: habitService,
		tokenService: tokenService,
		cfg:          cfg,
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	interval := time.Duration(s.cfg.TaskIntervalSeconds) * time.Second

	now := time.Now()
	nextReset := nextDailyRun(now, s.cfg.HabitResettingHour)

	s.logger.Info("scheduler initialized",
		zap.Duration("interval", interval),
		zap.Int("reset_hour", s.cfg.HabitResettingHour),
		zap.Time("next_daily_reset", nextReset))

	go s.runIntervalTicks(interval)
	go s.runDailyResets(nextReset.Sub(now))
}

// Stop halts both tick loops.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) runIntervalTicks(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runIntervalTasks()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) runDailyResets(untilFirst time.Duration) {
	timer := time.NewTimer(untilFirst)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-s.stop:
		return
	}

	s.runDailyReset()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runDailyReset()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) runIntervalTasks() {
	ctx := context.Background()

	if _, err := s.tokenService.SweepExpired(ctx); err != nil {
		s.logger.Error("failed to sweep expired tokens", zap.Error(err))
	}

	marked, err := s.habitService.EvaluateResetCheckpoints(ctx)
	if err != nil {
		s.logger.Error("failed to evaluate reset checkpoints", zap.Error(err))
		return
	}
	if marked > 0 {
		s.logger.Info("reset checkpoints marked", zap.Int64("habits_updated", marked))
	}
}

func (s *Scheduler) runDailyReset() {
	ctx := context.Background()
	start := time.Now()

	reset, err := s.habitService.ResetDailyCompletions(ctx)
	if err != nil {
		// The sweep is idempotent per habit; the next daily tick picks up
		// whatever this one missed.
		s.logger.Error("daily habit reset failed", zap.Error(err))
		return
	}

	s.logger.Info("daily habit reset completed",
		zap.Int64("habits_reset", reset),
		zap.Duration("duration", time.Since(start)))
}

// nextDailyRun returns the next occurrence of hour o'clock after now.
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
