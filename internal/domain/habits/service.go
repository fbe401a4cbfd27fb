package habits

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yeghor/habit-tracker-go/internal/domain/progression"
	"github.com/yeghor/habit-tracker-go/pkg/config"
)

var (
	ErrInvalidInput  = errors.New("invalid habit name, description or reset times")
	ErrQuotaExceeded = errors.New("habit quota exceeded")
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 1000
)

// Service orchestrates the habit lifecycle: creation under quota, completion
// with XP award, uncompletion with exact reversal, deletion and the two
// reset mechanisms (checkpoint marking and daily full reset). Every mutation
// of user XP or habit completion state goes through here.
type Service interface {
	CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error)
	ListHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	CompleteHabit(ctx context.Context, habitID, userID uuid.UUID) (*CompletionRecord, error)
	UncompleteHabit(ctx context.Context, habitID, userID uuid.UUID) error
	DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error
	ListCompletions(ctx context.Context, habitID, userID uuid.UUID) ([]CompletionRecord, error)
	ListAllCompletions(ctx context.Context, userID uuid.UUID) ([]CompletionRecord, error)

	EvaluateResetCheckpoints(ctx context.Context) (int64, error)
	ResetDailyCompletions(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	curve  progression.Curve
	cfg    config.HabitsConfig
	logger *zap.Logger
	rng    *rand.Rand
	now    func() time.Time
}

func NewService(repo Repository, curve progression.Curve, cfg config.HabitsConfig, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		curve:  curve,
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

func (s *service) CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error) {
	if !validText(input.Name, maxNameLength) || !validText(input.Description, maxDescriptionLength) {
		return nil, ErrInvalidInput
	}
	if !ValidResetTimes(input.ResetTimes) {
		return nil, ErrInvalidInput
	}

	count, err := s.repo.CountByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count habits: %w", err)
	}
	if count+1 > int64(s.cfg.MaxHabits) {
		return nil, ErrQuotaExceeded
	}

	habit := &Habit{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		Completed:   false,
	}
	habit.SetSchedule(NewResetSchedule(input.ResetTimes))

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	s.logger.Info("habit created",
		zap.String("habit_id", habit.ID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.Int("checkpoints", len(input.ResetTimes)))

	return habit, nil
}

func (s *service) ListHabits(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *service) CompleteHabit(ctx context.Context, habitID, userID uuid.UUID) (*CompletionRecord, error) {
	now := s.now()
	xpGiven := s.cfg.XPAfterCompletion * s.randomFactor()

	result, err := s.repo.Complete(ctx, habitID, userID, xpGiven, now.Unix(), secondsSinceMidnight(now), s.levelForXP)
	if err != nil {
		return nil, err
	}

	s.logger.Info("habit completed",
		zap.String("habit_id", habitID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("xp_given", xpGiven),
		zap.Int("user_xp", result.UserXP),
		zap.Int("level", result.NewLevel))

	return result.Record, nil
}

func (s *service) UncompleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	result, err := s.repo.Uncomplete(ctx, habitID, userID, s.levelForXP)
	if err != nil {
		return err
	}

	if result.Underflowed {
		s.logger.Warn("xp underflow while reversing completion, floored at zero",
			zap.String("habit_id", habitID.String()),
			zap.String("user_id", userID.String()),
			zap.Int("xp_given", result.Record.XPGiven))
	}

	s.logger.Info("habit uncompleted",
		zap.String("habit_id", habitID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("xp_reversed", result.Record.XPGiven),
		zap.Int("user_xp", result.UserXP))

	return nil
}

func (s *service) DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, habitID)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return ErrNotOwner
	}

	// Completion records stay behind as user-owned history.
	return s.repo.Delete(ctx, habitID)
}

func (s *service) ListCompletions(ctx context.Context, habitID, userID uuid.UUID) ([]CompletionRecord, error) {
	habit, err := s.repo.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, ErrNotOwner
	}

	return s.repo.ListCompletionsByHabit(ctx, habitID)
}

func (s *service) ListAllCompletions(ctx context.Context, userID uuid.UUID) ([]CompletionRecord, error) {
	return s.repo.ListCompletionsByUser(ctx, userID)
}

// EvaluateResetCheckpoints marks passed checkpoints across all habits. It
// runs on the interval tick and never uncompletes anything.
func (s *service) EvaluateResetCheckpoints(ctx context.Context) (int64, error) {
	updated, err := s.repo.MarkElapsedCheckpoints(ctx, secondsSinceMidnight(s.now()))
	if err != nil {
		return updated, fmt.Errorf("failed to evaluate reset checkpoints: %w", err)
	}
	return updated, nil
}

// ResetDailyCompletions performs the daily full reset across all habits.
func (s *service) ResetDailyCompletions(ctx context.Context) (int64, error) {
	updated, err := s.repo.ResetAll(ctx)
	if err != nil {
		return updated, fmt.Errorf("failed to reset daily completions: %w", err)
	}
	return updated, nil
}

func (s *service) levelForXP(xp int) int {
	level, _ := s.curve.LevelForXP(xp)
	return level
}

// randomFactor picks the completion multiplier in [1, XPRandomFactor].
func (s *service) randomFactor() int {
	if s.cfg.XPRandomFactor <= 1 {
		return 1
	}
	return s.rng.Intn(s.cfg.XPRandomFactor) + 1
}

func validText(s string, max int) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed != "" && len(s) <= max
}

func secondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
