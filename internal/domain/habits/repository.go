package habits

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeghor/habit-tracker-go/internal/domain/user"
	"github.com/yeghor/habit-tracker-go/internal/infrastructure/persistence/postgres/connection"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrNotOwner           = errors.New("not the owner of this habit")
	ErrAlreadyCompleted   = errors.New("habit is already completed")
	ErrNotCompleted       = errors.New("habit is not completed")
	ErrCompletionNotFound = errors.New("no completion record found")
)

// CompletionResult reports the outcome of a completion or uncompletion
// transaction.
type CompletionResult struct {
	Record   *CompletionRecord
	UserXP   int
	NewLevel int
	// Underflowed is set when reversing a completion would have pushed the
	// user's XP below zero; the stored value was floored at zero instead.
	Underflowed bool
}

// Repository defines the interface for habit persistence operations.
// Complete and Uncomplete are transactional: the habit row is locked, the
// completed flag re-checked, and the ledger, habit and user XP mutated as
// one unit. levelForXP lets the caller recompute the cached user level from
// the new XP total without the repository knowing the curve.
type Repository interface {
	Create(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Complete(ctx context.Context, habitID, userID uuid.UUID, xpGiven int, completedAt int64, nowSeconds int, levelForXP func(int) int) (*CompletionResult, error)
	Uncomplete(ctx context.Context, habitID, userID uuid.UUID, levelForXP func(int) int) (*CompletionResult, error)

	MarkElapsedCheckpoints(ctx context.Context, nowSeconds int) (int64, error)
	ResetAll(ctx context.Context) (int64, error)

	ListCompletionsByHabit(ctx context.Context, habitID uuid.UUID) ([]CompletionRecord, error)
	ListCompletionsByUser(ctx context.Context, userID uuid.UUID) ([]CompletionRecord, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Habit, error) {
	var habit Habit
	result := r.db.WithContext(ctx).First(&habit, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&habits).Error
	return habits, err
}

func (r *repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Habit{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Delete removes the habit only. Completion records are owned by the user
// and survive as orphan history, referencing the habit by id and its
// denormalized name snapshot.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Habit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *repository) Complete(ctx context.Context, habitID, userID uuid.UUID, xpGiven int, completedAt int64, nowSeconds int, levelForXP func(int) int) (*CompletionResult, error) {
	var res CompletionResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit Habit
		// The row lock is the serialization point: two racing completions
		// queue here and the loser fails the completed re-check.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&habit, "id = ?", habitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}

		if habit.UserID != userID {
			return ErrNotOwner
		}
		if habit.Completed {
			return ErrAlreadyCompleted
		}

		record := &CompletionRecord{
			ID:          uuid.New(),
			HabitID:     habit.ID,
			HabitName:   habit.Name,
			UserID:      userID,
			CompletedAt: completedAt,
			XPGiven:     xpGiven,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		schedule := habit.Schedule().Clone()
		schedule.MarkElapsed(nowSeconds)
		habit.SetSchedule(schedule)
		habit.Completed = true
		if err := tx.Save(&habit).Error; err != nil {
			return err
		}

		var owner user.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&owner, "id = ?", userID).Error; err != nil {
			return err
		}

		owner.XP += xpGiven
		owner.Level = levelForXP(owner.XP)
		if err := tx.Model(&owner).Updates(map[string]interface{}{
			"xp":    owner.XP,
			"level": owner.Level,
		}).Error; err != nil {
			return err
		}

		res = CompletionResult{Record: record, UserXP: owner.XP, NewLevel: owner.Level}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) Uncomplete(ctx context.Context, habitID, userID uuid.UUID, levelForXP func(int) int) (*CompletionResult, error) {
	var res CompletionResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit Habit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&habit, "id = ?", habitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}

		if habit.UserID != userID {
			return ErrNotOwner
		}
		if !habit.Completed {
			return ErrNotCompleted
		}

		// At most one record is active while completed is set, so the most
		// recent undeleted record is the one to reverse.
		var record CompletionRecord
		if err := tx.Where("habit_id = ?", habitID).
			Order("completed_at desc").
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompletionNotFound
			}
			return err
		}

		if err := tx.Delete(&CompletionRecord{}, "id = ?", record.ID).Error; err != nil {
			return err
		}

		habit.Completed = false
		if err := tx.Save(&habit).Error; err != nil {
			return err
		}

		var owner user.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&owner, "id = ?", userID).Error; err != nil {
			return err
		}

		owner.XP -= record.XPGiven
		if owner.XP < 0 {
			owner.XP = 0
			res.Underflowed = true
		}
		owner.Level = levelForXP(owner.XP)
		if err := tx.Model(&owner).Updates(map[string]interface{}{
			"xp":    owner.XP,
			"level": owner.Level,
		}).Error; err != nil {
			return err
		}

		res.Record = &record
		res.UserXP = owner.XP
		res.NewLevel = owner.Level
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkElapsedCheckpoints flips the flags of passed checkpoints across every
// habit. Only the schedule column is written: a completion may commit
// between the scan and the write, and a whole-row save would persist its
// stale completed flag back over it.
func (r *repository) MarkElapsedCheckpoints(ctx context.Context, nowSeconds int) (int64, error) {
	var habits []Habit
	if err := r.db.WithContext(ctx).Find(&habits).Error; err != nil {
		return 0, err
	}

	var updated int64
	for i := range habits {
		schedule := habits[i].Schedule().Clone()
		if schedule.MarkElapsed(nowSeconds) == 0 {
			continue
		}
		err := r.db.WithContext(ctx).Model(&Habit{}).
			Where("id = ?", habits[i].ID).
			Update("reset_schedule", datatypes.NewJSONType(schedule)).Error
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// ResetAll performs the daily full reset: completed back to false and every
// checkpoint flag cleared. Each habit is re-read under the same row lock the
// completion path takes, so the sweep can't clobber a concurrent completion.
// Habits already in the reset state are skipped, so running the sweep twice
// is a no-op the second time.
func (r *repository) ResetAll(ctx context.Context) (int64, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&Habit{}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	var updated int64
	for _, id := range ids {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var habit Habit
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&habit, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Deleted since the scan.
					return nil
				}
				return err
			}

			schedule := habit.Schedule()
			needsReset := habit.Completed
			for _, passed := range schedule {
				if passed {
					needsReset = true
					break
				}
			}
			if !needsReset {
				return nil
			}

			fresh := schedule.Clone()
			fresh.Reset()
			if err := tx.Model(&habit).Updates(map[string]interface{}{
				"completed":      false,
				"reset_schedule": datatypes.NewJSONType(fresh),
			}).Error; err != nil {
				return err
			}
			updated++
			return nil
		})
		if err != nil {
			return updated, err
		}
	}
	return updated, nil
}

func (r *repository) ListCompletionsByHabit(ctx context.Context, habitID uuid.UUID) ([]CompletionRecord, error) {
	var records []CompletionRecord
	err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("completed_at desc").
		Find(&records).Error
	return records, err
}

func (r *repository) ListCompletionsByUser(ctx context.Context, userID uuid.UUID) ([]CompletionRecord, error) {
	var records []CompletionRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at desc").
		Find(&records).Error
	return records, err
}
