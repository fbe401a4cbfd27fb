package habits

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Habit is a user-owned habit with a daily reset schedule. The schedule is a
// checkpoint-time -> "elapsed today" flag map stored as jsonb; the daily full
// reset clears the flags and the completed bit together.
type Habit struct {
	ID            uuid.UUID                             `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID                             `gorm:"type:uuid;not null;index:idx_habit_user"`
	Name          string                                `gorm:"size:255;not null"`
	Description   string                                `gorm:"type:text;not null"`
	Completed     bool                                  `gorm:"default:false;not null"`
	ResetSchedule datatypes.JSONType[ResetSchedule]     `gorm:"not null"`
	CreatedAt     time.Time                             `gorm:"not null;default:current_timestamp"`
	UpdatedAt     time.Time                             `gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

// TableName specifies the table name for the Habit model
func (Habit) TableName() string {
	return "habits"
}

// BeforeCreate is called before creating a new habit record
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Schedule unwraps the jsonb column.
func (h *Habit) Schedule() ResetSchedule {
	return h.ResetSchedule.Data()
}

// SetSchedule replaces the jsonb column.
func (h *Habit) SetSchedule(s ResetSchedule) {
	h.ResetSchedule = datatypes.NewJSONType(s)
}

// CompletionRecord is an immutable ledger entry for a single habit
// completion. The habit name is denormalized so history survives habit
// deletion; XPGiven is fixed at award time and never recomputed.
type CompletionRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	HabitID     uuid.UUID `gorm:"type:uuid;not null;index:idx_completion_habit"`
	HabitName   string    `gorm:"size:255;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_completion_user"`
	CompletedAt int64     `gorm:"not null;index:idx_completion_time"`
	XPGiven     int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the CompletionRecord model
func (CompletionRecord) TableName() string {
	return "habit_completions"
}

// BeforeCreate is called before creating a new completion record
func (c *CompletionRecord) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CreateHabitInput represents the input for creating a new habit
type CreateHabitInput struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ResetTimes  []int     `json:"reset_times"`
}
