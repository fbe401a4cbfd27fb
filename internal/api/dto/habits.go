package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateHabitRequest represents the habit creation request payload.
// ResetTimes are checkpoint times in seconds since midnight.
type CreateHabitRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	ResetTimes  []int  `json:"reset_times" binding:"required"`
}

// HabitResponse represents a habit in API responses. ResetSchedule maps each
// checkpoint (seconds since midnight, as a string key) to whether it has
// passed today.
type HabitResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Completed     bool            `json:"completed"`
	ResetTimes    []int           `json:"reset_times"`
	ResetSchedule map[string]bool `json:"reset_schedule"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HabitListResponse wraps a list of habits
type HabitListResponse struct {
	Habits     []HabitResponse `json:"habits"`
	TotalCount int             `json:"total_count"`
}

// CompletionResponse represents a completion ledger entry
type CompletionResponse struct {
	ID          uuid.UUID `json:"id"`
	HabitID     uuid.UUID `json:"habit_id"`
	HabitName   string    `json:"habit_name"`
	CompletedAt int64     `json:"completed_at"`
	XPGiven     int       `json:"xp_given"`
}

// CompletionListResponse wraps a list of completion records
type CompletionListResponse struct {
	Completions []CompletionResponse `json:"completions"`
	TotalCount  int                  `json:"total_count"`
}
