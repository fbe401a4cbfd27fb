package handlers

import (
	"github.com/yeghor/habit-tracker-go/internal/api/dto"
	"github.com/yeghor/habit-tracker-go/internal/domain/habits"
	"github.com/yeghor/habit-tracker-go/internal/domain/progression"
	"github.com/yeghor/habit-tracker-go/internal/domain/user"
)

// HabitToResponse converts a habit domain entity to its response DTO
func HabitToResponse(habit *habits.Habit) *dto.HabitResponse {
	schedule := habit.Schedule()
	return &dto.HabitResponse{
		ID:            habit.ID,
		Name:          habit.Name,
		Description:   habit.Description,
		Completed:     habit.Completed,
		ResetTimes:    schedule.Checkpoints(),
		ResetSchedule: schedule,
		CreatedAt:     habit.CreatedAt,
	}
}

// CompletionToResponse converts a completion record to its response DTO
func CompletionToResponse(record *habits.CompletionRecord) *dto.CompletionResponse {
	return &dto.CompletionResponse{
		ID:          record.ID,
		HabitID:     record.HabitID,
		HabitName:   record.HabitName,
		CompletedAt: record.CompletedAt,
		XPGiven:     record.XPGiven,
	}
}

// CompletionsToResponse converts a slice of completion records, preserving order
func CompletionsToResponse(records []habits.CompletionRecord) dto.CompletionListResponse {
	responses := make([]dto.CompletionResponse, len(records))
	for i := range records {
		responses[i] = *CompletionToResponse(&records[i])
	}
	return dto.CompletionListResponse{
		Completions: responses,
		TotalCount:  len(responses),
	}
}

// UserToResponse converts a user domain entity to its response DTO
func UserToResponse(u *user.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		XP:       u.XP,
		Level:    u.Level,
		JoinedAt: u.JoinedAt,
	}
}

// ProgressToResponse converts the derived progression breakdown
func ProgressToResponse(p progression.Progress) dto.ProgressionResponse {
	return dto.ProgressionResponse{
		Level:            p.Level,
		XPCurrentInLevel: p.XPCurrentInLevel,
		XPToNextLevel:    p.XPToNextLevel,
		XPRemaining:      p.XPRemaining,
		XPTotal:          p.XPTotal,
	}
}

// ProfileToResponse converts a profile to its response DTO
func ProfileToResponse(p *user.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		User:        *UserToResponse(p.User),
		Progression: ProgressToResponse(p.Progression),
	}
}
