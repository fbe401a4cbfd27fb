package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeghor/habit-tracker-go/internal/api/dto"
	"github.com/yeghor/habit-tracker-go/internal/api/middleware"
	"github.com/yeghor/habit-tracker-go/internal/domain/habits"
)

// HabitsHandler handles HTTP requests for habit operations
type HabitsHandler struct {
	service habits.Service
}

// NewHabitsHandler creates a new HabitsHandler instance
func NewHabitsHandler(service habits.Service) *HabitsHandler {
	return &HabitsHandler{service: service}
}

// CreateHabit creates a new habit for the authenticated user
func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.service.CreateHabit(c.Request.Context(), habits.CreateHabitInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		ResetTimes:  req.ResetTimes,
	})
	if err != nil {
		c.JSON(habitErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": HabitToResponse(habit)})
}

// ListHabits lists all habits of the authenticated user
func (h *HabitsHandler) ListHabits(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	habitsData, err := h.service.ListHabits(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.HabitResponse, len(habitsData))
	for i := range habitsData {
		responses[i] = *HabitToResponse(&habitsData[i])
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitListResponse{
		Habits:     responses,
		TotalCount: len(responses),
	}})
}

// CompleteHabit marks a habit completed and awards XP
func (h *HabitsHandler) CompleteHabit(c *gin.Context) {
	habitID, userID, ok := habitAndUser(c)
	if !ok {
		return
	}

	record, err := h.service.CompleteHabit(c.Request.Context(), habitID, userID)
	if err != nil {
		status := habitErrStatus(err)
		middleware.CountCompletion("complete", status)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	middleware.CountCompletion("complete", http.StatusOK)
	c.JSON(http.StatusOK, gin.H{"data": CompletionToResponse(record)})
}

// UncompleteHabit reverses the most recent completion of a habit
func (h *HabitsHandler) UncompleteHabit(c *gin.Context) {
	habitID, userID, ok := habitAndUser(c)
	if !ok {
		return
	}

	if err := h.service.UncompleteHabit(c.Request.Context(), habitID, userID); err != nil {
		status := habitErrStatus(err)
		middleware.CountCompletion("uncomplete", status)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	middleware.CountCompletion("uncomplete", http.StatusOK)
	c.JSON(http.StatusOK, gin.H{"message": "habit uncompleted"})
}

// DeleteHabit deletes a habit. Completion history is kept.
func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	habitID, userID, ok := habitAndUser(c)
	if !ok {
		return
	}

	if err := h.service.DeleteHabit(c.Request.Context(), habitID, userID); err != nil {
		c.JSON(habitErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCompletions lists the completion history of a single habit
func (h *HabitsHandler) ListCompletions(c *gin.Context) {
	habitID, userID, ok := habitAndUser(c)
	if !ok {
		return
	}

	records, err := h.service.ListCompletions(c.Request.Context(), habitID, userID)
	if err != nil {
		c.JSON(habitErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": CompletionsToResponse(records)})
}

// ListAllCompletions lists the authenticated user's whole completion
// history, most recent first, including records of deleted habits
func (h *HabitsHandler) ListAllCompletions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	records, err := h.service.ListAllCompletions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": CompletionsToResponse(records)})
}

// habitAndUser extracts the habit id path param and the authenticated user,
// writing the error response itself when either is missing
func habitAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	habitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return uuid.Nil, uuid.Nil, false
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, uuid.Nil, false
	}

	return habitID, userID, true
}

// habitErrStatus maps habit domain errors to HTTP status codes. Ownership
// failures return 401, same as a missing token.
func habitErrStatus(err error) int {
	switch {
	case errors.Is(err, habits.ErrInvalidInput), errors.Is(err, habits.ErrQuotaExceeded), errors.Is(err, habits.ErrNotCompleted):
		return http.StatusBadRequest
	case errors.Is(err, habits.ErrNotOwner):
		return http.StatusUnauthorized
	case errors.Is(err, habits.ErrHabitNotFound), errors.Is(err, habits.ErrCompletionNotFound):
		return http.StatusNotFound
	case errors.Is(err, habits.ErrAlreadyCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
