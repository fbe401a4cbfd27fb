package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeghor/habit-tracker-go/internal/api/handlers"
	"github.com/yeghor/habit-tracker-go/internal/api/middleware"
	"github.com/yeghor/habit-tracker-go/pkg/security/auth"
)

type HabitsRoutes struct {
	handler     *handlers.HabitsHandler
	jwtSecret   string
	rateLimiter auth.RateLimiter
}

func NewHabitsRoutes(handler *handlers.HabitsHandler, jwtSecret string, rateLimiter auth.RateLimiter) *HabitsRoutes {
	return &HabitsRoutes{
		handler:     handler,
		jwtSecret:   jwtSecret,
		rateLimiter: rateLimiter,
	}
}

// RegisterRoutes registers all habit-related routes. Mutating routes share
// the per-client rate limit budget with the credential endpoints.
func (r *HabitsRoutes) RegisterRoutes(router *gin.Engine) {
	habits := router.Group("/")
	habits.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	habits.Use(middleware.RateLimitMiddleware(r.rateLimiter))

	habits.POST("/add_habit", r.handler.CreateHabit)
	habits.GET("/get_habits", gzip.Gzip(gzip.DefaultCompression), r.handler.ListHabits)
	habits.DELETE("/delete_habit/:id", r.handler.DeleteHabit)

	habits.POST("/habit_completion/:id", r.handler.CompleteHabit)
	habits.POST("/uncomplete_habit/:id", r.handler.UncompleteHabit)

	// Completion history can grow without bound, so it ships compressed.
	habits.GET("/get_habit_completions/:id", gzip.Gzip(gzip.DefaultCompression), r.handler.ListCompletions)
	habits.GET("/get_all_completions", gzip.Gzip(gzip.DefaultCompression), r.handler.ListAllCompletions)
}
