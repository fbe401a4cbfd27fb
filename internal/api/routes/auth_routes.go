package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yeghor/habit-tracker-go/internal/api/handlers"
	"github.com/yeghor/habit-tracker-go/internal/api/middleware"
	"github.com/yeghor/habit-tracker-go/pkg/security/auth"
)

type AuthRoutes struct {
	handler     *handlers.AuthHandler
	jwtSecret   string
	rateLimiter auth.RateLimiter
}

func NewAuthRoutes(handler *handlers.AuthHandler, jwtSecret string, rateLimiter auth.RateLimiter) *AuthRoutes {
	return &AuthRoutes{
		handler:     handler,
		jwtSecret:   jwtSecret,
		rateLimiter: rateLimiter,
	}
}

// RegisterRoutes registers authentication and account routes. The credential
// endpoints are rate limited per client IP; everything else requires a token.
func (r *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	public := router.Group("/")
	public.Use(middleware.RateLimitMiddleware(r.rateLimiter))
	public.POST("/register", r.handler.Register)
	public.POST("/login", r.handler.Login)

	protected := router.Group("/")
	protected.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	protected.POST("/logout", r.handler.Logout)
	protected.GET("/check_token", r.handler.CheckToken)
	protected.GET("/get_user_profile", r.handler.GetProfile)
	protected.PATCH("/change_username", r.handler.ChangeUsername)
	protected.PATCH("/change_password", r.handler.ChangePassword)
}
