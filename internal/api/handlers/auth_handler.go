package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yeghor/habit-tracker-go/internal/api/dto"
	"github.com/yeghor/habit-tracker-go/internal/api/middleware"
	"github.com/yeghor/habit-tracker-go/internal/domain/token"
	"github.com/yeghor/habit-tracker-go/internal/domain/user"
)

var log = logrus.New()

// AuthHandler handles registration, login and account management requests
type AuthHandler struct {
	userService  user.Service
	tokenService token.Service
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(userService user.Service, tokenService token.Service) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

// Register creates a new account and returns a fresh token
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.userService.Register(c.Request.Context(), user.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.JSON(userErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	issued, err := h.tokenService.Issue(c.Request.Context(), u.ID, u.Username)
	if err != nil {
		log.Errorf("Failed to issue token after registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"user":  UserToResponse(u),
		"token": dto.TokenResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt},
	}})
}

// Login authenticates credentials. A still-valid persisted token is handed
// back instead of minting a new one.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(userErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	issued, err := h.tokenService.IssueOrReuse(c.Request.Context(), u.ID, u.Username)
	if err != nil {
		log.Errorf("Failed to issue token on login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.TokenResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt}})
}

// Logout revokes the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString, exists := middleware.GetToken(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.tokenService.Revoke(c.Request.Context(), tokenString); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// CheckToken reports whether the presented token is still valid. Reaching the
// handler at all means the auth middleware accepted it.
func (h *AuthHandler) CheckToken(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user_id": userID})
}

// GetProfile returns the authenticated user with the progression breakdown
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(userErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ProfileToResponse(profile)})
}

// ChangeUsername updates the authenticated user's username
func (h *AuthHandler) ChangeUsername(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ChangeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangeUsername(c.Request.Context(), userID, req.NewUsername); err != nil {
		c.JSON(userErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "username changed"})
}

// ChangePassword updates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		c.JSON(userErrStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// userErrStatus maps user domain errors to HTTP status codes
func userErrStatus(err error) int {
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrUserExists), errors.Is(err, user.ErrSameUsername), errors.Is(err, user.ErrSamePassword):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
