package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the user registration request payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangeUsernameRequest represents the username change request payload
type ChangeUsernameRequest struct {
	NewUsername string `json:"new_username" binding:"required"`
}

// ChangePasswordRequest represents the password change request payload
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	XP       int       `json:"xp"`
	Level    int       `json:"level"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProgressionResponse is the derived XP breakdown for the current level
type ProgressionResponse struct {
	Level            int `json:"level"`
	XPCurrentInLevel int `json:"xp_current_in_level"`
	XPToNextLevel    int `json:"xp_to_next_level"`
	XPRemaining      int `json:"xp_remaining"`
	XPTotal          int `json:"xp_total"`
}

// ProfileResponse is a user together with the progression breakdown
type ProfileResponse struct {
	User        UserResponse        `json:"user"`
	Progression ProgressionResponse `json:"progression"`
}
