package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User holds identity plus the cumulative XP total. Level is a display
// cache: it is recomputed from XP inside every XP-mutating transaction and
// again on profile reads, never trusted on its own.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex:idx_user_username;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex:idx_user_email;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	XP           int       `json:"xp" gorm:"default:0;not null"`
	Level        int       `json:"level" gorm:"default:1;not null"`
	JoinedAt     time.Time `json:"joined_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt    time.Time `json:"-" gorm:"not null;default:current_timestamp;autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new user record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now()
	}
	if u.Level == 0 {
		u.Level = 1
	}
	return nil
}

// RegisterInput represents the input for user registration
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
