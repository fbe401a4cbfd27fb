package token

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthToken is an issued bearer token persisted so logins can reuse a still
// valid token and the interval sweep can drop expired ones.
type AuthToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_token_user"`
	Token     string    `gorm:"type:text;not null;uniqueIndex:idx_token_value"`
	ExpiresAt int64     `gorm:"not null;index:idx_token_expiry"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the AuthToken model
func (AuthToken) TableName() string {
	return "auth_tokens"
}

// BeforeCreate is called before creating a new token record
func (t *AuthToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
