package token

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeghor/habit-tracker-go/internal/infrastructure/persistence/postgres/connection"
)

var ErrTokenNotFound = errors.New("token not found")

// Repository defines the interface for token persistence operations
type Repository interface {
	Create(ctx context.Context, t *AuthToken) error
	FindValidByUserID(ctx context.Context, userID uuid.UUID) (*AuthToken, error)
	DeleteByValue(ctx context.Context, value string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *AuthToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindValidByUserID(ctx context.Context, userID uuid.UUID) (*AuthToken, error) {
	var t AuthToken
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now().Unix()).
		Order("expires_at desc").
		First(&t)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}

func (r *repository) DeleteByValue(ctx context.Context, value string) error {
	result := r.db.WithContext(ctx).Delete(&AuthToken{}, "token = ?", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&AuthToken{}, "expires_at <= ?", time.Now().Unix())
	return result.RowsAffected, result.Error
}
