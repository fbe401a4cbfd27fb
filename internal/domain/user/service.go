package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yeghor/habit-tracker-go/internal/domain/progression"
	"github.com/yeghor/habit-tracker-go/pkg/security/auth"
)

var (
	ErrUserExists         = errors.New("user with this username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid username, email or password")
	ErrSameUsername       = errors.New("new username can't be the same as the old one")
	ErrSamePassword       = errors.New("new password can't be the same as the current one")
	ErrWrongPassword      = errors.New("old password didn't match")
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

// Profile is the user plus the derived progression breakdown.
type Profile struct {
	User        *User
	Progression progression.Progress
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	ChangeUsername(ctx context.Context, id uuid.UUID, newUsername string) error
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
}

type service struct {
	repo   Repository
	curve  progression.Curve
	logger *zap.Logger
}

func NewService(repo Repository, curve progression.Curve, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		curve:  curve,
		logger: logger,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if !validUsername(input.Username) || !validEmail(input.Email) || !validPassword(input.Password) {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		XP:           0,
		Level:        1,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("username", u.Username))

	return u, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetProfile recomputes the level cache from the XP total on every read, so
// stored level drift can never reach a caller.
func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	progress := s.curve.ProgressForXP(u.XP)
	if u.Level != progress.Level {
		u.Level = progress.Level
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to refresh level cache: %w", err)
		}
	}

	return &Profile{User: u, Progression: progress}, nil
}

func (s *service) ChangeUsername(ctx context.Context, id uuid.UUID, newUsername string) error {
	if !validUsername(newUsername) {
		return ErrInvalidInput
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Username == newUsername {
		return ErrSameUsername
	}

	u.Username = newUsername
	return s.repo.Update(ctx, u)
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	if !validPassword(newPassword) {
		return ErrInvalidInput
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(oldPassword, u.PasswordHash) {
		return ErrWrongPassword
	}
	if auth.CheckPassword(newPassword, u.PasswordHash) {
		return ErrSamePassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}

func validUsername(username string) bool {
	return len(username) >= minUsernameLength && len(username) <= maxUsernameLength
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && len(email) <= 255
}

func validPassword(password string) bool {
	return len(password) >= minPasswordLength && len(password) <= maxPasswordLength
}
