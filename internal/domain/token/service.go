package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yeghor/habit-tracker-go/pkg/config"
	"github.com/yeghor/habit-tracker-go/pkg/security/auth"
)

// Issued is a token handed to a client.
type Issued struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Service issues, reuses and revokes bearer tokens. Logins get back the
// persisted token while it is still valid instead of minting a new one.
type Service interface {
	Issue(ctx context.Context, userID uuid.UUID, username string) (*Issued, error)
	IssueOrReuse(ctx context.Context, userID uuid.UUID, username string) (*Issued, error)
	Revoke(ctx context.Context, tokenString string) error
	SweepExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	cfg    config.AuthConfig
	logger *zap.Logger
}

func NewService(repo Repository, cfg config.AuthConfig, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *service) Issue(ctx context.Context, userID uuid.UUID, username string) (*Issued, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWTExpiryHours) * time.Hour)

	signed, err := auth.GenerateToken(userID, username, s.cfg.JWTSecret, s.cfg.JWTIssuer, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	record := &AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     signed,
		ExpiresAt: expiresAt.Unix(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	return &Issued{Token: signed, ExpiresAt: record.ExpiresAt}, nil
}

func (s *service) IssueOrReuse(ctx context.Context, userID uuid.UUID, username string) (*Issued, error) {
	existing, err := s.repo.FindValidByUserID(ctx, userID)
	if err == nil {
		return &Issued{Token: existing.Token, ExpiresAt: existing.ExpiresAt}, nil
	}
	if !errors.Is(err, ErrTokenNotFound) {
		return nil, fmt.Errorf("failed to look up existing token: %w", err)
	}

	return s.Issue(ctx, userID, username)
}

func (s *service) Revoke(ctx context.Context, tokenString string) error {
	if err := s.repo.DeleteByValue(ctx, tokenString); err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}

	// Blacklist until the token would have expired anyway, so a revoked but
	// cryptographically valid token can't keep authenticating.
	claims, err := auth.ValidateToken(tokenString, s.cfg.JWTSecret)
	if err == nil && claims.ExpiresAt != nil {
		auth.GetTokenBlacklist().AddToBlacklist(tokenString, claims.ExpiresAt.Time)
	}

	return nil
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return removed, fmt.Errorf("failed to sweep expired tokens: %w", err)
	}
	if removed > 0 {
		s.logger.Info("expired tokens swept", zap.Int64("removed", removed))
	}
	return removed, nil
}
