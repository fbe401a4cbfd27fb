package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yeghor/habit-tracker-go/internal/domain/progression"
	"github.com/yeghor/habit-tracker-go/pkg/security/auth"
)

type memoryRepository struct {
	users map[uuid.UUID]*User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[uuid.UUID]*User)}
}

func (m *memoryRepository) Create(_ context.Context, u *User) error {
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *memoryRepository) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryRepository) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, progression.Curve{BaseXP: 50, GrowthRate: 1.5}, zap.NewNop())
}

func TestService_Register(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, 0, u.XP)
	assert.Equal(t, 1, u.Level)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
	assert.True(t, auth.CheckPassword("correct-horse", u.PasswordHash))
}

func TestService_RegisterValidation(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"Short username", RegisterInput{Username: "ab", Email: "a@b.com", Password: "long-enough"}},
		{"Bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "long-enough"}},
		{"Short password", RegisterInput{Username: "alice", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "alice@example.com", Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Authenticate(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Authenticate(context.Background(), "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown users fail the same way as bad passwords.
	_, err = svc.Authenticate(context.Background(), "nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_GetProfile(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	// 100 XP on the 50/1.5 curve: level 2, 50 into the level, 25 to go.
	stored := repo.users[u.ID]
	stored.XP = 100
	stored.Level = 2

	profile, err := svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.Progression.Level)
	assert.Equal(t, 50, profile.Progression.XPCurrentInLevel)
	assert.Equal(t, 75, profile.Progression.XPToNextLevel)
	assert.Equal(t, 25, profile.Progression.XPRemaining)
	assert.Equal(t, 100, profile.Progression.XPTotal)
}

func TestService_GetProfileRepairsLevelDrift(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	// A stale cached level must be corrected from the XP total on read.
	stored := repo.users[u.ID]
	stored.XP = 200
	stored.Level = 1

	profile, err := svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, profile.Progression.Level)
	assert.Equal(t, 3, repo.users[u.ID].Level)
}

func TestService_ChangeUsername(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	err = svc.ChangeUsername(context.Background(), u.ID, "alice")
	assert.ErrorIs(t, err, ErrSameUsername)

	err = svc.ChangeUsername(context.Background(), u.ID, "al")
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.ChangeUsername(context.Background(), u.ID, "alice2")
	require.NoError(t, err)
	assert.Equal(t, "alice2", repo.users[u.ID].Username)
}

func TestService_ChangePassword(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "wrong-old", "new-password-1")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), u.ID, "correct-horse", "correct-horse")
	assert.ErrorIs(t, err, ErrSamePassword)

	err = svc.ChangePassword(context.Background(), u.ID, "correct-horse", "new-password-1")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("new-password-1", repo.users[u.ID].PasswordHash))

	_, err = svc.Authenticate(context.Background(), "alice", "new-password-1")
	assert.NoError(t, err)
}
