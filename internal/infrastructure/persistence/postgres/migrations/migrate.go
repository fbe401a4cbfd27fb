package migrations

import (
	"fmt"

	"github.com/yeghor/habit-tracker-go/internal/domain/habits"
	"github.com/yeghor/habit-tracker-go/internal/domain/token"
	"github.com/yeghor/habit-tracker-go/internal/domain/user"
	"github.com/yeghor/habit-tracker-go/internal/infrastructure/persistence/postgres/connection"
)

// Migrate brings the schema up to date for every domain model.
func Migrate(db *connection.Database) error {
	models := []interface{}{
		&user.User{},
		&habits.Habit{},
		&habits.CompletionRecord{},
		&token.AuthToken{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
