package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "server:\n  mode: development\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Progression.BaseLevelXP)
	assert.Equal(t, 1.5, cfg.Progression.GrowthRate)
	assert.Equal(t, 10, cfg.Habits.XPAfterCompletion)
	assert.Equal(t, 3, cfg.Habits.XPRandomFactor)
	assert.Equal(t, 10, cfg.Habits.MaxHabits)
	assert.Equal(t, 600, cfg.Scheduler.TaskIntervalSeconds)
	assert.Equal(t, 0, cfg.Scheduler.HabitResettingHour)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
progression:
  base_level_xp: 100
  xp_growth_rate: 2.0
habits:
  xp_after_completion: 25
  max_habits: 5
scheduler:
  habit_resetting_hour: 4
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Progression.BaseLevelXP)
	assert.Equal(t, 2.0, cfg.Progression.GrowthRate)
	assert.Equal(t, 25, cfg.Habits.XPAfterCompletion)
	assert.Equal(t, 5, cfg.Habits.MaxHabits)
	assert.Equal(t, 4, cfg.Scheduler.HabitResettingHour)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "habits:\n  max_habits: 5\n")

	t.Setenv("MAX_HABITS", "7")
	t.Setenv("XP_GROWTH_RATE", "1.25")
	t.Setenv("HABIT_RESETTING_HOURS", "6")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Habits.MaxHabits)
	assert.Equal(t, 1.25, cfg.Progression.GrowthRate)
	assert.Equal(t, 6, cfg.Scheduler.HabitResettingHour)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Zero base XP", func(c *Config) { c.Progression.BaseLevelXP = 0 }},
		{"Shrinking growth rate", func(c *Config) { c.Progression.GrowthRate = 0.5 }},
		{"Zero random factor", func(c *Config) { c.Habits.XPRandomFactor = 0 }},
		{"Zero habit quota", func(c *Config) { c.Habits.MaxHabits = 0 }},
		{"Reset hour out of range", func(c *Config) { c.Scheduler.HabitResettingHour = 24 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Progression: ProgressionConfig{BaseLevelXP: 50, GrowthRate: 1.5},
				Habits:      HabitsConfig{XPAfterCompletion: 10, XPRandomFactor: 3, MaxHabits: 10},
				Scheduler:   SchedulerConfig{TaskIntervalSeconds: 600, HabitResettingHour: 0},
			}
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
