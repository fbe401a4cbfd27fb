package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCost(t *testing.T) {
	curve := NewCurve(50, 1.5)

	tests := []struct {
		name     string
		level    int
		expected int
	}{
		{name: "Level 0 sentinel is free", level: 0, expected: 0},
		{name: "Negative level is free", level: -3, expected: 0},
		{name: "Level 1 costs the base", level: 1, expected: 50},
		{name: "Level 2", level: 2, expected: 75},
		{name: "Level 3 truncates 112.5 down", level: 3, expected: 112},
		{name: "Level 4 truncates 168.75 down", level: 4, expected: 168},
		{name: "Level 5", level: 5, expected: 253},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, curve.Cost(tt.level))
		})
	}
}

func TestLevelForXP(t *testing.T) {
	curve := NewCurve(50, 1.5)

	tests := []struct {
		name              string
		xp                int
		expectedLevel     int
		expectedRemaining int
	}{
		{name: "Zero XP is level 1 with full cost remaining", xp: 0, expectedLevel: 1, expectedRemaining: 50},
		{name: "Negative XP clamps to zero", xp: -10, expectedLevel: 1, expectedRemaining: 50},
		{name: "One short of level 2", xp: 49, expectedLevel: 1, expectedRemaining: 1},
		{name: "Exact boundary advances the level", xp: 50, expectedLevel: 2, expectedRemaining: 75},
		{name: "Mid level 2", xp: 100, expectedLevel: 2, expectedRemaining: 25},
		{name: "One short of level 3", xp: 124, expectedLevel: 2, expectedRemaining: 1},
		{name: "Level 3 boundary", xp: 125, expectedLevel: 3, expectedRemaining: 112},
		{name: "Level 4 boundary", xp: 237, expectedLevel: 4, expectedRemaining: 168},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, remaining := curve.LevelForXP(tt.xp)
			assert.Equal(t, tt.expectedLevel, level)
			assert.Equal(t, tt.expectedRemaining, remaining)
		})
	}
}

func TestLevelForXPIsMonotonic(t *testing.T) {
	curve := NewCurve(50, 1.5)

	prevLevel := 0
	for xp := 0; xp <= 5000; xp++ {
		level, remaining := curve.LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prevLevel, "level regressed at xp=%d", xp)
		assert.Greater(t, remaining, 0, "remaining must stay positive at xp=%d", xp)
		assert.LessOrEqual(t, remaining, curve.Cost(level), "remaining exceeds level cost at xp=%d", xp)
		prevLevel = level
	}
}

func TestLevelForXPBoundaryMatchesTotalCost(t *testing.T) {
	curve := NewCurve(50, 1.5)

	for lvl := 1; lvl <= 15; lvl++ {
		threshold := curve.TotalCostThrough(lvl)

		// Reaching the cumulative threshold of a level lands on the next one
		// with its full cost outstanding.
		level, remaining := curve.LevelForXP(threshold)
		assert.Equal(t, lvl+1, level)
		assert.Equal(t, curve.Cost(lvl+1), remaining)

		// One XP below the threshold still belongs to the lower level.
		level, remaining = curve.LevelForXP(threshold - 1)
		assert.Equal(t, lvl, level)
		assert.Equal(t, 1, remaining)
	}
}

func TestTotalCostThrough(t *testing.T) {
	curve := NewCurve(50, 1.5)

	assert.Equal(t, 0, curve.TotalCostThrough(0))
	assert.Equal(t, 50, curve.TotalCostThrough(1))
	assert.Equal(t, 125, curve.TotalCostThrough(2))
	assert.Equal(t, 237, curve.TotalCostThrough(3))
}

func TestProgressForXP(t *testing.T) {
	curve := NewCurve(50, 1.5)

	tests := []struct {
		name     string
		xp       int
		expected Progress
	}{
		{
			name: "Fresh user",
			xp:   0,
			expected: Progress{
				Level:            1,
				XPCurrentInLevel: 0,
				XPToNextLevel:    50,
				XPRemaining:      50,
				XPTotal:          0,
			},
		},
		{
			name: "Partway through level 2",
			xp:   100,
			expected: Progress{
				Level:            2,
				XPCurrentInLevel: 50,
				XPToNextLevel:    75,
				XPRemaining:      25,
				XPTotal:          100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, curve.ProgressForXP(tt.xp))
		})
	}
}

func TestFlatGrowthRate(t *testing.T) {
	// Rate 1.0 degenerates into a linear curve.
	curve := NewCurve(100, 1.0)

	assert.Equal(t, 100, curve.Cost(7))

	level, remaining := curve.LevelForXP(950)
	assert.Equal(t, 10, level)
	assert.Equal(t, 50, remaining)
}
