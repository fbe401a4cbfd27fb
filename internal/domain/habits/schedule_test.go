package habits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidResetTimes(t *testing.T) {
	tests := []struct {
		name  string
		times []int
		valid bool
	}{
		{"Single morning checkpoint", []int{8 * 3600}, true},
		{"Multiple checkpoints", []int{0, 12 * 3600, 20 * 3600}, true},
		{"Empty", []int{}, false},
		{"Nil", nil, false},
		{"Negative", []int{-1}, false},
		{"At day boundary", []int{86400}, false},
		{"Duplicate", []int{3600, 3600}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidResetTimes(tt.times))
		})
	}
}

func TestResetSchedule_MarkElapsed(t *testing.T) {
	schedule := NewResetSchedule([]int{6 * 3600, 12 * 3600, 18 * 3600})

	marked := schedule.MarkElapsed(13 * 3600)
	assert.Equal(t, 2, marked)
	assert.True(t, schedule["21600"])
	assert.True(t, schedule["43200"])
	assert.False(t, schedule["64800"])

	// Already-marked checkpoints are not counted again.
	marked = schedule.MarkElapsed(13 * 3600)
	assert.Equal(t, 0, marked)

	marked = schedule.MarkElapsed(18 * 3600)
	assert.Equal(t, 1, marked)
	assert.True(t, schedule.AllElapsed())
}

func TestResetSchedule_MarkElapsedExactBoundary(t *testing.T) {
	schedule := NewResetSchedule([]int{12 * 3600})

	// A checkpoint equal to the current moment counts as passed.
	assert.Equal(t, 1, schedule.MarkElapsed(12*3600))
	assert.True(t, schedule.AllElapsed())
}

func TestResetSchedule_Reset(t *testing.T) {
	schedule := NewResetSchedule([]int{3600, 7200})
	schedule.MarkElapsed(10000)
	require.True(t, schedule.AllElapsed())

	schedule.Reset()
	assert.False(t, schedule.AllElapsed())
	for _, passed := range schedule {
		assert.False(t, passed)
	}

	// Resetting a fresh schedule changes nothing.
	schedule.Reset()
	assert.Len(t, schedule, 2)
}

func TestResetSchedule_Checkpoints(t *testing.T) {
	schedule := NewResetSchedule([]int{20 * 3600, 0, 12 * 3600})

	assert.Equal(t, []int{0, 12 * 3600, 20 * 3600}, schedule.Checkpoints())
}

func TestResetSchedule_Clone(t *testing.T) {
	original := NewResetSchedule([]int{3600})
	clone := original.Clone()
	clone.MarkElapsed(7200)

	assert.True(t, clone.AllElapsed())
	assert.False(t, original.AllElapsed())
}
