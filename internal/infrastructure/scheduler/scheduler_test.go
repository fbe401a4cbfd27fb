package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDailyRun(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		hour     int
		expected time.Time
	}{
		{
			name:     "Before the hour runs today",
			now:      time.Date(2024, 3, 10, 1, 30, 0, 0, time.UTC),
			hour:     4,
			expected: time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC),
		},
		{
			name:     "After the hour runs tomorrow",
			now:      time.Date(2024, 3, 10, 5, 0, 1, 0, time.UTC),
			hour:     4,
			expected: time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC),
		},
		{
			name:     "Exactly on the hour runs tomorrow",
			now:      time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC),
			hour:     4,
			expected: time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC),
		},
		{
			name:     "Midnight hour",
			now:      time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC),
			hour:     0,
			expected: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nextDailyRun(tt.now, tt.hour))
		})
	}
}
