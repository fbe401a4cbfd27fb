package habits

import (
	"sort"
	"strconv"
)

const secondsPerDay = 86400

// ResetSchedule maps a checkpoint time (seconds since midnight, kept as a
// string key for the jsonb column) to whether that checkpoint has already
// passed today. Marking a checkpoint never uncompletes the habit; only the
// daily full reset does that.
type ResetSchedule map[string]bool

// NewResetSchedule builds a schedule with every flag cleared. Times must be
// validated beforehand.
func NewResetSchedule(times []int) ResetSchedule {
	s := make(ResetSchedule, len(times))
	for _, t := range times {
		s[strconv.Itoa(t)] = false
	}
	return s
}

// ValidResetTimes reports whether the checkpoint set is non-empty, within
// [0, 86400) and free of duplicates.
func ValidResetTimes(times []int) bool {
	if len(times) == 0 {
		return false
	}
	seen := make(map[int]struct{}, len(times))
	for _, t := range times {
		if t < 0 || t >= secondsPerDay {
			return false
		}
		if _, dup := seen[t]; dup {
			return false
		}
		seen[t] = struct{}{}
	}
	return true
}

// Checkpoints returns the checkpoint times in ascending order.
func (s ResetSchedule) Checkpoints() []int {
	times := make([]int, 0, len(s))
	for key := range s {
		t, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	sort.Ints(times)
	return times
}

// MarkElapsed flips the flag of every checkpoint whose time has passed,
// returning how many flags changed. Already-marked checkpoints are left
// alone, so repeated calls within the same day are no-ops.
func (s ResetSchedule) MarkElapsed(nowSeconds int) int {
	changed := 0
	for key, passed := range s {
		t, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if t <= nowSeconds && !passed {
			s[key] = true
			changed++
		}
	}
	return changed
}

// Reset clears every checkpoint flag for the next daily cycle.
func (s ResetSchedule) Reset() {
	for key := range s {
		s[key] = false
	}
}

// AllElapsed reports whether every checkpoint has passed today.
func (s ResetSchedule) AllElapsed() bool {
	for _, passed := range s {
		if !passed {
			return false
		}
	}
	return len(s) > 0
}

// Clone returns an independent copy, needed before mutating a schedule that
// came out of a shared model value.
func (s ResetSchedule) Clone() ResetSchedule {
	out := make(ResetSchedule, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
