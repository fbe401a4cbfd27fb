package progression

// Curve maps cumulative experience points to levels and back. Costs grow
// geometrically: advancing from level n to n+1 costs
// floor(BaseXP * GrowthRate^(n-1)).
type Curve struct {
	BaseXP     int
	GrowthRate float64
}

func NewCurve(baseXP int, growthRate float64) Curve {
	return Curve{BaseXP: baseXP, GrowthRate: growthRate}
}

// Cost returns the XP required to advance from level to level+1.
// Level 0 is a sentinel meaning "zero cost"; it keeps the progress math for
// level 1 uniform.
func (c Curve) Cost(level int) int {
	if level <= 0 {
		return 0
	}
	if level == 1 {
		return c.BaseXP
	}

	// Repeated multiplication truncated once at the end. The order matters:
	// multiplying first and flooring last is what produces cost(3)=112 for
	// base 50 and rate 1.5, not 111.
	cost := float64(c.BaseXP)
	for i := 2; i <= level; i++ {
		cost *= c.GrowthRate
	}
	return int(cost)
}

// LevelForXP returns the level a cumulative XP total corresponds to, and the
// XP still missing to reach the next level. The loop breaks on a strict
// comparison, so an XP total sitting exactly on a cumulative boundary has
// already advanced to the next level.
func (c Curve) LevelForXP(xp int) (level int, remaining int) {
	if xp < 0 {
		xp = 0
	}

	level = 1
	total := 0
	for {
		needed := c.Cost(level)
		if xp < total+needed {
			break
		}
		total += needed
		level++
	}

	remaining = total + c.Cost(level) - xp
	return level, remaining
}

// TotalCostThrough returns the cumulative XP threshold at the end of level,
// i.e. the sum of Cost(1..level).
func (c Curve) TotalCostThrough(level int) int {
	total := 0
	for i := 1; i <= level; i++ {
		total += c.Cost(i)
	}
	return total
}

// Progress describes a user's position on the curve, derived from nothing
// but the cumulative XP total. It is recomputed on every read and never
// persisted on its own.
type Progress struct {
	Level            int `json:"level"`
	XPCurrentInLevel int `json:"xp_current_in_level"`
	XPToNextLevel    int `json:"xp_to_next_level"`
	XPRemaining      int `json:"next_level_xp_remaining"`
	XPTotal          int `json:"xp_total"`
}

// ProgressForXP expands a cumulative XP total into the display breakdown.
func (c Curve) ProgressForXP(xp int) Progress {
	level, remaining := c.LevelForXP(xp)
	toNext := c.Cost(level)

	return Progress{
		Level:            level,
		XPCurrentInLevel: toNext - remaining,
		XPToNextLevel:    toNext,
		XPRemaining:      remaining,
		XPTotal:          xp,
	}
}
