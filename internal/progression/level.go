package progression

const (
	// XPPerWin is the experience gained per correct answer.
	XPPerWin = 10
	// MaxExp caps experience.
	MaxExp = 300
	// MaxLevel is the highest card level.
	MaxLevel = 4
)

// levelThresholds[i] is the experience needed to reach level i+2.
var levelThresholds = [MaxLevel - 1]int{50, 150, 300}

// LevelOf derives the level from experience.
func LevelOf(exp int) int {
	level := 1
	for i, th := range levelThresholds {
		if exp >= th {
			level = i + 2
		}
	}
	return level
}

// NextThreshold returns the experience needed for the next level, or 0 at
// MaxLevel.
func NextThreshold(level int) int {
	if level < 1 || level >= MaxLevel {
		return 0
	}
	return levelThresholds[level-1]
}

func clampExp(exp int) int {
	return min(max(exp, 0), MaxExp)
}
