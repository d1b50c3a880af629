package service

import (
	"math"

	"github.com/duskdeveloper/discord-level-bot/models"
)

const (
	// levelCurveFactor scales sqrt(xp) into a level: level = floor(0.1 * sqrt(xp))
	levelCurveFactor = 0.1

	maxLengthBonus     = 5
	lengthBonusDivisor = 10
	maxRandomBonus     = 5

	// MaxLevel is the highest level whose threshold fits in an int64
	MaxLevel = 303_700_049
)

var milestones = []int{5, 10, 25, 50, 75, 100, 150, 200, 300, 500, 750, 1000}

// LevelFromXP returns the level reached with xp. Negative xp is level 0.
func LevelFromXP(xp int64) int {
	if xp <= 0 {
		return 0
	}
	level := min(int(math.Floor(levelCurveFactor*math.Sqrt(float64(xp)))), MaxLevel)

	// Guard float rounding at exact thresholds.
	for level < MaxLevel && XPForLevel(level+1) <= xp {
		level++
	}
	for level > 0 && XPForLevel(level) > xp {
		level--
	}
	return level
}

// XPForLevel returns the xp at which level is first reached: 100 * level^2.
// Levels past MaxLevel saturate at math.MaxInt64.
func XPForLevel(level int) int64 {
	if level <= 0 {
		return 0
	}
	if level > MaxLevel {
		return math.MaxInt64
	}
	l := int64(level)
	return 100 * l * l
}

// CalculateProgress reports progress through the current level
func CalculateProgress(xp int64) models.Progress {
	if xp < 0 {
		xp = 0
	}
	level := LevelFromXP(xp)
	floor := XPForLevel(level)
	into := xp - floor

	// No next level past the cap
	var needed int64
	if level < MaxLevel {
		needed = XPForLevel(level+1) - floor
	}

	percent := 100.0
	if needed != 0 {
		percent = 100 * float64(into) / float64(needed)
	}

	return models.Progress{
		Level:            level,
		XPIntoLevel:      into,
		XPNeededForLevel: needed,
		PercentComplete:  percent,
	}
}

// LengthBonus is one xp per ten characters, capped at five
func LengthBonus(messageLength int) int64 {
	if messageLength <= 0 {
		return 0
	}
	return int64(min(messageLength/lengthBonusDivisor, maxLengthBonus))
}

// NextMilestone returns the next notable level above level
func NextMilestone(level int) int {
	for _, m := range milestones {
		if level < m {
			return m
		}
	}
	return (level/100 + 1) * 100
}
