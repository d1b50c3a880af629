package common

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber formats an integer with thousand separators
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	str := strconv.FormatInt(n, 10)
	digits := len(str)
	if digits <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (digits-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatCompact formats a number in compact form (e.g. 1.2K, 3.4M)
func FormatCompact(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// ProgressBar renders a fixed-width text bar followed by the percentage
// with one decimal, e.g. "`██████░░░░░░░░░░░░░░` 30.0%"
func ProgressBar(percent float64) string {
	percent = min(max(percent, 0), 100)
	filled := int(float64(ProgressBarCells) * percent / 100)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", ProgressBarCells-filled)
	return fmt.Sprintf("`%s` %.1f%%", bar, percent)
}

// LevelColor returns the embed color for a level's tier
func LevelColor(level int) int {
	tier := max(level, 0) / 10
	if tier >= len(levelTierColors) {
		tier = len(levelTierColors) - 1
	}
	return levelTierColors[tier]
}

// FormatMedal returns the leaderboard prefix for a rank
func FormatMedal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("**%d.**", rank)
	}
}
