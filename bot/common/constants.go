package common

// Discord color constants
const (
	ColorSuccess = 0x00FF00
	ColorInfo    = 0x3498DB
	ColorGold    = 0xFFD700
	ColorRoles   = 0x9B59B6
	ColorError   = 0xED4245
)

// Level tier colors, one per decade of levels. Tiers past the last reuse it.
var levelTierColors = []int{
	0x95A5A6, // grey, levels 0-9
	0x3498DB, // blue
	0x2ECC71, // green
	0xF39C12, // orange
	0xE74C3C, // red
	0x9B59B6, // purple
	0xFFD700, // gold, levels 60+
}

// UI constants
const (
	ProgressBarCells = 20
	LeaderboardSize  = 10
)
