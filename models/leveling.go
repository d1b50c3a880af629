package models

// Progress describes how far a user is through their current level
type Progress struct {
	Level            int
	XPIntoLevel      int64
	XPNeededForLevel int64
	PercentComplete  float64
}

// AwardResult is produced by a successful message award
type AwardResult struct {
	GuildID       int64
	DiscordID     int64
	OldLevel      int
	NewLevel      int
	XPGained      int64
	TotalXP       int64
	TotalMessages int64
	LeveledUp     bool
}

// XPAdjustmentKind identifies an administrative XP change
type XPAdjustmentKind string

const (
	XPAdjustmentAdd XPAdjustmentKind = "add"
	XPAdjustmentSet XPAdjustmentKind = "set"
)

// XPAdjustment summarises an administrative addxp or setxp call.
// Levels are derived from XP for display only.
type XPAdjustment struct {
	Kind     XPAdjustmentKind
	OldXP    int64
	NewXP    int64
	OldLevel int
	NewLevel int
	Amount   int64
}

// UserStanding is everything the rank command shows about a user
type UserStanding struct {
	Record   *UserLevel
	Rank     int
	Progress Progress
}
