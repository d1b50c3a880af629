package models

import (
	"time"
)

// UserLevel is a user's leveling record within one guild.
// A missing row reads as the zero record.
type UserLevel struct {
	DiscordID     int64      `db:"discord_id"`
	GuildID       int64      `db:"guild_id"`
	XP            int64      `db:"xp"`
	Level         int        `db:"level"`
	TotalMessages int64      `db:"total_messages"`
	LastAwardAt   *time.Time `db:"last_award_at"` // nil when never awarded or after a reset
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// NewUserLevel returns the zero record for a user in a guild
func NewUserLevel(guildID, discordID int64) *UserLevel {
	return &UserLevel{
		DiscordID: discordID,
		GuildID:   guildID,
	}
}

// LeaderboardEntry is one ranked row of a guild leaderboard
type LeaderboardEntry struct {
	Rank          int   `db:"-"`
	DiscordID     int64 `db:"discord_id"`
	XP            int64 `db:"xp"`
	Level         int   `db:"level"`
	TotalMessages int64 `db:"total_messages"`
}

// LeaderboardPage is one page of the guild leaderboard
type LeaderboardPage struct {
	Entries    []*LeaderboardEntry
	Page       int
	TotalPages int
	TotalUsers int
}

// IsEmpty reports whether the guild has no ranked users at all
func (p *LeaderboardPage) IsEmpty() bool {
	return p.TotalUsers == 0
}
