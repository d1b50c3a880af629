package service

import (
	"context"
	"time"

	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/models"
)

// UserLevelRepository defines guild-scoped access to user leveling records
type UserLevelRepository interface {
	// Get returns the user's record, or a zero record when none exists
	Get(ctx context.Context, discordID int64) (*models.UserLevel, error)

	// GetForUpdate creates the row if needed and locks it for the rest of the transaction
	GetForUpdate(ctx context.Context, discordID int64) (*models.UserLevel, error)

	// Upsert writes all fields of the record
	Upsert(ctx context.Context, record *models.UserLevel) error

	// AddXP increments xp only, leaving level untouched
	AddXP(ctx context.Context, discordID int64, amount int64) error

	// SetXP overwrites the record: xp=amount, level, messages and timestamp reset
	SetXP(ctx context.Context, discordID int64, amount int64) error

	// GetLeaderboard returns users ordered by xp descending
	GetLeaderboard(ctx context.Context, limit, offset int) ([]*models.LeaderboardEntry, error)

	// CountUsers returns the number of users with a record in the guild
	CountUsers(ctx context.Context) (int, error)

	// GetRank returns 1 + the number of users with strictly more xp
	GetRank(ctx context.Context, discordID int64) (int, error)
}

// GuildConfigRepository defines access to guild leveling configuration
type GuildConfigRepository interface {
	// GetOrCreate returns the guild's config, inserting defaults when absent
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Upsert writes all fields of the config
	Upsert(ctx context.Context, config *models.GuildConfig) error
}

// EventPublisher queues domain events for delivery after commit
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork groups repository calls into one transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserLevelRepository() UserLevelRepository
	GuildConfigRepository() GuildConfigRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates guild-scoped units of work
type UnitOfWorkFactory interface {
	CreateForGuild(guildID int64) UnitOfWork
}

// LevelingService awards message XP and serves rank, leaderboard and level role data
type LevelingService interface {
	// ShouldAward checks and reserves the cooldown slot for a user
	ShouldAward(ctx context.Context, guildID, discordID int64, now time.Time) (bool, error)

	// AwardMessageXP awards XP for one message. A nil result means the cooldown gated it.
	AwardMessageXP(ctx context.Context, guildID, discordID int64, messageLength int, now time.Time) (*models.AwardResult, error)

	// AddXP increments a user's XP for the addxp command
	AddXP(ctx context.Context, guildID, discordID int64, amount int64) (*models.XPAdjustment, error)

	// SetXP overwrites a user's record for the setxp command
	SetXP(ctx context.Context, guildID, discordID int64, amount int64) (*models.XPAdjustment, error)

	// GetStanding returns the user's record, rank and progress
	GetStanding(ctx context.Context, guildID, discordID int64) (*models.UserStanding, error)

	// GetLeaderboard returns one page of the guild leaderboard
	GetLeaderboard(ctx context.Context, guildID int64, page int) (*models.LeaderboardPage, error)

	// SetLevelRole maps a level threshold to a role
	SetLevelRole(ctx context.Context, guildID int64, level int, roleID int64) error

	// RemoveLevelRole removes the role mapped to a level threshold
	RemoveLevelRole(ctx context.Context, guildID int64, level int) error

	// ListLevelRoles returns the guild's level role mapping
	ListLevelRoles(ctx context.Context, guildID int64) (models.LevelRoles, error)
}

// GuildConfigService manages guild leveling configuration
type GuildConfigService interface {
	// GetConfig returns the guild's config, creating defaults on first access
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// UpdateConfig validates every provided field, then applies them together
	UpdateConfig(ctx context.Context, guildID int64, update ConfigUpdate) (*models.GuildConfig, error)
}
