package testutil

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/duskdeveloper/discord-level-bot/models"
)

// RandomSnowflake returns a plausible Discord snowflake ID
func RandomSnowflake() int64 {
	return int64(gofakeit.IntRange(100_000_000_000_000_000, 999_999_999_999_999_999))
}

// CreateTestUserLevel creates a user level record with random progress
func CreateTestUserLevel(guildID, discordID int64) *models.UserLevel {
	xp := int64(gofakeit.IntRange(0, 50_000))
	lastAward := time.Now().UTC().Truncate(time.Microsecond)
	return &models.UserLevel{
		DiscordID:     discordID,
		GuildID:       guildID,
		XP:            xp,
		Level:         gofakeit.IntRange(0, 22),
		TotalMessages: int64(gofakeit.IntRange(1, 5_000)),
		LastAwardAt:   &lastAward,
	}
}

// CreateTestUserLevelWithXP creates a user level record with a fixed xp total
func CreateTestUserLevelWithXP(guildID, discordID, xp int64) *models.UserLevel {
	record := CreateTestUserLevel(guildID, discordID)
	record.XP = xp
	return record
}

// CreateTestGuildConfig creates a guild config with random valid settings
func CreateTestGuildConfig(guildID int64) *models.GuildConfig {
	channelID := RandomSnowflake()
	return &models.GuildConfig{
		GuildID:              guildID,
		XPPerMessage:         gofakeit.IntRange(1, 100),
		XPCooldownSeconds:    gofakeit.IntRange(0, 3600),
		LevelUpChannelID:     &channelID,
		LevelRoles:           models.LevelRoles{5: RandomSnowflake(), 10: RandomSnowflake()},
		AnnouncementsEnabled: gofakeit.Bool(),
	}
}
