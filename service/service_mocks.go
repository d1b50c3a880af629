package service

import (
	"context"
	"time"

	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/stretchr/testify/mock"
)

// MockLevelingService is a mock implementation of LevelingService
type MockLevelingService struct {
	mock.Mock
}

func (m *MockLevelingService) ShouldAward(ctx context.Context, guildID, discordID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, guildID, discordID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockLevelingService) AwardMessageXP(ctx context.Context, guildID, discordID int64, messageLength int, now time.Time) (*models.AwardResult, error) {
	args := m.Called(ctx, guildID, discordID, messageLength, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AwardResult), args.Error(1)
}

func (m *MockLevelingService) AddXP(ctx context.Context, guildID, discordID int64, amount int64) (*models.XPAdjustment, error) {
	args := m.Called(ctx, guildID, discordID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.XPAdjustment), args.Error(1)
}

func (m *MockLevelingService) SetXP(ctx context.Context, guildID, discordID int64, amount int64) (*models.XPAdjustment, error) {
	args := m.Called(ctx, guildID, discordID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.XPAdjustment), args.Error(1)
}

func (m *MockLevelingService) GetStanding(ctx context.Context, guildID, discordID int64) (*models.UserStanding, error) {
	args := m.Called(ctx, guildID, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStanding), args.Error(1)
}

func (m *MockLevelingService) GetLeaderboard(ctx context.Context, guildID int64, page int) (*models.LeaderboardPage, error) {
	args := m.Called(ctx, guildID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LeaderboardPage), args.Error(1)
}

func (m *MockLevelingService) SetLevelRole(ctx context.Context, guildID int64, level int, roleID int64) error {
	args := m.Called(ctx, guildID, level, roleID)
	return args.Error(0)
}

func (m *MockLevelingService) RemoveLevelRole(ctx context.Context, guildID int64, level int) error {
	args := m.Called(ctx, guildID, level)
	return args.Error(0)
}

func (m *MockLevelingService) ListLevelRoles(ctx context.Context, guildID int64) (models.LevelRoles, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.LevelRoles), args.Error(1)
}

// MockGuildConfigService is a mock implementation of GuildConfigService
type MockGuildConfigService struct {
	mock.Mock
}

func (m *MockGuildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigService) UpdateConfig(ctx context.Context, guildID int64, update ConfigUpdate) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}
