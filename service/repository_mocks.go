package service

import (
	"context"
	"time"

	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/stretchr/testify/mock"
)

// MockUserLevelRepository is a mock implementation of UserLevelRepository
type MockUserLevelRepository struct {
	mock.Mock
}

func (m *MockUserLevelRepository) Get(ctx context.Context, discordID int64) (*models.UserLevel, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserLevel), args.Error(1)
}

func (m *MockUserLevelRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.UserLevel, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserLevel), args.Error(1)
}

func (m *MockUserLevelRepository) Upsert(ctx context.Context, record *models.UserLevel) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUserLevelRepository) AddXP(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockUserLevelRepository) SetXP(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockUserLevelRepository) GetLeaderboard(ctx context.Context, limit, offset int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockUserLevelRepository) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserLevelRepository) GetRank(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userLevelRepo   UserLevelRepository
	guildConfigRepo GuildConfigRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(userLevelRepo UserLevelRepository, guildConfigRepo GuildConfigRepository, eventBus EventPublisher) {
	m.userLevelRepo = userLevelRepo
	m.guildConfigRepo = guildConfigRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserLevelRepository() UserLevelRepository {
	return m.userLevelRepo
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	args := m.Called(guildID)
	return args.Get(0).(UnitOfWork)
}

// MockCooldownStore is a mock implementation of CooldownStore
type MockCooldownStore struct {
	mock.Mock
}

func (m *MockCooldownStore) TryReserve(key CooldownKey, now time.Time, cooldown time.Duration) bool {
	args := m.Called(key, now, cooldown)
	return args.Bool(0)
}
