package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID int64 = 987654321
	testUserID  int64 = 123456789
)

// fixedRandom always returns the same bonus
type fixedRandom int

func (f fixedRandom) IntN(n int) int {
	return int(f) % n
}

type levelingMocks struct {
	factory    *MockUnitOfWorkFactory
	uow        *MockUnitOfWork
	userRepo   *MockUserLevelRepository
	configRepo *MockGuildConfigRepository
	publisher  *MockEventPublisher
}

func newLevelingMocks() *levelingMocks {
	m := &levelingMocks{
		factory:    new(MockUnitOfWorkFactory),
		uow:        new(MockUnitOfWork),
		userRepo:   new(MockUserLevelRepository),
		configRepo: new(MockGuildConfigRepository),
		publisher:  new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.userRepo, m.configRepo, m.publisher)
	m.factory.On("CreateForGuild", testGuildID).Return(m.uow)
	return m
}

func (m *levelingMocks) assertExpectations(t *testing.T) {
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
	m.configRepo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestLevelingService_AwardMessageXP_FirstMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := newLevelingMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(models.NewGuildConfig(testGuildID), nil)
	m.userRepo.On("GetForUpdate", ctx, testUserID).Return(models.NewUserLevel(testGuildID, testUserID), nil)
	m.userRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.UserLevel) bool {
		return r.XP == 23 && r.Level == 0 && r.TotalMessages == 1 &&
			r.LastAwardAt != nil && r.LastAwardAt.Equal(now)
	})).Return(nil)

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), fixedRandom(3))
	result, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 100, now)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(23), result.XPGained, "15 base + 5 length (capped) + 3 random")
	assert.Equal(t, int64(23), result.TotalXP)
	assert.Equal(t, int64(1), result.TotalMessages)
	assert.Equal(t, 0, result.OldLevel)
	assert.Equal(t, 0, result.NewLevel)
	assert.False(t, result.LeveledUp)

	m.assertExpectations(t)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestLevelingService_AwardMessageXP_LevelUpPublishesEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := newLevelingMocks()

	existing := &models.UserLevel{DiscordID: testUserID, GuildID: testGuildID, XP: 2490, Level: 4, TotalMessages: 150}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(models.NewGuildConfig(testGuildID), nil)
	m.userRepo.On("GetForUpdate", ctx, testUserID).Return(existing, nil)
	m.userRepo.On("Upsert", ctx, mock.AnythingOfType("*models.UserLevel")).Return(nil)
	m.publisher.On("Publish", events.LevelUpEvent{
		GuildID:       testGuildID,
		UserID:        testUserID,
		OldLevel:      4,
		NewLevel:      5,
		TotalXP:       2505,
		TotalMessages: 151,
	}).Return()

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), fixedRandom(0))
	result, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 5, now)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(15), result.XPGained, "no length bonus for a five character message")
	assert.Equal(t, 4, result.OldLevel)
	assert.Equal(t, 5, result.NewLevel)
	assert.True(t, result.LeveledUp)

	m.assertExpectations(t)
}

func TestLevelingService_AwardMessageXP_CooldownGatesSecondMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := newLevelingMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(models.NewGuildConfig(testGuildID), nil)
	m.userRepo.On("GetForUpdate", ctx, testUserID).Return(models.NewUserLevel(testGuildID, testUserID), nil)
	m.userRepo.On("Upsert", ctx, mock.AnythingOfType("*models.UserLevel")).Return(nil)

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), fixedRandom(0))

	first, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 20, now)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 20, now.Add(59*time.Second))
	require.NoError(t, err)
	assert.Nil(t, second)

	third, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 20, now.Add(60*time.Second))
	require.NoError(t, err)
	assert.NotNil(t, third)

	m.userRepo.AssertNumberOfCalls(t, "Upsert", 2)
	m.uow.AssertNumberOfCalls(t, "Commit", 2)
}

func TestLevelingService_AwardMessageXP_ReservationSurvivesWriteFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := newLevelingMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(models.NewGuildConfig(testGuildID), nil)
	m.userRepo.On("GetForUpdate", ctx, testUserID).Return(models.NewUserLevel(testGuildID, testUserID), nil)
	m.userRepo.On("Upsert", ctx, mock.AnythingOfType("*models.UserLevel")).Return(errors.New("connection reset"))

	cooldowns := NewMemoryCooldownStore()
	svc := NewLevelingService(m.factory, cooldowns, fixedRandom(0))

	_, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 20, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	result, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 20, now.Add(time.Second))
	require.NoError(t, err)
	assert.Nil(t, result, "cooldown was reserved by the failed attempt")

	m.uow.AssertNotCalled(t, "Commit")
	m.userRepo.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestLevelingService_AwardMessageXP_UsesGuildConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now()
	m := newLevelingMocks()

	cfg := models.NewGuildConfig(testGuildID)
	cfg.XPPerMessage = 40
	cfg.XPCooldownSeconds = 0

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(cfg, nil)
	m.userRepo.On("GetForUpdate", ctx, testUserID).Return(models.NewUserLevel(testGuildID, testUserID), nil)
	m.userRepo.On("Upsert", ctx, mock.AnythingOfType("*models.UserLevel")).Return(nil)

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), fixedRandom(5))

	result, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 30, now)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(48), result.XPGained, "40 base + 3 length + 5 random")

	again, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 30, now)
	require.NoError(t, err)
	assert.NotNil(t, again, "zero cooldown never gates")
}

func TestLevelingService_AwardMessageXP_ConfigError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newLevelingMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(nil, errors.New("db down"))

	cooldowns := new(MockCooldownStore)
	svc := NewLevelingService(m.factory, cooldowns, fixedRandom(0))

	result, err := svc.AwardMessageXP(ctx, testGuildID, testUserID, 20, time.Now())
	require.Error(t, err)
	assert.Nil(t, result)
	cooldowns.AssertNotCalled(t, "TryReserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestLevelingService_ShouldAward(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m := newLevelingMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(models.NewGuildConfig(testGuildID), nil)

	cooldowns := NewMemoryCooldownStore()
	svc := NewLevelingService(m.factory, cooldowns, nil)

	ok, err := svc.ShouldAward(ctx, testGuildID, testUserID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ShouldAward(ctx, testGuildID, testUserID, now.Add(10*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)

	last, found := cooldowns.LastAward(CooldownKey{GuildID: testGuildID, DiscordID: testUserID})
	require.True(t, found)
	assert.Equal(t, now, last)
}

func TestLevelingService_AddXP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newLevelingMocks()

	before := &models.UserLevel{DiscordID: testUserID, GuildID: testGuildID, XP: 100, Level: 1, TotalMessages: 10}
	after := &models.UserLevel{DiscordID: testUserID, GuildID: testGuildID, XP: 600, Level: 1, TotalMessages: 10}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("Get", ctx, testUserID).Return(before, nil).Once()
	m.userRepo.On("AddXP", ctx, testUserID, int64(500)).Return(nil)
	m.userRepo.On("Get", ctx, testUserID).Return(after, nil).Once()
	m.publisher.On("Publish", events.XPAdjustedEvent{
		GuildID: testGuildID,
		UserID:  testUserID,
		Kind:    models.XPAdjustmentAdd,
		OldXP:   100,
		NewXP:   600,
	}).Return()

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), nil)
	adj, err := svc.AddXP(ctx, testGuildID, testUserID, 500)

	require.NoError(t, err)
	assert.Equal(t, int64(100), adj.OldXP)
	assert.Equal(t, int64(600), adj.NewXP)
	assert.Equal(t, 1, adj.OldLevel)
	assert.Equal(t, 2, adj.NewLevel)
	m.assertExpectations(t)
	m.userRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLevelingService_AdminAmountValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		call    func(svc LevelingService) error
		wantErr error
	}{
		{"add zero", func(svc LevelingService) error {
			_, err := svc.AddXP(context.Background(), testGuildID, testUserID, 0)
			return err
		}, ErrNonPositiveXP},
		{"add negative", func(svc LevelingService) error {
			_, err := svc.AddXP(context.Background(), testGuildID, testUserID, -10)
			return err
		}, ErrNonPositiveXP},
		{"add too much", func(svc LevelingService) error {
			_, err := svc.AddXP(context.Background(), testGuildID, testUserID, MaxAdminXP+1)
			return err
		}, ErrXPTooLarge},
		{"set negative", func(svc LevelingService) error {
			_, err := svc.SetXP(context.Background(), testGuildID, testUserID, -1)
			return err
		}, ErrNegativeXP},
		{"set too much", func(svc LevelingService) error {
			_, err := svc.SetXP(context.Background(), testGuildID, testUserID, MaxAdminXP+1)
			return err
		}, ErrXPTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			factory := new(MockUnitOfWorkFactory)
			svc := NewLevelingService(factory, NewMemoryCooldownStore(), nil)

			err := tt.call(svc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.NotEmpty(t, ve.Message)
			factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
		})
	}
}

func TestLevelingService_SetXP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newLevelingMocks()

	before := &models.UserLevel{DiscordID: testUserID, GuildID: testGuildID, XP: 12000, Level: 10, TotalMessages: 400}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("Get", ctx, testUserID).Return(before, nil)
	m.userRepo.On("SetXP", ctx, testUserID, int64(0)).Return(nil)
	m.publisher.On("Publish", mock.AnythingOfType("events.XPAdjustedEvent")).Return()

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), nil)
	adj, err := svc.SetXP(ctx, testGuildID, testUserID, 0)

	require.NoError(t, err)
	assert.Equal(t, 10, adj.OldLevel)
	assert.Equal(t, 0, adj.NewLevel)
	assert.Equal(t, int64(0), adj.NewXP)
	m.assertExpectations(t)
}

func TestLevelingService_GetStanding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newLevelingMocks()

	record := &models.UserLevel{DiscordID: testUserID, GuildID: testGuildID, XP: 2750, Level: 5, TotalMessages: 90}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("Get", ctx, testUserID).Return(record, nil)
	m.userRepo.On("GetRank", ctx, testUserID).Return(3, nil)

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), nil)
	standing, err := svc.GetStanding(ctx, testGuildID, testUserID)

	require.NoError(t, err)
	assert.Equal(t, 3, standing.Rank)
	assert.Same(t, record, standing.Record)
	assert.Equal(t, 5, standing.Progress.Level)
	assert.Equal(t, int64(250), standing.Progress.XPIntoLevel)
	m.assertExpectations(t)
}

func TestLevelingService_GetLeaderboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		page           int
		total          int
		expectedPage   int
		expectedOffset int
		expectedPages  int
	}{
		{"page zero clamps to one", 0, 25, 1, 0, 3},
		{"negative page clamps to one", -4, 5, 1, 0, 1},
		{"third page", 3, 25, 3, 20, 3},
		{"exact multiple", 2, 20, 2, 10, 2},
		{"empty guild", 1, 0, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			m := newLevelingMocks()

			entries := []*models.LeaderboardEntry{
				{DiscordID: 1, XP: 900},
				{DiscordID: 2, XP: 800},
			}
			if tt.total == 0 {
				entries = []*models.LeaderboardEntry{}
			}

			m.uow.On("Begin", ctx).Return(nil)
			m.uow.On("Rollback").Return(nil)
			m.userRepo.On("CountUsers", ctx).Return(tt.total, nil)
			m.userRepo.On("GetLeaderboard", ctx, LeaderboardPageSize, tt.expectedOffset).Return(entries, nil)

			svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), nil)
			page, err := svc.GetLeaderboard(ctx, testGuildID, tt.page)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPage, page.Page)
			assert.Equal(t, tt.expectedPages, page.TotalPages)
			assert.Equal(t, tt.total == 0, page.IsEmpty())
			for i, entry := range page.Entries {
				assert.Equal(t, tt.expectedOffset+i+1, entry.Rank)
			}
			m.assertExpectations(t)
		})
	}
}

func TestLevelingService_SetLevelRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newLevelingMocks()

	cfg := models.NewGuildConfig(testGuildID)
	cfg.LevelRoles = models.LevelRoles{5: 111}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(cfg, nil)
	m.configRepo.On("Upsert", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return len(c.LevelRoles) == 2 && c.LevelRoles[5] == 111 && c.LevelRoles[10] == 222
	})).Return(nil)

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), nil)
	require.NoError(t, svc.SetLevelRole(ctx, testGuildID, 10, 222))
	m.assertExpectations(t)
}

func TestLevelingService_SetLevelRole_Validation(t *testing.T) {
	t.Parallel()
	factory := new(MockUnitOfWorkFactory)
	svc := NewLevelingService(factory, NewMemoryCooldownStore(), nil)

	err := svc.SetLevelRole(context.Background(), testGuildID, 0, 222)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	err = svc.SetLevelRole(context.Background(), testGuildID, 5, 0)
	assert.ErrorIs(t, err, ErrInvalidRole)

	factory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
}

func TestLevelingService_RemoveLevelRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newLevelingMocks()

	cfg := models.NewGuildConfig(testGuildID)
	cfg.LevelRoles = models.LevelRoles{5: 111, 10: 222}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(cfg, nil)
	m.configRepo.On("Upsert", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		_, stillThere := c.LevelRoles[5]
		return len(c.LevelRoles) == 1 && !stillThere
	})).Return(nil)

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), nil)
	require.NoError(t, svc.RemoveLevelRole(ctx, testGuildID, 5))
	m.assertExpectations(t)
}

func TestLevelingService_ListLevelRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newLevelingMocks()

	cfg := models.NewGuildConfig(testGuildID)
	cfg.LevelRoles = models.LevelRoles{25: 333, 5: 111}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.configRepo.On("GetOrCreate", ctx, testGuildID).Return(cfg, nil)

	svc := NewLevelingService(m.factory, NewMemoryCooldownStore(), nil)
	roles, err := svc.ListLevelRoles(ctx, testGuildID)

	require.NoError(t, err)
	assert.Equal(t, []int{5, 25}, roles.Levels())
	m.assertExpectations(t)
}
