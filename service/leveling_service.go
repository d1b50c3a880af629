package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/models"
)

// LeaderboardPageSize is the number of entries shown per leaderboard page
const LeaderboardPageSize = 10

// RandomSource returns a uniform integer in [0, n)
type RandomSource interface {
	IntN(n int) int
}

// globalRandom uses the goroutine-safe top-level math/rand/v2 source
type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// levelingService implements the LevelingService interface
type levelingService struct {
	uowFactory UnitOfWorkFactory
	cooldowns  CooldownStore
	random     RandomSource
}

// NewLevelingService creates a leveling service. The cooldown store is owned
// by the caller so one instance can be shared by every handler. A nil random
// source uses math/rand/v2.
func NewLevelingService(uowFactory UnitOfWorkFactory, cooldowns CooldownStore, random RandomSource) LevelingService {
	if random == nil {
		random = globalRandom{}
	}
	return &levelingService{
		uowFactory: uowFactory,
		cooldowns:  cooldowns,
		random:     random,
	}
}

// ShouldAward reads the guild cooldown and reserves the slot if it is free
func (s *levelingService) ShouldAward(ctx context.Context, guildID, discordID int64, now time.Time) (bool, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to get guild config: %w", err)
	}

	allowed := s.reserve(guildID, discordID, now, cfg)

	if err := uow.Commit(); err != nil {
		return allowed, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return allowed, nil
}

func (s *levelingService) reserve(guildID, discordID int64, now time.Time, cfg *models.GuildConfig) bool {
	return s.cooldowns.TryReserve(CooldownKey{GuildID: guildID, DiscordID: discordID}, now, cfg.Cooldown())
}

// AwardMessageXP gates on the cooldown, then applies the award under a row lock
func (s *levelingService) AwardMessageXP(ctx context.Context, guildID, discordID int64, messageLength int, now time.Time) (*models.AwardResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	// The reservation stands even if the write below fails.
	if !s.reserve(guildID, discordID, now, cfg) {
		return nil, nil
	}

	gained := int64(cfg.XPPerMessage) + LengthBonus(messageLength) + int64(s.random.IntN(maxRandomBonus+1))

	repo := uow.UserLevelRepository()
	record, err := repo.GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user level for user %d: %w", discordID, err)
	}

	oldLevel := record.Level
	record.XP += gained
	record.Level = LevelFromXP(record.XP)
	record.TotalMessages++
	awardedAt := now.UTC()
	record.LastAwardAt = &awardedAt

	if err := repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update user level for user %d: %w", discordID, err)
	}

	result := &models.AwardResult{
		GuildID:       guildID,
		DiscordID:     discordID,
		OldLevel:      oldLevel,
		NewLevel:      record.Level,
		XPGained:      gained,
		TotalXP:       record.XP,
		TotalMessages: record.TotalMessages,
		LeveledUp:     record.Level > oldLevel,
	}

	if result.LeveledUp {
		uow.EventBus().Publish(events.LevelUpEvent{
			GuildID:       guildID,
			UserID:        discordID,
			OldLevel:      oldLevel,
			NewLevel:      record.Level,
			TotalXP:       record.XP,
			TotalMessages: record.TotalMessages,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// AddXP increments xp only. The stored level is left as is and catches up
// on the user's next message award.
func (s *levelingService) AddXP(ctx context.Context, guildID, discordID int64, amount int64) (*models.XPAdjustment, error) {
	if err := validateAddAmount(amount); err != nil {
		return nil, err
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.UserLevelRepository()
	before, err := repo.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user level for user %d: %w", discordID, err)
	}

	if err := repo.AddXP(ctx, discordID, amount); err != nil {
		return nil, fmt.Errorf("failed to add xp for user %d: %w", discordID, err)
	}

	after, err := repo.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user level for user %d: %w", discordID, err)
	}

	uow.EventBus().Publish(events.XPAdjustedEvent{
		GuildID: guildID,
		UserID:  discordID,
		Kind:    models.XPAdjustmentAdd,
		OldXP:   before.XP,
		NewXP:   after.XP,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.XPAdjustment{
		Kind:     models.XPAdjustmentAdd,
		OldXP:    before.XP,
		NewXP:    after.XP,
		OldLevel: LevelFromXP(before.XP),
		NewLevel: LevelFromXP(after.XP),
		Amount:   amount,
	}, nil
}

// SetXP overwrites the user's record. Roles are not reconciled here, only on
// the next level-up.
func (s *levelingService) SetXP(ctx context.Context, guildID, discordID int64, amount int64) (*models.XPAdjustment, error) {
	if err := validateSetAmount(amount); err != nil {
		return nil, err
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.UserLevelRepository()
	before, err := repo.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user level for user %d: %w", discordID, err)
	}

	if err := repo.SetXP(ctx, discordID, amount); err != nil {
		return nil, fmt.Errorf("failed to set xp for user %d: %w", discordID, err)
	}

	uow.EventBus().Publish(events.XPAdjustedEvent{
		GuildID: guildID,
		UserID:  discordID,
		Kind:    models.XPAdjustmentSet,
		OldXP:   before.XP,
		NewXP:   amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.XPAdjustment{
		Kind:     models.XPAdjustmentSet,
		OldXP:    before.XP,
		NewXP:    amount,
		OldLevel: LevelFromXP(before.XP),
		NewLevel: LevelFromXP(amount),
		Amount:   amount,
	}, nil
}

// GetStanding returns the user's record, rank and level progress
func (s *levelingService) GetStanding(ctx context.Context, guildID, discordID int64) (*models.UserStanding, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.UserLevelRepository()
	record, err := repo.Get(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user level for user %d: %w", discordID, err)
	}

	rank, err := repo.GetRank(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank for user %d: %w", discordID, err)
	}

	return &models.UserStanding{
		Record:   record,
		Rank:     rank,
		Progress: CalculateProgress(record.XP),
	}, nil
}

// GetLeaderboard returns one page of ranked users. Pages below 1 are clamped to 1.
func (s *levelingService) GetLeaderboard(ctx context.Context, guildID int64, page int) (*models.LeaderboardPage, error) {
	page = max(page, 1)

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.UserLevelRepository()
	total, err := repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (page - 1) * LeaderboardPageSize
	entries, err := repo.GetLeaderboard(ctx, LeaderboardPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	for i, entry := range entries {
		entry.Rank = offset + i + 1
	}

	return &models.LeaderboardPage{
		Entries:    entries,
		Page:       page,
		TotalPages: (total + LeaderboardPageSize - 1) / LeaderboardPageSize,
		TotalUsers: total,
	}, nil
}

// SetLevelRole maps level to roleID, replacing any existing mapping for that level
func (s *levelingService) SetLevelRole(ctx context.Context, guildID int64, level int, roleID int64) error {
	if err := validateLevel(level); err != nil {
		return err
	}
	if roleID <= 0 {
		return newValidationError("role", ErrInvalidRole, "Level and role are required for adding!")
	}

	return s.updateLevelRoles(ctx, guildID, func(roles models.LevelRoles) {
		roles[level] = roleID
	})
}

// RemoveLevelRole drops the mapping for level. Removing an absent level is a no-op.
func (s *levelingService) RemoveLevelRole(ctx context.Context, guildID int64, level int) error {
	return s.updateLevelRoles(ctx, guildID, func(roles models.LevelRoles) {
		delete(roles, level)
	})
}

func (s *levelingService) updateLevelRoles(ctx context.Context, guildID int64, mutate func(models.LevelRoles)) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.GuildConfigRepository()
	cfg, err := repo.GetOrCreate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}

	roles := cfg.LevelRoles.Clone()
	mutate(roles)
	cfg.LevelRoles = roles

	if err := repo.Upsert(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update level roles: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListLevelRoles returns the guild's level role mapping
func (s *levelingService) ListLevelRoles(ctx context.Context, guildID int64) (models.LevelRoles, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cfg.LevelRoles, nil
}
