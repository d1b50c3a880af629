package service

import (
	"context"
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/models"
)

// ConfigUpdate is a partial guild config update. Nil fields are left unchanged.
type ConfigUpdate struct {
	XPPerMessage         *int
	CooldownSeconds      *int
	LevelUpChannelID     *int64
	AnnouncementsEnabled *bool
}

// IsEmpty reports whether the update changes nothing
func (u ConfigUpdate) IsEmpty() bool {
	return u.XPPerMessage == nil && u.CooldownSeconds == nil && u.LevelUpChannelID == nil && u.AnnouncementsEnabled == nil
}

// Validate checks every provided field
func (u ConfigUpdate) Validate() error {
	if u.XPPerMessage != nil {
		if err := validateXPPerMessage(*u.XPPerMessage); err != nil {
			return err
		}
	}
	if u.CooldownSeconds != nil {
		if err := validateCooldown(*u.CooldownSeconds); err != nil {
			return err
		}
	}
	return nil
}

// apply merges the update into cfg
func (u ConfigUpdate) apply(cfg *models.GuildConfig) {
	if u.XPPerMessage != nil {
		cfg.XPPerMessage = *u.XPPerMessage
	}
	if u.CooldownSeconds != nil {
		cfg.XPCooldownSeconds = *u.CooldownSeconds
	}
	if u.LevelUpChannelID != nil {
		channelID := *u.LevelUpChannelID
		cfg.LevelUpChannelID = &channelID
	}
	if u.AnnouncementsEnabled != nil {
		cfg.AnnouncementsEnabled = *u.AnnouncementsEnabled
	}
}

// guildConfigService implements the GuildConfigService interface
type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{
		uowFactory: uowFactory,
	}
}

// GetConfig returns the guild's config, committing the default row on first access
func (s *guildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cfg, nil
}

// UpdateConfig validates the whole update before writing anything
func (s *guildConfigService) UpdateConfig(ctx context.Context, guildID int64, update ConfigUpdate) (*models.GuildConfig, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.GuildConfigRepository()
	cfg, err := repo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	update.apply(cfg)

	if err := repo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to update guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cfg, nil
}
