package repository

import (
	"context"
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/database"
	"github.com/duskdeveloper/discord-level-bot/infrastructure/observability"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/jackc/pgx/v5"
)

const guildConfigRepoName = "guild_config"

// GuildConfigRepository implements the GuildConfigRepository interface
type GuildConfigRepository struct {
	q        Queryable
	defaults models.GuildDefaults
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB, defaults models.GuildDefaults) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool, defaults: defaults}
}

// NewGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func NewGuildConfigRepositoryWithTx(tx Queryable, defaults models.GuildDefaults) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx, defaults: defaults}
}

func scanGuildConfig(row pgx.Row) (*models.GuildConfig, error) {
	var cfg models.GuildConfig
	var levelRoles string
	err := row.Scan(
		&cfg.GuildID,
		&cfg.XPPerMessage,
		&cfg.XPCooldownSeconds,
		&cfg.LevelUpChannelID,
		&levelRoles,
		&cfg.AnnouncementsEnabled,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cfg.LevelRoles = models.DecodeLevelRoles(levelRoles)
	return &cfg, nil
}

// GetOrCreate retrieves the guild's config, inserting the defaults first if the
// guild has never been seen
func (r *GuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery(guildConfigRepoName, "GetOrCreate")()

	defaults := r.defaults.NewConfig(guildID)
	insert := `
		INSERT INTO guild_configs (guild_id, xp_per_message, xp_cooldown_seconds, level_roles, announcements_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id) DO NOTHING
	`
	_, err := r.q.Exec(ctx, insert,
		guildID,
		defaults.XPPerMessage,
		defaults.XPCooldownSeconds,
		models.EncodeLevelRoles(defaults.LevelRoles),
		defaults.AnnouncementsEnabled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create guild config for guild %d: %w", guildID, err)
	}

	query := `
		SELECT guild_id, xp_per_message, xp_cooldown_seconds, level_up_channel_id,
		       level_roles, announcements_enabled, created_at, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`
	cfg, err := scanGuildConfig(r.q.QueryRow(ctx, query, guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config for guild %d: %w", guildID, err)
	}
	return cfg, nil
}

// Upsert writes every field of the config
func (r *GuildConfigRepository) Upsert(ctx context.Context, cfg *models.GuildConfig) error {
	defer observability.GetMetrics().MeasureDatabaseQuery(guildConfigRepoName, "Upsert")()

	query := `
		INSERT INTO guild_configs (guild_id, xp_per_message, xp_cooldown_seconds, level_up_channel_id, level_roles, announcements_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (guild_id) DO UPDATE
		SET xp_per_message = EXCLUDED.xp_per_message,
		    xp_cooldown_seconds = EXCLUDED.xp_cooldown_seconds,
		    level_up_channel_id = EXCLUDED.level_up_channel_id,
		    level_roles = EXCLUDED.level_roles,
		    announcements_enabled = EXCLUDED.announcements_enabled
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		cfg.GuildID,
		cfg.XPPerMessage,
		cfg.XPCooldownSeconds,
		cfg.LevelUpChannelID,
		models.EncodeLevelRoles(cfg.LevelRoles),
		cfg.AnnouncementsEnabled,
	).Scan(&cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config for guild %d: %w", cfg.GuildID, err)
	}
	return nil
}
