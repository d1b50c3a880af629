package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/database"
	"github.com/duskdeveloper/discord-level-bot/infrastructure/observability"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/jackc/pgx/v5"
)

const userLevelRepoName = "user_level"

// UserLevelRepository implements the UserLevelRepository interface
type UserLevelRepository struct {
	q       Queryable
	guildID int64
}

// NewUserLevelRepository creates a user level repository on the pool for one guild
func NewUserLevelRepository(db *database.DB, guildID int64) *UserLevelRepository {
	return &UserLevelRepository{q: db.Pool, guildID: guildID}
}

// NewUserLevelRepositoryScoped creates a user level repository with a transaction and guild scope
func NewUserLevelRepositoryScoped(tx Queryable, guildID int64) *UserLevelRepository {
	return &UserLevelRepository{
		q:       tx,
		guildID: guildID,
	}
}

const userLevelColumns = `discord_id, guild_id, xp, level, total_messages, last_award_at, created_at, updated_at`

func scanUserLevel(row pgx.Row) (*models.UserLevel, error) {
	var record models.UserLevel
	err := row.Scan(
		&record.DiscordID,
		&record.GuildID,
		&record.XP,
		&record.Level,
		&record.TotalMessages,
		&record.LastAwardAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Get retrieves the user's record in the current guild. A user with no row
// gets a zero record that is not persisted.
func (r *UserLevelRepository) Get(ctx context.Context, discordID int64) (*models.UserLevel, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "Get")()

	query := `SELECT ` + userLevelColumns + ` FROM user_levels WHERE discord_id = $1 AND guild_id = $2`

	record, err := scanUserLevel(r.q.QueryRow(ctx, query, discordID, r.guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewUserLevel(r.guildID, discordID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user level for %d in guild %d: %w", discordID, r.guildID, err)
	}
	return record, nil
}

// GetForUpdate creates the row if absent and locks it until the surrounding
// transaction ends. Concurrent awards for the same user serialize here.
func (r *UserLevelRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.UserLevel, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "GetForUpdate")()

	insert := `
		INSERT INTO user_levels (discord_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (discord_id, guild_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, discordID, r.guildID); err != nil {
		return nil, fmt.Errorf("failed to create user level for %d in guild %d: %w", discordID, r.guildID, err)
	}

	query := `SELECT ` + userLevelColumns + ` FROM user_levels WHERE discord_id = $1 AND guild_id = $2 FOR UPDATE`

	record, err := scanUserLevel(r.q.QueryRow(ctx, query, discordID, r.guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock user level for %d in guild %d: %w", discordID, r.guildID, err)
	}
	return record, nil
}

// Upsert writes every mutable field of the record
func (r *UserLevelRepository) Upsert(ctx context.Context, record *models.UserLevel) error {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "Upsert")()

	query := `
		INSERT INTO user_levels (discord_id, guild_id, xp, level, total_messages, last_award_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (discord_id, guild_id) DO UPDATE
		SET xp = EXCLUDED.xp,
		    level = EXCLUDED.level,
		    total_messages = EXCLUDED.total_messages,
		    last_award_at = EXCLUDED.last_award_at
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		record.DiscordID,
		r.guildID,
		record.XP,
		record.Level,
		record.TotalMessages,
		record.LastAwardAt,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user level for %d in guild %d: %w", record.DiscordID, r.guildID, err)
	}

	record.GuildID = r.guildID
	return nil
}

// AddXP increments xp, creating the row when needed. Level is not recomputed.
func (r *UserLevelRepository) AddXP(ctx context.Context, discordID int64, amount int64) error {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "AddXP")()

	query := `
		INSERT INTO user_levels (discord_id, guild_id, xp)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id, guild_id) DO UPDATE
		SET xp = user_levels.xp + EXCLUDED.xp
	`

	if _, err := r.q.Exec(ctx, query, discordID, r.guildID, amount); err != nil {
		return fmt.Errorf("failed to add xp for %d in guild %d: %w", discordID, r.guildID, err)
	}
	return nil
}

// SetXP replaces the record with xp=amount and every other counter reset
func (r *UserLevelRepository) SetXP(ctx context.Context, discordID int64, amount int64) error {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "SetXP")()

	query := `
		INSERT INTO user_levels (discord_id, guild_id, xp, level, total_messages, last_award_at)
		VALUES ($1, $2, $3, 0, 0, NULL)
		ON CONFLICT (discord_id, guild_id) DO UPDATE
		SET xp = EXCLUDED.xp,
		    level = 0,
		    total_messages = 0,
		    last_award_at = NULL
	`

	if _, err := r.q.Exec(ctx, query, discordID, r.guildID, amount); err != nil {
		return fmt.Errorf("failed to set xp for %d in guild %d: %w", discordID, r.guildID, err)
	}
	return nil
}

// GetLeaderboard returns users ordered by xp descending. Ties break on
// discord_id so pages are stable.
func (r *UserLevelRepository) GetLeaderboard(ctx context.Context, limit, offset int) ([]*models.LeaderboardEntry, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "GetLeaderboard")()

	query := `
		SELECT discord_id, xp, level, total_messages
		FROM user_levels
		WHERE guild_id = $1
		ORDER BY xp DESC, discord_id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.Query(ctx, query, r.guildID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.DiscordID, &entry.XP, &entry.Level, &entry.TotalMessages); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	return entries, nil
}

// CountUsers returns the number of users with a record in the guild
func (r *UserLevelRepository) CountUsers(ctx context.Context) (int, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "CountUsers")()

	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM user_levels WHERE guild_id = $1`, r.guildID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users in guild %d: %w", r.guildID, err)
	}
	return count, nil
}

// GetRank returns 1 + the number of users in the guild with strictly more xp.
// A user without a row is ranked as if they had 0 xp.
func (r *UserLevelRepository) GetRank(ctx context.Context, discordID int64) (int, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery(userLevelRepoName, "GetRank")()

	query := `
		SELECT COUNT(*) + 1
		FROM user_levels
		WHERE guild_id = $1
		  AND xp > COALESCE(
			(SELECT xp FROM user_levels WHERE guild_id = $1 AND discord_id = $2),
			0
		  )
	`

	var rank int
	if err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(&rank); err != nil {
		return 0, fmt.Errorf("failed to get rank for %d in guild %d: %w", discordID, r.guildID, err)
	}
	return rank, nil
}
