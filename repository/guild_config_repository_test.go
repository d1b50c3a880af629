package repository

import (
	"context"
	"testing"

	"github.com/duskdeveloper/discord-level-bot/models"
	"github.com/duskdeveloper/discord-level-bot/repository/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	t.Run("built-in defaults", func(t *testing.T) {
		repo := NewGuildConfigRepository(testDB.DB, models.DefaultGuildDefaults())
		guildID := testutil.RandomSnowflake()

		cfg, err := repo.GetOrCreate(ctx, guildID)
		require.NoError(t, err)
		assert.Equal(t, guildID, cfg.GuildID)
		assert.Equal(t, 15, cfg.XPPerMessage)
		assert.Equal(t, 60, cfg.XPCooldownSeconds)
		assert.Nil(t, cfg.LevelUpChannelID)
		assert.Empty(t, cfg.LevelRoles)
		assert.True(t, cfg.AnnouncementsEnabled)
	})

	t.Run("configured defaults", func(t *testing.T) {
		repo := NewGuildConfigRepository(testDB.DB, models.GuildDefaults{XPPerMessage: 30, XPCooldownSeconds: 10})

		cfg, err := repo.GetOrCreate(ctx, testutil.RandomSnowflake())
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.XPPerMessage)
		assert.Equal(t, 10, cfg.XPCooldownSeconds)
	})

	t.Run("existing row is not overwritten", func(t *testing.T) {
		repo := NewGuildConfigRepository(testDB.DB, models.DefaultGuildDefaults())
		guildID := testutil.RandomSnowflake()

		cfg, err := repo.GetOrCreate(ctx, guildID)
		require.NoError(t, err)
		cfg.XPPerMessage = 99
		require.NoError(t, repo.Upsert(ctx, cfg))

		again, err := repo.GetOrCreate(ctx, guildID)
		require.NoError(t, err)
		assert.Equal(t, 99, again.XPPerMessage)
		assert.True(t, cfg.CreatedAt.Equal(again.CreatedAt))
	})
}

func TestGuildConfigRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewGuildConfigRepository(testDB.DB, models.DefaultGuildDefaults())

	original := testutil.CreateTestGuildConfig(testutil.RandomSnowflake())
	require.NoError(t, repo.Upsert(ctx, original))

	stored, err := repo.GetOrCreate(ctx, original.GuildID)
	require.NoError(t, err)

	assert.Equal(t, original.XPPerMessage, stored.XPPerMessage)
	assert.Equal(t, original.XPCooldownSeconds, stored.XPCooldownSeconds)
	assert.Equal(t, original.AnnouncementsEnabled, stored.AnnouncementsEnabled)
	require.NotNil(t, stored.LevelUpChannelID)
	assert.Equal(t, *original.LevelUpChannelID, *stored.LevelUpChannelID)
	if diff := cmp.Diff(original.LevelRoles, stored.LevelRoles); diff != "" {
		t.Errorf("level roles mismatch (-want +got):\n%s", diff)
	}

	t.Run("clearing the channel stores NULL", func(t *testing.T) {
		stored.LevelUpChannelID = nil
		require.NoError(t, repo.Upsert(ctx, stored))

		cleared, err := repo.GetOrCreate(ctx, original.GuildID)
		require.NoError(t, err)
		assert.Nil(t, cleared.LevelUpChannelID)
	})
}

func TestGuildConfigRepository_MalformedLevelRoles(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewGuildConfigRepository(testDB.DB, models.DefaultGuildDefaults())
	guildID := testutil.RandomSnowflake()

	_, err := repo.GetOrCreate(ctx, guildID)
	require.NoError(t, err)

	_, err = testDB.DB.Exec(ctx, `UPDATE guild_configs SET level_roles = 'not json' WHERE guild_id = $1`, guildID)
	require.NoError(t, err)

	cfg, err := repo.GetOrCreate(ctx, guildID)
	require.NoError(t, err)
	assert.Empty(t, cfg.LevelRoles)
}
