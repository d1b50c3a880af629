package leaderboard

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLeaderboardEmbed(t *testing.T) {
	t.Parallel()

	page := &models.LeaderboardPage{
		Entries: []*models.LeaderboardEntry{
			{Rank: 1, DiscordID: 11, XP: 12500, Level: 12, TotalMessages: 900},
			{Rank: 2, DiscordID: 22, XP: 2500, Level: 4, TotalMessages: 150},
			{Rank: 3, DiscordID: 33, XP: 100, Level: 0, TotalMessages: 5},
			{Rank: 4, DiscordID: 44, XP: 99, Level: 0, TotalMessages: 1},
		},
		Page:       1,
		TotalPages: 3,
		TotalUsers: 24,
	}
	names := map[int64]string{11: "alice", 22: "bob", 33: "carol"}

	embed := buildLeaderboardEmbed(page, names)

	assert.Equal(t, "🏆 Server Leaderboard - Page 1", embed.Title)
	assert.Equal(t, 0xFFD700, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Page 1 of 3", embed.Footer.Text)

	lines := strings.Split(embed.Description, "\n")
	assert.Equal(t, "🥇 alice", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Level "), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], " • 12,500 XP • 900 messages"), lines[1])
	assert.Equal(t, "🥈 bob", lines[3])
	assert.Equal(t, "🥉 carol", lines[6])
	assert.Equal(t, "**4.** User 44", lines[9])
	assert.False(t, strings.HasSuffix(embed.Description, "\n"))
}

func TestBuildLeaderboardEmbed_LaterPage(t *testing.T) {
	t.Parallel()

	page := &models.LeaderboardPage{
		Entries:    []*models.LeaderboardEntry{{Rank: 11, DiscordID: 5, XP: 50}},
		Page:       2,
		TotalPages: 2,
		TotalUsers: 11,
	}

	embed := buildLeaderboardEmbed(page, map[int64]string{5: "eve"})

	assert.Equal(t, "🏆 Server Leaderboard - Page 2", embed.Title)
	assert.True(t, strings.HasPrefix(embed.Description, "**11.** eve\n"))
	assert.Equal(t, "Page 2 of 2", embed.Footer.Text)
}

func TestResolveNames(t *testing.T) {
	t.Parallel()

	entries := make([]*models.LeaderboardEntry, 10)
	for i := range entries {
		entries[i] = &models.LeaderboardEntry{Rank: i + 1, DiscordID: int64(100 + i)}
	}

	var calls atomic.Int32
	names := resolveNames(entries, func(userID string) string {
		calls.Add(1)
		return "name-" + userID
	})

	assert.Equal(t, int32(10), calls.Load())
	require.Len(t, names, 10)
	assert.Equal(t, "name-100", names[100])
	assert.Equal(t, "name-109", names[109])
}
