package common

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionMap(t *testing.T) {
	t.Parallel()

	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "amount", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(250)},
		{Name: "announcements", Type: discordgo.ApplicationCommandOptionBoolean, Value: false},
		{Name: "action", Type: discordgo.ApplicationCommandOptionString, Value: "list"},
		{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "555000111222333444"},
		{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "123456789012345678"},
	}
	m := NewOptionMap(options)

	amount, ok := m.Int("amount")
	require.True(t, ok)
	assert.Equal(t, int64(250), amount)

	enabled, ok := m.Bool("announcements")
	require.True(t, ok)
	assert.False(t, enabled)

	action, ok := m.String("action")
	require.True(t, ok)
	assert.Equal(t, "list", action)

	roleID, ok := m.Snowflake("role")
	require.True(t, ok)
	assert.Equal(t, int64(555000111222333444), roleID)

	_, ok = m.Int("missing")
	assert.False(t, ok)
	_, ok = m.Snowflake("amount")
	assert.False(t, ok, "non-string values are not snowflakes")

	t.Run("user from resolved data", func(t *testing.T) {
		data := discordgo.ApplicationCommandInteractionData{
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{
					"123456789012345678": {ID: "123456789012345678", Username: "alice", Bot: true},
				},
			},
		}
		user, ok := m.User(data, "user")
		require.True(t, ok)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.Bot)
	})

	t.Run("user without resolved data", func(t *testing.T) {
		user, ok := m.User(discordgo.ApplicationCommandInteractionData{}, "user")
		require.True(t, ok)
		assert.Equal(t, "123456789012345678", user.ID)
		assert.Empty(t, user.Username)
	})
}

func TestIsInteractionAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		member   *discordgo.Member
		expected bool
	}{
		{"no member", nil, false},
		{"plain member", &discordgo.Member{Permissions: discordgo.PermissionSendMessages}, false},
		{"administrator", &discordgo.Member{Permissions: discordgo.PermissionAdministrator}, true},
		{"manage server", &discordgo.Member{Permissions: discordgo.PermissionManageGuild | discordgo.PermissionSendMessages}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: tt.member}}
			assert.Equal(t, tt.expected, IsInteractionAdmin(i))
		})
	}
}

func TestMentions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<@42>", UserMention(42))
	assert.Equal(t, "<@&42>", RoleMention(42))
	assert.Equal(t, "<#42>", ChannelMention(42))
	assert.Equal(t, "42", FormatID(42))

	id, err := ParseID("987654321098765432")
	require.NoError(t, err)
	assert.Equal(t, int64(987654321098765432), id)

	_, err = ParseID("not-a-number")
	assert.Error(t, err)
}
