package levelroles

import (
	"fmt"
	"strings"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/bwmarrin/discordgo"
)

func buildAddedEmbed(level int, roleID int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Level Role Added",
		Description: fmt.Sprintf("Users will receive %s at level %d", common.RoleMention(roleID), level),
		Color:       common.ColorSuccess,
	}
}

func buildRemovedEmbed(level int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Level Role Removed",
		Description: fmt.Sprintf("Removed level role for level %d", level),
		Color:       common.ColorSuccess,
	}
}

// buildListEmbed lists thresholds in ascending order, marking roles the guild no longer has
func buildListEmbed(roles models.LevelRoles, roleExists func(roleID int64) bool) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(roles))
	for _, level := range roles.Levels() {
		roleID := roles[level]
		role := fmt.Sprintf("Deleted Role (%d)", roleID)
		if roleExists(roleID) {
			role = common.RoleMention(roleID)
		}
		lines = append(lines, fmt.Sprintf("Level %d: %s", level, role))
	}

	return &discordgo.MessageEmbed{
		Title:       "🎭 Level Roles",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorRoles,
	}
}
