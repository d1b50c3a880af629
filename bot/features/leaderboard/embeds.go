package leaderboard

import (
	"fmt"
	"strings"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
)

// buildLeaderboardEmbed renders one page. Missing names fall back to the user ID.
func buildLeaderboardEmbed(page *models.LeaderboardPage, names map[int64]string) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, entry := range page.Entries {
		name := names[entry.DiscordID]
		if name == "" {
			name = fmt.Sprintf("User %d", entry.DiscordID)
		}
		fmt.Fprintf(&sb, "%s %s\nLevel %d • %s XP • %s messages\n\n",
			common.FormatMedal(entry.Rank),
			name,
			service.LevelFromXP(entry.XP),
			common.FormatNumber(entry.XP),
			common.FormatNumber(entry.TotalMessages),
		)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🏆 Server Leaderboard - Page %d", page.Page),
		Description: strings.TrimRight(sb.String(), "\n"),
		Color:       common.ColorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", page.Page, max(page.TotalPages, 1)),
		},
	}
}
