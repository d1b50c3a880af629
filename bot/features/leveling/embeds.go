package leveling

import (
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/bwmarrin/discordgo"
)

// buildLevelUpEmbed creates the announcement for a level-up
func buildLevelUpEmbed(result *models.AwardResult, user *discordgo.User) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎉 Level Up!",
		Description: fmt.Sprintf("%s has reached **Level %d**!", common.UserMention(result.DiscordID), result.NewLevel),
		Color:       common.LevelColor(result.NewLevel),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Total XP",
				Value:  common.FormatNumber(result.TotalXP),
				Inline: true,
			},
			{
				Name:   "Messages Sent",
				Value:  common.FormatNumber(result.TotalMessages),
				Inline: true,
			},
		},
	}

	if user != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")}
	}

	return embed
}
