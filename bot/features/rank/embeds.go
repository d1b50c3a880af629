package rank

import (
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
)

// buildRankEmbed creates the stats embed for a user's standing. The level
// shown is derived from xp so it always agrees with the progress fields.
func buildRankEmbed(displayName string, user *discordgo.User, standing *models.UserStanding, withCard bool) *discordgo.MessageEmbed {
	progress := standing.Progress

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s's Stats", displayName),
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Level",
				Value:  fmt.Sprintf("**%d**", progress.Level),
				Inline: true,
			},
			{
				Name:   "Rank",
				Value:  fmt.Sprintf("#%d", standing.Rank),
				Inline: true,
			},
			{
				Name:   "Total XP",
				Value:  common.FormatNumber(standing.Record.XP),
				Inline: true,
			},
			{
				Name:   "Messages",
				Value:  common.FormatNumber(standing.Record.TotalMessages),
				Inline: true,
			},
			{
				Name:   "Progress to Next Level",
				Value:  fmt.Sprintf("%s / %s XP", common.FormatNumber(progress.XPIntoLevel), common.FormatNumber(progress.XPNeededForLevel)),
				Inline: true,
			},
			{
				Name:   "Progress Bar",
				Value:  common.ProgressBar(progress.PercentComplete),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Next milestone: Level %d", service.NextMilestone(progress.Level)),
		},
	}

	if user != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")}
	}
	if withCard {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + cardFileName}
	}

	return embed
}
