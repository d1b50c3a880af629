package admin

import (
	"fmt"
	"strconv"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/bwmarrin/discordgo"
)

func buildAdjustmentEmbed(userID int64, result *models.XPAdjustment) *discordgo.MessageEmbed {
	mention := common.UserMention(userID)

	if result.Kind == models.XPAdjustmentSet {
		return &discordgo.MessageEmbed{
			Title:       "✅ XP Set",
			Description: fmt.Sprintf("Set %s's XP to %s", mention, common.FormatNumber(result.NewXP)),
			Color:       common.ColorSuccess,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "New Level", Value: strconv.Itoa(result.NewLevel), Inline: true},
			},
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "✅ XP Added",
		Description: fmt.Sprintf("Added %s XP to %s", common.FormatNumber(result.Amount), mention),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Old Level", Value: strconv.Itoa(result.OldLevel), Inline: true},
			{Name: "New Level", Value: strconv.Itoa(result.NewLevel), Inline: true},
			{Name: "Total XP", Value: common.FormatNumber(result.NewXP), Inline: true},
		},
	}
}
