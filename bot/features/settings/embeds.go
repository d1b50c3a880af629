package settings

import (
	"fmt"
	"strconv"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/bwmarrin/discordgo"
)

func buildConfigEmbed(cfg *models.GuildConfig, updated bool) *discordgo.MessageEmbed {
	title := "⚙️ Current Configuration"
	if updated {
		title = "⚙️ Configuration Updated"
	}

	channel := "Current Channel"
	if cfg.LevelUpChannelID != nil {
		channel = common.ChannelMention(*cfg.LevelUpChannelID)
	}

	announcements := "Disabled"
	if cfg.AnnouncementsEnabled {
		announcements = "Enabled"
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "XP per Message", Value: strconv.Itoa(cfg.XPPerMessage), Inline: true},
			{Name: "Cooldown", Value: fmt.Sprintf("%ds", cfg.XPCooldownSeconds), Inline: true},
			{Name: "Announcement Channel", Value: channel, Inline: true},
			{Name: "Announcements", Value: announcements, Inline: true},
		},
	}
}
