package settings

import (
	"context"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const configFailedMessage = "Failed to update settings"

// parseConfigUpdate collects the provided options. Range checks happen in the service.
func parseConfigUpdate(options common.OptionMap) service.ConfigUpdate {
	var update service.ConfigUpdate

	if xp, ok := options.Int("xp_per_message"); ok {
		value := int(xp)
		update.XPPerMessage = &value
	}
	if cooldown, ok := options.Int("cooldown"); ok {
		value := int(cooldown)
		update.CooldownSeconds = &value
	}
	if channelID, ok := options.Snowflake("announcement_channel"); ok {
		update.LevelUpChannelID = &channelID
	}
	if enabled, ok := options.Bool("announcements"); ok {
		update.AnnouncementsEnabled = &enabled
	}

	return update
}

// handleConfig handles /config [xp_per_message] [cooldown] [announcement_channel] [announcements]
func (f *Feature) handleConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command!")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, configFailedMessage)
		return
	}

	ctx := context.Background()
	update := parseConfigUpdate(common.NewOptionMap(i.ApplicationCommandData().Options))

	// No options shows the current settings
	if update.IsEmpty() {
		cfg, err := f.configService.GetConfig(ctx, guildID)
		if err != nil {
			common.HandleError(s, i, err, "Failed to load settings", false)
			return
		}
		common.RespondWithEmbed(s, i, buildConfigEmbed(cfg, false), true)
		return
	}

	cfg, err := f.configService.UpdateConfig(ctx, guildID, update)
	if err != nil {
		common.HandleError(s, i, err, configFailedMessage, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":              guildID,
		"xp_per_message":        cfg.XPPerMessage,
		"cooldown_seconds":      cfg.XPCooldownSeconds,
		"announcements_enabled": cfg.AnnouncementsEnabled,
	}).Info("Guild config updated")

	common.RespondWithEmbed(s, i, buildConfigEmbed(cfg, true), false)
}
