package leveling

import (
	"context"
	"fmt"
	"slices"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/infrastructure/observability"
	"github.com/duskdeveloper/discord-level-bot/models"
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Notifier announces level-ups and reconciles level roles
type Notifier struct {
	configs service.GuildConfigService
}

// NewNotifier creates a notifier reading guild settings from configs
func NewNotifier(configs service.GuildConfigService) *Notifier {
	return &Notifier{configs: configs}
}

// Notify handles a level-up produced by a message in originChannelID.
// Results that did not level up are ignored, as is every guild with
// announcements disabled. Role reconciliation only runs alongside the announcement.
func (n *Notifier) Notify(ctx context.Context, ops GuildOps, result *models.AwardResult, originChannelID string, user *discordgo.User) {
	if result == nil || !result.LeveledUp {
		return
	}

	logger := log.WithFields(log.Fields{
		"guild_id":  result.GuildID,
		"user_id":   result.DiscordID,
		"new_level": result.NewLevel,
	})

	cfg, err := n.configs.GetConfig(ctx, result.GuildID)
	if err != nil {
		logger.WithError(err).Error("Failed to load guild config for level-up")
		return
	}
	if !cfg.AnnouncementsEnabled {
		return
	}

	channelID := announcementChannel(ops, cfg, originChannelID)
	if err := ops.SendEmbed(channelID, buildLevelUpEmbed(result, user)); err != nil {
		logger.WithError(err).WithField("channel_id", channelID).Error("Failed to send level-up announcement")
	}

	n.syncRoles(ops, cfg, result, logger)
}

// announcementChannel picks the configured channel while it still exists
func announcementChannel(ops GuildOps, cfg *models.GuildConfig, originChannelID string) string {
	if cfg.LevelUpChannelID == nil {
		return originChannelID
	}
	configured := common.FormatID(*cfg.LevelUpChannelID)
	if ops.ChannelExists(configured) {
		return configured
	}
	return originChannelID
}

// syncRoles grants every threshold role the member has reached and revokes
// the ones above the new level
func (n *Notifier) syncRoles(ops GuildOps, cfg *models.GuildConfig, result *models.AwardResult, logger *log.Entry) {
	if len(cfg.LevelRoles) == 0 {
		return
	}

	guildID := common.FormatID(result.GuildID)
	userID := common.FormatID(result.DiscordID)
	metrics := observability.GetMetrics()

	held, err := ops.MemberRoles(guildID, userID)
	if err != nil {
		logger.WithError(err).Warn("Failed to look up member for role sync")
		return
	}

	for _, level := range cfg.LevelRoles.Levels() {
		roleID := common.FormatID(cfg.LevelRoles[level])
		if !ops.RoleExists(guildID, roleID) {
			logger.WithField("role_id", roleID).Debug("Skipping deleted level role")
			continue
		}

		hasRole := slices.Contains(held, roleID)
		switch {
		case result.NewLevel >= level && !hasRole:
			if err := ops.AddRole(guildID, userID, roleID, fmt.Sprintf("Reached level %d", level)); err != nil {
				logger.WithError(err).WithField("role_id", roleID).Error("Failed to grant level role")
				metrics.RecordRoleSync(observability.RoleActionError)
				continue
			}
			metrics.RecordRoleSync(observability.RoleActionGrant)
		case result.NewLevel < level && hasRole:
			if err := ops.RemoveRole(guildID, userID, roleID, fmt.Sprintf("Below level %d", level)); err != nil {
				logger.WithError(err).WithField("role_id", roleID).Error("Failed to revoke level role")
				metrics.RecordRoleSync(observability.RoleActionError)
				continue
			}
			metrics.RecordRoleSync(observability.RoleActionRevoke)
		}
	}
}
