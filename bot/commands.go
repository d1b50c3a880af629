package bot

import (
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/bot/features/admin"
	"github.com/duskdeveloper/discord-level-bot/bot/features/levelroles"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	CommandRank        = "rank"
	CommandLeaderboard = "leaderboard"
	CommandConfig      = "config"
	CommandLevelRole   = "levelrole"
)

// commandDefinitions returns every slash command the bot serves
func commandDefinitions() []*discordgo.ApplicationCommand {
	adminPerms := int64(discordgo.PermissionAdministrator)
	guildOnly := false
	minPage := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:         CommandRank,
			Description:  "Show your level and rank, or another user's",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to look up",
					Required:    false,
				},
			},
		},
		{
			Name:         CommandLeaderboard,
			Description:  "Show the server XP leaderboard",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page number",
					Required:    false,
					MinValue:    &minPage,
				},
			},
		},
		{
			Name:                     admin.CommandAddXP,
			Description:              "Add XP to a user (admin only)",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to give XP to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of XP to add",
					Required:    true,
				},
			},
		},
		{
			Name:                     admin.CommandSetXP,
			Description:              "Set a user's XP (admin only)",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User whose XP to set",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "New XP total",
					Required:    true,
				},
			},
		},
		{
			Name:                     CommandConfig,
			Description:              "Configure leveling for this server (admin only)",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "xp_per_message",
					Description: "Base XP per message (1-100)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "cooldown",
					Description: "Seconds between XP awards (0-3600)",
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "announcement_channel",
					Description:  "Channel for level-up announcements",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "announcements",
					Description: "Enable or disable level-up announcements",
				},
			},
		},
		{
			Name:                     CommandLevelRole,
			Description:              "Manage roles granted at levels (admin only)",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "What to do",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Add", Value: levelroles.ActionAdd},
						{Name: "Remove", Value: levelroles.ActionRemove},
						{Name: "List", Value: levelroles.ActionList},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Level threshold",
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to grant",
				},
			},
		},
	}
}

// registerCommands replaces the application's commands in the dev guild, or
// globally when no guild is configured
func (b *Bot) registerCommands() error {
	commands := commandDefinitions()

	created, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}

	scope := "global"
	if b.config.GuildID != "" {
		scope = b.config.GuildID
	}
	log.WithFields(log.Fields{
		"count": len(created),
		"scope": scope,
	}).Info("Registered slash commands")
	return nil
}
