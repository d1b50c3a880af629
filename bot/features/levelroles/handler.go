package levelroles

import (
	"context"

	"github.com/duskdeveloper/discord-level-bot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const levelRoleFailedMessage = "Failed to update level roles"

// levelRoleRequest is a parsed /levelrole invocation
type levelRoleRequest struct {
	action string
	level  int
	roleID int64
}

func parseLevelRole(options common.OptionMap) (*levelRoleRequest, error) {
	action, _ := options.String("action")
	req := &levelRoleRequest{action: action}

	level, hasLevel := options.Int("level")
	req.level = int(level)
	req.roleID, _ = options.Snowflake("role")

	switch action {
	case ActionAdd:
		if !hasLevel {
			return nil, common.NewUserError("Level and role are required for adding!", "missing level")
		}
	case ActionRemove:
		if !hasLevel {
			return nil, common.NewUserError("Level is required for removing!", "missing level")
		}
	case ActionList:
	default:
		return nil, common.NewUserError("Unknown action! Use add, remove or list.", "unknown action "+action)
	}

	return req, nil
}

func (f *Feature) handleLevelRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsInteractionAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command!")
		return
	}

	req, err := parseLevelRole(common.NewOptionMap(i.ApplicationCommandData().Options))
	if err != nil {
		common.HandleError(s, i, err, levelRoleFailedMessage, false)
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, levelRoleFailedMessage)
		return
	}

	ctx := context.Background()
	logger := log.WithFields(log.Fields{
		"guild_id": guildID,
		"level":    req.level,
	})

	switch req.action {
	case ActionAdd:
		if err := f.levelingService.SetLevelRole(ctx, guildID, req.level, req.roleID); err != nil {
			common.HandleError(s, i, err, levelRoleFailedMessage, false)
			return
		}
		logger.WithField("role_id", req.roleID).Info("Level role added")
		common.RespondWithEmbed(s, i, buildAddedEmbed(req.level, req.roleID), false)

	case ActionRemove:
		if err := f.levelingService.RemoveLevelRole(ctx, guildID, req.level); err != nil {
			common.HandleError(s, i, err, levelRoleFailedMessage, false)
			return
		}
		logger.Info("Level role removed")
		common.RespondWithEmbed(s, i, buildRemovedEmbed(req.level), false)

	case ActionList:
		roles, err := f.levelingService.ListLevelRoles(ctx, guildID)
		if err != nil {
			common.HandleError(s, i, err, "Failed to load level roles", false)
			return
		}
		if len(roles) == 0 {
			common.RespondWithMessage(s, i, "No level roles configured!", true)
			return
		}
		roleExists := func(roleID int64) bool {
			role, err := s.State.Role(i.GuildID, common.FormatID(roleID))
			return err == nil && role != nil
		}
		common.RespondWithEmbed(s, i, buildListEmbed(roles, roleExists), false)
	}
}
