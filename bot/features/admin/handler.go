package admin

import (
	"context"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const adjustFailedMessage = "Failed to update XP. Please try again."

type adjustFunc func(ctx context.Context, guildID, discordID int64, amount int64) (*models.XPAdjustment, error)

// adjustRequest is a parsed addxp or setxp invocation
type adjustRequest struct {
	guildID int64
	user    *discordgo.User
	userID  int64
	amount  int64
}

// parseAdjust validates everything that does not need the service
func parseAdjust(i *discordgo.InteractionCreate) (*adjustRequest, error) {
	if !common.IsInteractionAdmin(i) {
		return nil, common.NewUserError("You need administrator permissions to use this command!", "caller is not an administrator")
	}

	data := i.ApplicationCommandData()
	options := common.NewOptionMap(data.Options)

	user, ok := options.User(data, "user")
	if !ok {
		return nil, common.NewUserError("A user is required!", "missing user option")
	}
	if user.Bot {
		return nil, common.NewUserError("Cannot modify bot XP!", "target is a bot")
	}
	amount, ok := options.Int("amount")
	if !ok {
		return nil, common.NewUserError("An XP amount is required!", "missing amount option")
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return nil, common.NewSystemError(err, adjustFailedMessage, "invalid guild id")
	}
	userID, err := common.ParseID(user.ID)
	if err != nil {
		return nil, common.NewSystemError(err, adjustFailedMessage, "invalid user id")
	}

	return &adjustRequest{guildID: guildID, user: user, userID: userID, amount: amount}, nil
}

// handleAdjust runs addxp or setxp through adjust
func (f *Feature) handleAdjust(s *discordgo.Session, i *discordgo.InteractionCreate, adjust adjustFunc) {
	ctx := context.Background()

	req, err := parseAdjust(i)
	if err != nil {
		common.HandleError(s, i, err, adjustFailedMessage, false)
		return
	}

	result, err := adjust(ctx, req.guildID, req.userID, req.amount)
	if err != nil {
		common.HandleError(s, i, err, adjustFailedMessage, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":  req.guildID,
		"user_id":   req.userID,
		"kind":      result.Kind,
		"old_xp":    result.OldXP,
		"new_xp":    result.NewXP,
		"new_level": result.NewLevel,
	}).Info("Administrative XP change")

	common.RespondWithEmbed(s, i, buildAdjustmentEmbed(req.userID, result), false)
}
