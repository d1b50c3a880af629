package rank

import (
	"bytes"
	"context"

	"github.com/duskdeveloper/discord-level-bot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const rankFailedMessage = "An error occurred while fetching rank data."

// handleRank handles /rank [user]
func (f *Feature) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	data := i.ApplicationCommandData()
	options := common.NewOptionMap(data.Options)

	target, ok := options.User(data, "user")
	if !ok {
		target = common.InteractionUser(i)
	}
	if target == nil {
		common.RespondWithError(s, i, rankFailedMessage)
		return
	}
	if target.Bot {
		common.RespondWithError(s, i, "Bots don't have levels!")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, rankFailedMessage)
		return
	}
	userID, err := common.ParseID(target.ID)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, rankFailedMessage)
		return
	}

	// Card rendering can run past the initial response window
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring rank response: %v", err)
		return
	}

	standing, err := f.levelingService.GetStanding(ctx, guildID, userID)
	if err != nil {
		common.HandleError(s, i, err, rankFailedMessage, true)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)

	var files []*discordgo.File
	card, err := f.cards.Render(CardData{DisplayName: displayName, Standing: standing})
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"user_id":  userID,
			"error":    err,
		}).Warn("Failed to render rank card, sending embed only")
	} else {
		files = append(files, &discordgo.File{
			Name:        cardFileName,
			ContentType: "image/png",
			Reader:      bytes.NewReader(card),
		})
	}

	common.FollowUpWithEmbed(s, i, buildRankEmbed(displayName, target, standing, len(files) > 0), files...)
}
