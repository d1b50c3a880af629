package leaderboard

import (
	"context"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	leaderboardFailedMessage = "An error occurred while fetching the leaderboard."
	nameLookupConcurrency    = 5
)

// handleLeaderboard handles /leaderboard [page]
func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.NewOptionMap(i.ApplicationCommandData().Options)

	page := 1
	if value, ok := options.Int("page"); ok {
		page = int(value)
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, leaderboardFailedMessage)
		return
	}

	// Name lookups may hit the REST API once per entry
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring leaderboard response: %v", err)
		return
	}

	result, err := f.levelingService.GetLeaderboard(ctx, guildID, page)
	if err != nil {
		common.HandleError(s, i, err, leaderboardFailedMessage, true)
		return
	}

	if len(result.Entries) == 0 {
		common.FollowUpWithMessage(s, i, "No users found in the leaderboard!")
		return
	}

	names := resolveNames(result.Entries, func(userID string) string {
		return common.GetDisplayName(s, i.GuildID, userID)
	})

	common.FollowUpWithEmbed(s, i, buildLeaderboardEmbed(result, names))
}

// resolveNames looks up display names for every entry concurrently
func resolveNames(entries []*models.LeaderboardEntry, lookup func(userID string) string) map[int64]string {
	names := make([]string, len(entries))

	g := new(errgroup.Group)
	g.SetLimit(nameLookupConcurrency)
	for idx, entry := range entries {
		g.Go(func() error {
			names[idx] = lookup(common.FormatID(entry.DiscordID))
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[int64]string, len(entries))
	for idx, entry := range entries {
		out[entry.DiscordID] = names[idx]
	}
	return out
}
