package leveling

import (
	"context"
	"unicode/utf8"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleMessage awards XP for a guild message and announces any level-up
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	f.processMessage(context.Background(), NewSessionOps(s), m.Message)
}

// HandleGuildCreate makes sure a config row exists for every guild the bot joins
func (f *Feature) HandleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	guildID, err := common.ParseID(g.ID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", g.ID, err)
		return
	}

	if _, err := f.configService.GetConfig(context.Background(), guildID); err != nil {
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"error":    err,
		}).Error("Failed to ensure guild config")
		return
	}
	log.WithField("guild_id", guildID).Debug("Guild config ready")
}

// ignored reports whether a message never earns XP
func (f *Feature) ignored(m *discordgo.Message) bool {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return true
	}
	return utf8.RuneCountInString(m.Content) < f.minMessageLength
}

// processMessage runs the award for one message and returns the recorded outcome
func (f *Feature) processMessage(ctx context.Context, ops GuildOps, m *discordgo.Message) string {
	metrics := observability.GetMetrics()

	if f.ignored(m) {
		metrics.RecordMessageProcessed(observability.OutcomeIgnored)
		return observability.OutcomeIgnored
	}

	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", m.GuildID, err)
		metrics.RecordMessageProcessed(observability.OutcomeError)
		return observability.OutcomeError
	}
	userID, err := common.ParseID(m.Author.ID)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", m.Author.ID, err)
		metrics.RecordMessageProcessed(observability.OutcomeError)
		return observability.OutcomeError
	}

	result, err := f.levelingService.AwardMessageXP(ctx, guildID, userID, utf8.RuneCountInString(m.Content), f.now())
	if err != nil {
		log.WithFields(log.Fields{
			"guild_id":   guildID,
			"user_id":    userID,
			"channel_id": m.ChannelID,
			"error":      err,
		}).Error("Failed to award message XP")
		metrics.RecordMessageProcessed(observability.OutcomeError)
		return observability.OutcomeError
	}

	if result == nil {
		metrics.RecordMessageProcessed(observability.OutcomeCooldown)
		return observability.OutcomeCooldown
	}

	metrics.RecordMessageProcessed(observability.OutcomeAwarded)
	metrics.RecordXPAwarded(result.XPGained)

	if result.LeveledUp {
		metrics.RecordLevelUp()
		log.WithFields(log.Fields{
			"guild_id":  guildID,
			"user_id":   userID,
			"old_level": result.OldLevel,
			"new_level": result.NewLevel,
		}).Info("User leveled up")
		f.notifier.Notify(ctx, ops, result, m.ChannelID, m.Author)
	}

	return observability.OutcomeAwarded
}
