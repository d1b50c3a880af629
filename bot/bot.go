package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/bot/features/admin"
	"github.com/duskdeveloper/discord-level-bot/bot/features/leaderboard"
	"github.com/duskdeveloper/discord-level-bot/bot/features/leveling"
	"github.com/duskdeveloper/discord-level-bot/bot/features/levelroles"
	"github.com/duskdeveloper/discord-level-bot/bot/features/rank"
	"github.com/duskdeveloper/discord-level-bot/bot/features/settings"
	"github.com/duskdeveloper/discord-level-bot/infrastructure/observability"
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string // optional, registers commands to this guild only
	MinMessageLength int
}

// Intents needed for message XP, member role updates and guild joins
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsMessageContent

type commandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

type Bot struct {
	config    Config
	session   *discordgo.Session
	cooldowns *service.MemoryCooldownStore

	levelingFeature *leveling.Feature
	commands        map[string]commandHandler

	stopCooldownWorker func()
}

func New(config Config, levelingService service.LevelingService, configService service.GuildConfigService, cooldowns *service.MemoryCooldownStore) (*Bot, error) {
	if config.Token == "" {
		return nil, errors.New("discord token is required")
	}

	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = intents

	bot := &Bot{
		config:          config,
		session:         dg,
		cooldowns:       cooldowns,
		levelingFeature: leveling.New(levelingService, configService, config.MinMessageLength),
	}
	bot.commands = routeCommands(levelingService, configService)

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.levelingFeature.HandleGuildCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start background workers
	bot.stopCooldownWorker = bot.StartCooldownPruneWorker(context.Background())
	log.Info("Background workers started")

	return bot, nil
}

// routeCommands maps each slash command name to its feature
func routeCommands(levelingService service.LevelingService, configService service.GuildConfigService) map[string]commandHandler {
	adminFeature := admin.New(levelingService)

	return map[string]commandHandler{
		CommandRank:        rank.New(levelingService).HandleCommand,
		CommandLeaderboard: leaderboard.New(levelingService).HandleCommand,
		admin.CommandAddXP: adminFeature.HandleCommand,
		admin.CommandSetXP: adminFeature.HandleCommand,
		CommandConfig:      settings.NewFeature(configService).HandleCommand,
		CommandLevelRole:   levelroles.New(levelingService).HandleCommand,
	}
}

func (b *Bot) Close() error {
	if b.stopCooldownWorker != nil {
		b.stopCooldownWorker()
	}
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"username": r.User.Username,
		"guilds":   len(r.Guilds),
	}).Info("Bot is ready")

	err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name: "users level up!",
				Type: discordgo.ActivityTypeWatching,
			},
		},
		Status: string(discordgo.StatusOnline),
	})
	if err != nil {
		log.Warnf("Failed to set presence: %v", err)
	}
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := b.commands[name]
	if !ok {
		log.Warnf("Unknown command: %s", name)
		return
	}

	observability.GetMetrics().RecordCommand(name)
	handler(s, i)
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if s.State.User != nil && m.Author != nil && m.Author.ID == s.State.User.ID {
		return
	}
	b.levelingFeature.HandleMessage(s, m)
}
