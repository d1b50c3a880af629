package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/duskdeveloper/discord-level-bot/bot"
	"github.com/duskdeveloper/discord-level-bot/config"
	"github.com/duskdeveloper/discord-level-bot/database"
	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/infrastructure"
	"github.com/duskdeveloper/discord-level-bot/infrastructure/observability"
	"github.com/duskdeveloper/discord-level-bot/models"
	"github.com/duskdeveloper/discord-level-bot/repository"
	"github.com/duskdeveloper/discord-level-bot/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the leveling bot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// Run initializes and starts the application, blocking until ctx is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting discord level bot...")

	cfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Initialize database connection
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	if err := database.MigrateUp(databaseURL); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	eventBus := events.NewBus()

	// Optional JetStream forwarding of leveling events
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient, err = connectNATS(ctx, cfg.NATSServers, eventBus)
		if err != nil {
			db.Close()
			return err
		}
	} else {
		log.Info("NATS_SERVERS not set, event forwarding disabled")
	}

	defaults := models.GuildDefaults{
		XPPerMessage:      cfg.DefaultXPPerMessage,
		XPCooldownSeconds: cfg.DefaultXPCooldownSeconds,
	}
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, defaults)

	cooldowns := service.NewMemoryCooldownStore()
	levelingService := service.NewLevelingService(uowFactory, cooldowns, nil)
	configService := service.NewGuildConfigService(uowFactory)

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.DiscordGuildID,
		MinMessageLength: cfg.MinMessageLength,
	}, levelingService, configService, cooldowns)
	if err != nil {
		closeNATS(natsClient)
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	return shutdown(discordBot, eventBus, natsClient, db)
}

func connectNATS(ctx context.Context, servers string, eventBus *events.Bus) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := client.EnsureLevelEventStream(); err != nil {
		closeNATS(client)
		return nil, fmt.Errorf("failed to ensure level event stream: %w", err)
	}

	infrastructure.NewEventForwarder(client).Register(eventBus)
	log.Info("Leveling events will be forwarded to NATS")
	return client, nil
}

func closeNATS(client *infrastructure.NATSClient) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Errorf("Error closing NATS connection: %v", err)
	}
}

// shutdown stops the gateway first so no new events are produced, lets
// in-flight handlers finish, then releases the remaining resources together
func shutdown(discordBot *bot.Bot, eventBus *events.Bus, natsClient *infrastructure.NATSClient, db *database.DB) error {
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	drained := make(chan struct{})
	go func() {
		eventBus.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded waiting for event handlers")
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		closeNATS(natsClient)
		return nil
	})
	g.Go(func() error {
		return observability.ShutdownGlobalMetrics(shutdownCtx)
	})
	err := g.Wait()

	log.Info("Closing database connection...")
	db.Close()

	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Shutdown completed")
	return nil
}
