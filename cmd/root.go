package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "levelbot",
	Short:         "Discord leveling bot",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnvFile(envFile)
		configureLogging(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	},
	// Running without a subcommand starts the bot
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default .env when present)")
}

// loadEnvFile applies a .env file without overriding variables already set
func loadEnvFile(path string) {
	if path == "" {
		if err := godotenv.Load(); err != nil {
			log.Debug("No .env file found")
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Warnf("Could not load env file %s: %v", path, err)
	}
}

// configureLogging sets the logrus level and formatter
func configureLogging(level, format string) {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Errorf("Application error: %v", err)
		stop()
		os.Exit(1)
	}
}
