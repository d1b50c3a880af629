package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"GUILD_ID"` // optional, registers commands to a single guild

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Leveling defaults applied to newly seen guilds
	DefaultXPPerMessage      int `env:"DEFAULT_XP_PER_MESSAGE" envDefault:"15"`
	DefaultXPCooldownSeconds int `env:"DEFAULT_XP_COOLDOWN_SECONDS" envDefault:"60"`
	MinMessageLength         int `env:"MIN_MESSAGE_LENGTH" envDefault:"3"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// NATS configuration, empty disables event forwarding
	NATSServers string `env:"NATS_SERVERS"`

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"`
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"discord-level-bot"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"30000"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.RWMutex
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		cfg, err := load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		mu.Lock()
		instance = cfg
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Init loads the configuration into the global instance, returning any
// error instead of panicking like Get
func Init() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	once.Do(func() {})
	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Load parses configuration from the environment without touching the global instance
func Load() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required values and leveling default ranges
func (c *Config) Validate() error {
	if c.Environment != "test" {
		if c.DiscordToken == "" {
			return fmt.Errorf("DISCORD_TOKEN is required")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	}

	if c.DefaultXPPerMessage < 1 || c.DefaultXPPerMessage > 100 {
		return fmt.Errorf("DEFAULT_XP_PER_MESSAGE must be between 1 and 100, got %d", c.DefaultXPPerMessage)
	}
	if c.DefaultXPCooldownSeconds < 0 || c.DefaultXPCooldownSeconds > 3600 {
		return fmt.Errorf("DEFAULT_XP_COOLDOWN_SECONDS must be between 0 and 3600, got %d", c.DefaultXPCooldownSeconds)
	}
	if c.MinMessageLength < 0 {
		return fmt.Errorf("MIN_MESSAGE_LENGTH cannot be negative")
	}

	return nil
}

// DefaultCooldown returns the default cooldown as a duration
func (c *Config) DefaultCooldown() time.Duration {
	return time.Duration(c.DefaultXPCooldownSeconds) * time.Second
}

// IsProduction reports whether the bot runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewTestConfig returns a configuration suitable for tests
func NewTestConfig() *Config {
	return &Config{
		DefaultXPPerMessage:      15,
		DefaultXPCooldownSeconds: 60,
		MinMessageLength:         3,
		LogLevel:                 "debug",
		LogFormat:                "text",
		OTelExporterType:         "none",
		OTelServiceName:          "discord-level-bot-test",
		OTelExportIntervalMillis: 1000,
		Environment:              "test",
	}
}

// SetTestConfig replaces the global instance, for tests only
func SetTestConfig(cfg *Config) {
	once.Do(func() {})
	mu.Lock()
	instance = cfg
	mu.Unlock()
}

// ResetConfig clears the global instance so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	instance = nil
	once = sync.Once{}
	mu.Unlock()
}
