package settings

import (
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles guild leveling configuration
type Feature struct {
	configService service.GuildConfigService
}

// NewFeature creates a new settings feature instance
func NewFeature(configService service.GuildConfigService) *Feature {
	return &Feature{
		configService: configService,
	}
}

// HandleCommand handles /config
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleConfig(s, i)
}
