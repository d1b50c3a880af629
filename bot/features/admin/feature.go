package admin

import (
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandAddXP = "addxp"
	CommandSetXP = "setxp"
)

// Feature serves the administrative XP commands
type Feature struct {
	levelingService service.LevelingService
}

func New(levelingService service.LevelingService) *Feature {
	return &Feature{
		levelingService: levelingService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case CommandAddXP:
		f.handleAdjust(s, i, f.levelingService.AddXP)
	case CommandSetXP:
		f.handleAdjust(s, i, f.levelingService.SetXP)
	}
}
