package rank

import (
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	levelingService service.LevelingService
	cards           *CardRenderer
}

func New(levelingService service.LevelingService) *Feature {
	return &Feature{
		levelingService: levelingService,
		cards:           NewCardRenderer(),
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRank(s, i)
}
