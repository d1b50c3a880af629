package levelroles

import (
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/bwmarrin/discordgo"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionList   = "list"
)

// Feature manages the level threshold to role mapping
type Feature struct {
	levelingService service.LevelingService
}

func New(levelingService service.LevelingService) *Feature {
	return &Feature{
		levelingService: levelingService,
	}
}

// HandleCommand handles /levelrole action [level] [role]
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLevelRole(s, i)
}
