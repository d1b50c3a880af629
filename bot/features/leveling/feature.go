package leveling

import (
	"time"

	"github.com/duskdeveloper/discord-level-bot/service"
)

type Feature struct {
	levelingService  service.LevelingService
	configService    service.GuildConfigService
	notifier         *Notifier
	minMessageLength int
	now              func() time.Time
}

func New(levelingService service.LevelingService, configService service.GuildConfigService, minMessageLength int) *Feature {
	return &Feature{
		levelingService:  levelingService,
		configService:    configService,
		notifier:         NewNotifier(configService),
		minMessageLength: minMessageLength,
		now:              time.Now,
	}
}
