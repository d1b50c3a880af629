package bot

import (
	"context"
	"time"

	"github.com/duskdeveloper/discord-level-bot/service"

	log "github.com/sirupsen/logrus"
)

const cooldownPruneInterval = 10 * time.Minute

// StartCooldownPruneWorker periodically drops cooldown reservations that can
// no longer gate an award. Returns a cleanup function to stop the worker.
func (b *Bot) StartCooldownPruneWorker(ctx context.Context) func() {
	return startCooldownPruneWorker(ctx, b.cooldowns, cooldownPruneInterval, time.Now)
}

func startCooldownPruneWorker(ctx context.Context, store *service.MemoryCooldownStore, interval time.Duration, now func() time.Time) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	prune := func() {
		if removed := store.Prune(now()); removed > 0 {
			log.WithFields(log.Fields{
				"removed":   removed,
				"remaining": store.Len(),
			}).Debug("Pruned expired cooldowns")
		}
	}

	go func() {
		defer close(done)
		log.Info("Cooldown prune worker started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Cooldown prune worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Cooldown prune worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				prune()
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		ticker.Stop()
		close(stopChan)
		<-done
	}
}
