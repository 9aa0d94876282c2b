package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"dentalsites_backend/internal/controller"
)

// InitSessionSweepCron limpa sessões de briefing abandonadas.
func InitSessionSweepCron() {
	c := cron.New()

	_, err := c.AddFunc("0 * * * *", func() {
		removed := controller.SweepSessions()
		if removed > 0 {
			log.Printf("Swept %d stale briefing sessions", removed)
		}
	})

	if err != nil {
		log.Printf("Could not initialize session sweep cron: %v", err)
		return
	}

	c.Start()
}
