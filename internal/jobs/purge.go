// Package jobs héberge les tâches planifiées du service.
package jobs

import (
	"github.com/robfig/cron/v3"

	"fpbg/internal/logs"
	"fpbg/internal/pending"
)

// StartPurge balaie chaque minute les inscriptions en attente expirées du
// store mémoire (Redis expire seul via TTL). Renvoie le scheduler pour
// l'arrêt propre.
func StartPurge(store *pending.MemoryStore) *cron.Cron {
	c := cron.New()
	_, _ = c.AddFunc("* * * * *", func() {
		if n := store.PurgeExpired(); n > 0 {
			logs.Logger.Infof("purge inscriptions expirées: %d", n)
		}
	})
	c.Start()
	return c
}
