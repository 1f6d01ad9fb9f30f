// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSessionSweeper purges expired settlement sessions once a minute.
func StartSessionSweeper(store *SessionStore) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if removed := store.Sweep(); removed > 0 {
				log.Printf("[Sweeper] Dropped %d expired settlement session(s)", removed)
			}
		}),
	)
}
