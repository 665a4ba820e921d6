// File: /jobs/draft_cleanup_job.go
package jobs

import (
	"fmt"
	"time"

	"fiesta-api/services"
)

// DraftCleanupJob drops event drafts nobody has touched for a while, so
// abandoned form sessions don't accumulate in memory.
type DraftCleanupJob struct {
	drafts *services.DraftRegistry
	ttl    time.Duration
	ticker *time.Ticker
	done   chan bool
}

// NewDraftCleanupJob creates a new draft cleanup job
func NewDraftCleanupJob(drafts *services.DraftRegistry, interval, ttl time.Duration) *DraftCleanupJob {
	return &DraftCleanupJob{
		drafts: drafts,
		ttl:    ttl,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the cleanup job
func (j *DraftCleanupJob) Start() {
	fmt.Println("Draft cleanup job started")

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Draft cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *DraftCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *DraftCleanupJob) cleanup() {
	removed := j.drafts.Sweep(j.ttl)
	if removed > 0 {
		fmt.Printf("Draft cleanup removed %d idle draft(s)\n", removed)
	}
}
