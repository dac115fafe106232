package jobs

import (
	"context"
	"log"
	"time"

	"pine-rivers/rangekiosk/internal/services"
)

// RosterSyncJob refreshes the roster snapshot from the membership database
// on a schedule, so the kiosk starts each shoot day with current data.
type RosterSyncJob struct {
	syncService *services.RosterSyncService
}

// NewRosterSyncJob creates a new roster sync job instance
func NewRosterSyncJob(syncService *services.RosterSyncService) *RosterSyncJob {
	return &RosterSyncJob{syncService: syncService}
}

// Run executes one roster sync
func (j *RosterSyncJob) Run(ctx context.Context) error {
	_, err := j.syncService.Sync(ctx)
	return err
}

// RunScheduled runs the roster sync on a schedule until the context ends.
// The first sync runs immediately so the kiosk is usable at startup.
func (j *RosterSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		log.Printf("[RosterSyncJob] Error in initial run: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[RosterSyncJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[RosterSyncJob] Stopping scheduled sync")
			return
		}
	}
}
