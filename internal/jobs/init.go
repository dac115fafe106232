package jobs

import (
	"context"
	"time"

	"pine-rivers/rangekiosk/internal/services"
)

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(ctx context.Context, syncService *services.RosterSyncService, interval time.Duration) *RosterSyncJob {
	rosterSyncJob := NewRosterSyncJob(syncService)

	// Start scheduled sync in background
	go rosterSyncJob.RunScheduled(ctx, interval)

	return rosterSyncJob
}
