package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"pine-rivers/rangekiosk/internal/common"
	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/metrics"
	"pine-rivers/rangekiosk/internal/providers"
	"pine-rivers/rangekiosk/internal/roster"
)

// SyncSummary is cached after each successful sync for quick status reads
type SyncSummary struct {
	MemberCount       int       `json:"member_count"`
	RangeOfficerCount int       `json:"range_officer_count"`
	SyncedAt          time.Time `json:"synced_at"`
}

// RosterSyncService replaces the roster snapshot from the external
// membership source. A failed fetch leaves the prior snapshot untouched.
type RosterSyncService struct {
	provider providers.MemberProvider
	store    *roster.Store
	cache    common.CacheInterface
	metrics  *metrics.MetricsRegistry
}

// NewRosterSyncService creates a new roster sync service
func NewRosterSyncService(
	provider providers.MemberProvider,
	store *roster.Store,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) *RosterSyncService {
	return &RosterSyncService{
		provider: provider,
		store:    store,
		cache:    cache,
		metrics:  metricsReg,
	}
}

// Sync fetches the membership list and swaps the snapshot wholesale
func (s *RosterSyncService) Sync(ctx context.Context) (*SyncSummary, error) {
	start := time.Now()
	log.Printf("[RosterSync] Starting roster sync at %s", start.Format(time.RFC3339))

	if s.provider == nil {
		return nil, fmt.Errorf("%s: no member provider configured", constants.StatusSyncFailed)
	}

	members, err := s.provider.FetchMembers(ctx)
	if err != nil {
		log.Printf("[RosterSync] Fetch failed, keeping previous roster: %v", err)
		return nil, fmt.Errorf("%s: %w", constants.StatusSyncFailed, err)
	}

	s.store.Replace(members)

	roCount := 0
	for _, m := range members {
		if m.IsRangeOfficer {
			roCount++
		}
	}

	summary := &SyncSummary{
		MemberCount:       len(members),
		RangeOfficerCount: roCount,
		SyncedAt:          time.Now().UTC(),
	}
	if s.cache != nil {
		s.cache.Set(string(constants.CachePrefixSyncSummary), summary, 24*time.Hour)
	}
	if s.metrics != nil {
		s.metrics.RosterSize.Set(float64(summary.MemberCount))
		s.metrics.RangeOfficerCount.Set(float64(roCount))
		s.metrics.SyncJobDuration.WithLabelValues("roster_sync").Observe(time.Since(start).Seconds())
	}

	log.Printf("[RosterSync] Completed in %s. Synced %d financial members (%d ROs)",
		time.Since(start).Truncate(time.Millisecond), summary.MemberCount, roCount)

	return summary, nil
}

// LastSummary returns the cached summary of the most recent successful sync
func (s *RosterSyncService) LastSummary() (*SyncSummary, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, found := s.cache.Get(string(constants.CachePrefixSyncSummary))
	if !found {
		return nil, false
	}
	summary, ok := val.(*SyncSummary)
	if !ok {
		return nil, false
	}
	return summary, true
}
