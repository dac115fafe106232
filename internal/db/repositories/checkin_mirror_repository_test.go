package repositories

import (
	"context"
	"testing"
	"time"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/db"
	"pine-rivers/rangekiosk/internal/models/entities"
)

func newTestRepo(t *testing.T) *CheckinMirrorRepo {
	t.Helper()
	conn, err := db.ConnectMirror("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open mirror store: %v", err)
	}
	return NewCheckinMirrorRepo(conn)
}

func mirrorRecord(id, memberID, shootDate string, at time.Time) entities.CheckinRecord {
	return entities.CheckinRecord{
		ID:                id,
		Timestamp:         at,
		ShootDate:         shootDate,
		MemberID:          memberID,
		Name:              "Member " + memberID,
		Firearm:           constants.FirearmPistol,
		Klass:             "Centrefire",
		Competition:       constants.CompetitionTarget,
		ParticipationType: constants.ParticipationComp,
		LicenceType:       constants.LicenceKindLicensed,
		LicenceNo:         "QLD1234567",
		LicenceVerified:   true,
		VerifiedBy:        "Alice Officer",
	}
}

func TestAppendAndListByShootDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	records := []entities.CheckinRecord{
		mirrorRecord("rec-1", "300", "2026-09-01", base),
		mirrorRecord("rec-2", "400", "2026-09-01", base.Add(time.Hour)),
		mirrorRecord("rec-3", "500", "2026-08-31", base.Add(-24*time.Hour)),
	}
	for _, rec := range records {
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := repo.ListByShootDate(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows for the day, got %d", len(got))
	}
	if got[0].ID != "rec-2" || got[1].ID != "rec-1" {
		t.Errorf("Expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
	if got[0].LicenceType != constants.LicenceKindLicensed || !got[0].LicenceVerified {
		t.Errorf("Round trip lost licence fields: %+v", got[0])
	}
}

func TestListEmptyDay(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.ListByShootDate(context.Background(), "2026-01-01")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no rows, got %d", len(got))
	}
}
