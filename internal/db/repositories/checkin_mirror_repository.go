package repositories

import (
	"context"
	"fmt"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/models/entities"
	gormModels "pine-rivers/rangekiosk/internal/models/gorm"

	"gorm.io/gorm"
)

// CheckinMirrorRepo persists committed check-ins to the crash-recovery
// mirror, one row per commit, independent of the in-memory ledger.
type CheckinMirrorRepo struct {
	db *gorm.DB
}

// NewCheckinMirrorRepo creates a new GORM-based mirror repository
func NewCheckinMirrorRepo(db *gorm.DB) *CheckinMirrorRepo {
	return &CheckinMirrorRepo{db: db}
}

// Append writes one committed check-in record to the mirror
func (r *CheckinMirrorRepo) Append(ctx context.Context, rec entities.CheckinRecord) error {
	row := gormModels.CheckinRow{
		ID:                rec.ID,
		Timestamp:         rec.Timestamp,
		ShootDate:         rec.ShootDate,
		MemberID:          rec.MemberID,
		Name:              rec.Name,
		Firearm:           string(rec.Firearm),
		Klass:             rec.Klass,
		Competition:       string(rec.Competition),
		ParticipationType: string(rec.ParticipationType),
		LicenceType:       string(rec.LicenceType),
		LicenceNo:         rec.LicenceNo,
		LicenceVerified:   rec.LicenceVerified,
		VerifiedBy:        rec.VerifiedBy,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append check-in to mirror: %w", err)
	}
	return nil
}

// ListByShootDate returns the mirrored rows for one shoot day, newest first
func (r *CheckinMirrorRepo) ListByShootDate(ctx context.Context, shootDate string) ([]entities.CheckinRecord, error) {
	var rows []gormModels.CheckinRow
	err := r.db.WithContext(ctx).
		Where("shoot_date = ?", shootDate).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mirrored check-ins: %w", err)
	}

	records := make([]entities.CheckinRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, entities.CheckinRecord{
			ID:                row.ID,
			Timestamp:         row.Timestamp,
			ShootDate:         row.ShootDate,
			MemberID:          row.MemberID,
			Name:              row.Name,
			Firearm:           constants.FirearmCategory(row.Firearm),
			Klass:             row.Klass,
			Competition:       constants.CompetitionType(row.Competition),
			ParticipationType: constants.ParticipationType(row.ParticipationType),
			LicenceType:       constants.LicenceKind(row.LicenceType),
			LicenceNo:         row.LicenceNo,
			LicenceVerified:   row.LicenceVerified,
			VerifiedBy:        row.VerifiedBy,
		})
	}
	return records, nil
}
