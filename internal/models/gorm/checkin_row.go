package gorm

import "time"

// CheckinRow is the crash-recovery mirror of one committed check-in,
// appended per record independently of the in-memory ledger.
type CheckinRow struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Timestamp         time.Time `gorm:"column:timestamp"`
	ShootDate         string    `gorm:"column:shoot_date;index"`
	MemberID          string    `gorm:"column:member_id"`
	Name              string    `gorm:"column:name"`
	Firearm           string    `gorm:"column:firearm"`
	Klass             string    `gorm:"column:klass"`
	Competition       string    `gorm:"column:competition"`
	ParticipationType string    `gorm:"column:participation_type"`
	LicenceType       string    `gorm:"column:licence_type"`
	LicenceNo         string    `gorm:"column:licence_no"`
	LicenceVerified   bool      `gorm:"column:licence_verified;default:false"`
	VerifiedBy        string    `gorm:"column:verified_by"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (CheckinRow) TableName() string {
	return "checkin_rows"
}
