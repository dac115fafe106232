package entities

import (
	"time"

	"pine-rivers/rangekiosk/internal/constants"
)

// CheckinDraft holds one in-progress check-in. Mutable only while it waits
// for verification; frozen into a CheckinRecord on commit.
type CheckinDraft struct {
	MemberID          string                      `json:"memberId"`
	Name              string                      `json:"name"`
	Email             string                      `json:"email"`
	Firearm           constants.FirearmCategory   `json:"firearm"`
	Klass             string                      `json:"klass"`
	Competition       constants.CompetitionType   `json:"competition"`
	ParticipationType constants.ParticipationType `json:"participationType"`
	ShootDate         string                      `json:"shootDate"`
	LicenceType       constants.LicenceKind       `json:"licenceType"`
	LicenceNo         string                      `json:"licenceNo"`
}

// CheckinRecord is an immutable row of the session ledger.
type CheckinRecord struct {
	ID                string                      `json:"id"`
	Timestamp         time.Time                   `json:"timestamp"`
	ShootDate         string                      `json:"shootDate"`
	MemberID          string                      `json:"memberId"`
	Name              string                      `json:"name"`
	Email             string                      `json:"email"`
	Firearm           constants.FirearmCategory   `json:"firearm"`
	Klass             string                      `json:"klass"`
	Competition       constants.CompetitionType   `json:"competition"`
	ParticipationType constants.ParticipationType `json:"participationType"`
	LicenceType       constants.LicenceKind       `json:"licenceType"`
	LicenceNo         string                      `json:"licenceNo"`
	LicenceVerified   bool                        `json:"licenceVerified"`
	VerifiedBy        string                      `json:"verifiedBy"`
}

// SafetyBrief carries the end-of-day safety briefing attestation. Each half
// is either a member id or a free-text name.
type SafetyBrief struct {
	DeliveredBy string `json:"deliveredBy"`
	VerifiedBy  string `json:"verifiedBy"`
}

// Complete reports whether both halves of the attestation are present.
func (b SafetyBrief) Complete() bool {
	return b.DeliveredBy != "" && b.VerifiedBy != ""
}
