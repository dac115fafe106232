package constants

import (
	"database/sql/driver"
	"fmt"
)

// ParticipationType mirrors the values offered on the check-in form
type ParticipationType string

const (
	ParticipationRO        ParticipationType = "RO"
	ParticipationComp      ParticipationType = "COMP"
	ParticipationVisitor   ParticipationType = "VISITOR"
	ParticipationSpectator ParticipationType = "SPECTATOR"
)

// String makes the value print cleanly in logs
func (p ParticipationType) String() string { return string(p) }

// Valid reports whether the value is one of the known participation types
func (p ParticipationType) Valid() bool {
	switch p {
	case ParticipationRO, ParticipationComp, ParticipationVisitor, ParticipationSpectator:
		return true
	}
	return false
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (p *ParticipationType) Scan(src interface{}) error {
	if src == nil {
		*p = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*p = ParticipationType(v)
	case []byte:
		*p = ParticipationType(v)
	default:
		return fmt.Errorf("ParticipationType: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (p ParticipationType) Value() (driver.Value, error) { return string(p), nil }

// FirearmCategory is the firearm selected for the day (H = pistol, AB = long arms)
type FirearmCategory string

const (
	FirearmPistol   FirearmCategory = "H"
	FirearmLongArms FirearmCategory = "AB"
)

// Label returns the operator-facing description of the category
func (f FirearmCategory) Label() string {
	if f == FirearmPistol {
		return "Pistol (H)"
	}
	return "Long arms (A/B)"
}

// CompetitionType is the competition discipline for the check-in
type CompetitionType string

const (
	CompetitionTarget     CompetitionType = "TARGET"
	CompetitionSilhouette CompetitionType = "SILHOUETTE"
)

// Label returns the operator-facing description of the competition
func (c CompetitionType) Label() string {
	if c == CompetitionSilhouette {
		return "Metal Silhouette"
	}
	return "Target"
}

// LicenceKind classifies how the licence requirement on a check-in was met
type LicenceKind string

const (
	// LicenceKindNone means no licence requirement attached to the check-in
	LicenceKindNone LicenceKind = ""
	// LicenceKindLicensed means a firearms licence number is on file / was entered
	LicenceKindLicensed LicenceKind = "licensed"
	// LicenceKindID means a visitor-supplied identity document
	LicenceKindID LicenceKind = "ID"
)

type CachePrefix string

const (
	CachePrefixSyncSummary CachePrefix = "SYNC_SUMMARY"
)

// QRPayloadPrefix is the first segment of every club credential payload
const QRPayloadPrefix = "PRSC"

// CSVColumns is the fixed column order of the participation report
var CSVColumns = []string{
	"timestamp", "shootDate", "memberId", "name", "firearm", "klass",
	"competition", "participationType", "licenceType", "licenceNo",
	"licenceVerified", "verifiedBy",
}
