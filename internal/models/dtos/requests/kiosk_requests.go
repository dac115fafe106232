package requests

import (
	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/models/entities"
)

// ScanRequest is one raw scanner/keyboard line, already terminated by Enter
type ScanRequest struct {
	Raw string `json:"raw"`
}

// ScanKeyRequest is a single keystroke forwarded to the idle-gap accumulator
type ScanKeyRequest struct {
	Key string `json:"key"`
}

// UnlockRequest is the PIN fallback for opening the session lock
type UnlockRequest struct {
	PIN string `json:"pin"`
	// MemberID selects a Range Officer from the roster
	MemberID string `json:"member_id,omitempty"`
	// Name is the freeform first-run bootstrap when no ROs are on the roster
	Name string `json:"name,omitempty"`
}

// StartCheckinRequest carries the filled check-in form
type StartCheckinRequest struct {
	MemberID          string                      `json:"member_id"`
	Name              string                      `json:"name"`
	Email             string                      `json:"email"`
	Firearm           constants.FirearmCategory   `json:"firearm"`
	Klass             string                      `json:"klass"`
	Competition       constants.CompetitionType   `json:"competition"`
	ParticipationType constants.ParticipationType `json:"participation_type"`
	ShootDate         string                      `json:"shoot_date"`
	LicenceNo         string                      `json:"licence_no,omitempty"`
	// VisitorIDDocument is required when participation type is VISITOR
	VisitorIDDocument string `json:"visitor_id_document,omitempty"`
}

// CommitCheckinRequest resolves the verifier and attestation for the pending draft
type CommitCheckinRequest struct {
	VerifierID   string `json:"verifier_id,omitempty"`
	VerifierName string `json:"verifier_name,omitempty"`
	Attested     bool   `json:"attested"`
}

// FinalizeRequest closes out the day's ledger
type FinalizeRequest struct {
	Recipient   string               `json:"recipient,omitempty"`
	ShootDate   string               `json:"shoot_date,omitempty"`
	SafetyBrief entities.SafetyBrief `json:"safety_brief"`
}

// KioskModeRequest toggles the admin-hiding kiosk display mode
type KioskModeRequest struct {
	Enabled bool `json:"enabled"`
}
