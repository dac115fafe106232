package responses

import (
	"pine-rivers/rangekiosk/internal/models/entities"
)

// SyncResponse summarizes a completed roster sync
type SyncResponse struct {
	MemberCount       int    `json:"member_count"`
	RangeOfficerCount int    `json:"range_officer_count"`
	Message           string `json:"message"`
}

// UnlockResponse is returned when the session lock opens
type UnlockResponse struct {
	UnlockedBy string `json:"unlocked_by"`
	MemberID   string `json:"member_id,omitempty"`
	Token      string `json:"token"`
	Message    string `json:"message"`
}

// ScanResponse reports the outcome of one classified scan line
type ScanResponse struct {
	Outcome  string           `json:"outcome"`
	MemberID string           `json:"member_id,omitempty"`
	Member   *entities.Member `json:"member,omitempty"`
	Licence  string           `json:"licence,omitempty"`
	Unlocked bool             `json:"unlocked"`
	// Token is set when this scan opened the session lock
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// SessionStatusResponse reports the lock and state machine position
type SessionStatusResponse struct {
	Unlocked    bool   `json:"unlocked"`
	UnlockedBy  string `json:"unlocked_by,omitempty"`
	MemberID    string `json:"member_id,omitempty"`
	State       string `json:"state"`
	KioskMode   bool   `json:"kiosk_mode"`
	LedgerCount int    `json:"ledger_count"`
}

// StartCheckinResponse carries the pending draft and the suggested verifier.
// The default verifier is a suggestion only; commit always names one explicitly.
type StartCheckinResponse struct {
	Draft              entities.CheckinDraft `json:"draft"`
	DefaultVerifierID  string                `json:"default_verifier_id,omitempty"`
	AttestationNeeded  bool                  `json:"attestation_needed"`
	VerifierCandidates []entities.Member     `json:"verifier_candidates"`
}

// CommitCheckinResponse reports a committed check-in plus the notification outcome
type CommitCheckinResponse struct {
	Record       entities.CheckinRecord `json:"record"`
	EmailSent    bool                   `json:"email_sent"`
	EmailMessage string                 `json:"email_message,omitempty"`
}

// QRExportResponse reports how many credential images were written and where
type QRExportResponse struct {
	Count  int    `json:"count"`
	Folder string `json:"folder"`
}

// FinalizeResponse mirrors the report sink outcome verbatim
type FinalizeResponse struct {
	Delivered   bool   `json:"delivered"`
	NeedsConfig bool   `json:"needs_config"`
	SavedAs     string `json:"saved_as"`
	Folder      string `json:"folder"`
	Recipient   string `json:"recipient"`
	Message     string `json:"message,omitempty"`
}
