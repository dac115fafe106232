package constants

const (
	StatusError         = "Error"
	StatusSyncFailed    = "Sync failed (check data source configuration)"
	StatusSynced        = "Members synced"
	StatusNoMembers     = "No members to export"
	StatusCheckinSaved  = "Check-in saved"
	StatusFinalized     = "Participation finalised"
	StatusNeedsConfig   = "Saved locally, needs manual send"
	StatusNotAuthorized = "Only a current Range Officer can unlock"
)

const (
	MsgMustUnlock         = "Please unlock by Range Officer (scan RO card or enter PIN)"
	MsgMissingFields      = "Please fill member + all fields (including Participation Type)"
	MsgVisitorIDRequired  = "Please enter the visitor ID type/number"
	MsgIncorrectPIN       = "Incorrect PIN"
	MsgSelectRO           = "Please select a Range Officer from the list"
	MsgEnterROName        = "Enter the verifying RO name"
	MsgSelfVerify         = "An RO cannot verify their own check-in. Please pick another RO"
	MsgAttestationMissing = "Please tick \"Licence/ID verified\""
	MsgNoPendingDraft     = "No check-in is awaiting verification"
	MsgDraftPending       = "A check-in is already awaiting verification"
	MsgNoRows             = "No check-ins to finalise yet"
	MsgMissingSafetyBrief = "Safety briefing deliverer and verifier are required"
	MsgScanNotRecognised  = "Scan not recognised as PRSC ID or licence"
	MsgKioskModeHidden    = "Roster is hidden while kiosk mode is active"
	MsgActionInFlight     = "Action already in progress"
)
