package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"pine-rivers/rangekiosk/internal/checkin"
	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/logging"
	"pine-rivers/rangekiosk/internal/models/dtos/requests"
	"pine-rivers/rangekiosk/internal/models/dtos/responses"
	"pine-rivers/rangekiosk/internal/scan"
	"pine-rivers/rangekiosk/internal/services"
	"pine-rivers/rangekiosk/internal/session"
)

// Handlers holds handler methods with their shared dependencies
type Handlers struct {
	deps *Dependencies

	// single-slot gates for the long-running admin actions
	syncInFlight     atomic.Bool
	finalizeInFlight atomic.Bool

	kioskMode atomic.Bool
}

// NewHandlers creates handlers with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{deps: deps}
}

// TriggerRosterSync handles POST /api/v1/roster/sync
func (h *Handlers) TriggerRosterSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.syncInFlight.CompareAndSwap(false, true) {
			respondWithError(w, http.StatusConflict, constants.MsgActionInFlight)
			return
		}
		defer h.syncInFlight.Store(false)

		summary, err := h.deps.Services.RosterSync.Sync(r.Context())
		if err != nil {
			respondWithError(w, http.StatusBadGateway, err.Error())
			return
		}

		resp := responses.SyncResponse{
			MemberCount:       summary.MemberCount,
			RangeOfficerCount: summary.RangeOfficerCount,
			Message:           constants.StatusSynced,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetRoster handles GET /api/v1/roster. Kiosk mode hides the member list
// regardless of the lock state.
func (h *Handlers) GetRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.kioskMode.Load() {
			respondWithError(w, http.StatusForbidden, constants.MsgKioskModeHidden)
			return
		}
		members := h.deps.Roster.Members()
		respondWithSuccess(w, http.StatusOK, &members)
	}
}

// GetRosterStatus handles GET /api/v1/roster/status
func (h *Handlers) GetRosterStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, ok := h.deps.Services.RosterSync.LastSummary()
		if !ok {
			respondWithError(w, http.StatusNotFound, "No completed sync on record")
			return
		}
		respondWithSuccess(w, http.StatusOK, summary)
	}
}

// ExportQRCodes handles POST /api/v1/admin/qr-export
func (h *Handlers) ExportQRCodes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members := h.deps.Roster.Members()
		if len(members) == 0 {
			respondWithError(w, http.StatusBadRequest, constants.StatusNoMembers)
			return
		}

		count, folder, err := h.deps.Services.QRExport.Export(r.Context(), members)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp := responses.QRExportResponse{Count: count, Folder: folder}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// ScanLine handles POST /api/v1/scan: one complete scanner line
func (h *Handlers) ScanLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		h.resolveScan(w, req.Raw)
	}
}

// ScanKey handles POST /api/v1/scan/key: a single forwarded keystroke. The
// accumulator assembles keystrokes into lines using the scanner idle gap.
func (h *Handlers) ScanKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ScanKeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		line, complete := h.deps.Accumulator.Push(req.Key, time.Now())
		if !complete {
			resp := responses.ScanResponse{Outcome: "pending", Unlocked: h.deps.Lock.Unlocked()}
			respondWithSuccess(w, http.StatusAccepted, &resp)
			return
		}
		h.resolveScan(w, line)
	}
}

// resolveScan classifies a complete line against the current lock state and
// writes the outcome
func (h *Handlers) resolveScan(w http.ResponseWriter, raw string) {
	locked := !h.deps.Lock.Unlocked()
	tok := scan.Classify(raw, h.deps.Roster, locked)
	h.deps.Metrics.ScansTotal.WithLabelValues(string(tok.Kind)).Inc()

	switch tok.Kind {
	case scan.KindNotAuthorized:
		h.deps.Metrics.FailedUnlocksTotal.WithLabelValues("not_authorized").Inc()
		respondWithError(w, http.StatusForbidden, constants.StatusNotAuthorized)
		return

	case scan.KindUnrecognized:
		respondWithError(w, http.StatusUnprocessableEntity, constants.MsgScanNotRecognised)
		return
	}

	if locked {
		identity, err := h.deps.Lock.UnlockWithToken(tok)
		if err != nil {
			h.deps.Metrics.FailedUnlocksTotal.WithLabelValues("not_authorized").Inc()
			respondWithError(w, http.StatusForbidden, constants.StatusNotAuthorized)
			return
		}

		token, err := h.deps.Tokens.Issue(identity)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to issue session token")
			return
		}

		h.deps.Metrics.UnlocksTotal.WithLabelValues("scan").Inc()
		h.deps.Metrics.SessionUnlocked.Set(1)
		logging.Info("Session unlocked by scan", "member_id", identity.MemberID, "name", identity.Name)

		resp := responses.ScanResponse{
			Outcome:  "unlocked",
			MemberID: identity.MemberID,
			Member:   tok.Member,
			Unlocked: true,
			Token:    token,
			Message:  "Unlocked by " + identity.Name,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
		return
	}

	h.deps.Lock.Touch()
	resp := responses.ScanResponse{
		Outcome:  string(tok.Kind),
		MemberID: tok.MemberID,
		Member:   tok.Member,
		Licence:  tok.LicenceNo,
		Unlocked: true,
	}
	switch {
	case tok.Kind == scan.KindLicence:
		resp.Message = "Licence captured"
	case tok.Member != nil:
		resp.Message = "Prefilled from roster for " + tok.Member.FullName
	default:
		resp.Message = "Member " + tok.MemberID + " is not on the roster"
	}
	respondWithSuccess(w, http.StatusOK, &resp)
}

// UnlockWithPIN handles POST /api/v1/session/unlock
func (h *Handlers) UnlockWithPIN() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.UnlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var identity session.Identity
		if req.MemberID != "" {
			member, ok := h.deps.Roster.Lookup(req.MemberID)
			if !ok || !member.IsRangeOfficer || !member.IsCurrent {
				h.deps.Metrics.FailedUnlocksTotal.WithLabelValues("not_authorized").Inc()
				respondWithError(w, http.StatusForbidden, constants.StatusNotAuthorized)
				return
			}
			identity = session.Identity{MemberID: member.MemberID, Name: member.FullName}
		} else if len(h.deps.Roster.RangeOfficers()) > 0 {
			respondWithError(w, http.StatusBadRequest, constants.MsgSelectRO)
			return
		} else if req.Name == "" {
			// first-run bootstrap: empty roster, typed name required
			respondWithError(w, http.StatusBadRequest, constants.MsgEnterROName)
			return
		} else {
			identity = session.Identity{Name: req.Name}
		}

		unlockedBy, err := h.deps.Lock.UnlockWithPIN(req.PIN, identity)
		if err != nil {
			h.deps.Metrics.FailedUnlocksTotal.WithLabelValues("bad_pin").Inc()
			respondWithError(w, http.StatusUnauthorized, constants.MsgIncorrectPIN)
			return
		}

		token, err := h.deps.Tokens.Issue(unlockedBy)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to issue session token")
			return
		}

		h.deps.Metrics.UnlocksTotal.WithLabelValues("pin").Inc()
		h.deps.Metrics.SessionUnlocked.Set(1)
		logging.Info("Session unlocked by PIN", "name", unlockedBy.Name)

		resp := responses.UnlockResponse{
			UnlockedBy: unlockedBy.Name,
			MemberID:   unlockedBy.MemberID,
			Token:      token,
			Message:    "Unlocked by " + unlockedBy.Name,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// Relock handles POST /api/v1/session/relock
func (h *Handlers) Relock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.deps.Lock.Relock()
		h.deps.Accumulator.Reset()
		h.deps.Metrics.SessionUnlocked.Set(0)
		logging.Info("Session relocked")

		resp := responses.SessionStatusResponse{
			Unlocked:    false,
			State:       string(h.deps.Workflow.State()),
			KioskMode:   h.kioskMode.Load(),
			LedgerCount: h.deps.Workflow.Ledger().Len(),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// SessionStatus handles GET /api/v1/session
func (h *Handlers) SessionStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, unlocked := h.deps.Lock.UnlockedBy()
		if !unlocked {
			h.deps.Metrics.SessionUnlocked.Set(0)
		}

		resp := responses.SessionStatusResponse{
			Unlocked:    unlocked,
			UnlockedBy:  identity.Name,
			MemberID:    identity.MemberID,
			State:       string(h.deps.Workflow.State()),
			KioskMode:   h.kioskMode.Load(),
			LedgerCount: h.deps.Workflow.Ledger().Len(),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// SetKioskMode handles POST /api/v1/session/kiosk-mode
func (h *Handlers) SetKioskMode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.KioskModeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		h.kioskMode.Store(req.Enabled)

		resp := responses.SessionStatusResponse{
			Unlocked:    h.deps.Lock.Unlocked(),
			State:       string(h.deps.Workflow.State()),
			KioskMode:   req.Enabled,
			LedgerCount: h.deps.Workflow.Ledger().Len(),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// StartCheckin handles POST /api/v1/checkin/start
func (h *Handlers) StartCheckin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.StartCheckinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		pending, err := h.deps.Workflow.Start(checkin.StartInput{
			MemberID:          req.MemberID,
			Name:              req.Name,
			Email:             req.Email,
			Firearm:           req.Firearm,
			Klass:             req.Klass,
			Competition:       req.Competition,
			ParticipationType: req.ParticipationType,
			ShootDate:         req.ShootDate,
			LicenceNo:         req.LicenceNo,
			VisitorIDDocument: req.VisitorIDDocument,
		})
		if err != nil {
			h.deps.Metrics.CheckinsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
			respondWithError(w, checkinErrorStatus(err), err.Error())
			return
		}

		resp := responses.StartCheckinResponse{
			Draft:              pending.Draft,
			DefaultVerifierID:  pending.DefaultVerifierID,
			AttestationNeeded:  pending.AttestationNeeded,
			VerifierCandidates: h.deps.Roster.RangeOfficers(),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// CommitCheckin handles POST /api/v1/checkin/commit
func (h *Handlers) CommitCheckin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CommitCheckinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := h.deps.Workflow.Commit(r.Context(), checkin.CommitInput{
			VerifierID:   req.VerifierID,
			VerifierName: req.VerifierName,
			Attested:     req.Attested,
		})
		if err != nil {
			h.deps.Metrics.CheckinsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
			respondWithError(w, checkinErrorStatus(err), err.Error())
			return
		}

		h.deps.Metrics.CheckinsCommittedTotal.WithLabelValues(string(result.Record.ParticipationType)).Inc()
		if result.EmailSent {
			h.deps.Metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		} else {
			h.deps.Metrics.NotificationsTotal.WithLabelValues("skipped").Inc()
		}

		resp := responses.CommitCheckinResponse{
			Record:       result.Record,
			EmailSent:    result.EmailSent,
			EmailMessage: result.EmailMessage,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// CancelCheckin handles POST /api/v1/checkin/cancel
func (h *Handlers) CancelCheckin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.deps.Workflow.Cancel(); err != nil {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		msg := "Draft discarded"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// GetPendingCheckin handles GET /api/v1/checkin/pending
func (h *Handlers) GetPendingCheckin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, ok := h.deps.Workflow.Pending()
		if !ok {
			respondWithError(w, http.StatusNotFound, constants.MsgNoPendingDraft)
			return
		}

		resp := responses.StartCheckinResponse{
			Draft:              pending.Draft,
			DefaultVerifierID:  pending.DefaultVerifierID,
			AttestationNeeded:  pending.AttestationNeeded,
			VerifierCandidates: h.deps.Roster.RangeOfficers(),
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetLedger handles GET /api/v1/ledger: the current session, newest first
func (h *Handlers) GetLedger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := h.deps.Workflow.Ledger().Records()
		respondWithSuccess(w, http.StatusOK, &records)
	}
}

// GetLedgerHistory handles GET /api/v1/ledger/history?shoot_date=YYYY-MM-DD
// from the crash-recovery mirror
func (h *Handlers) GetLedgerHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shootDate := r.URL.Query().Get("shoot_date")
		if shootDate == "" {
			shootDate = time.Now().Format("2006-01-02")
		}

		records, err := h.deps.Repo.Mirror.ListByShootDate(r.Context(), shootDate)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, &records)
	}
}

// Finalize handles POST /api/v1/finalize
func (h *Handlers) Finalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.finalizeInFlight.CompareAndSwap(false, true) {
			respondWithError(w, http.StatusConflict, constants.MsgActionInFlight)
			return
		}
		defer h.finalizeInFlight.Store(false)

		var req requests.FinalizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		recipient := req.Recipient
		if recipient == "" {
			recipient = h.deps.Config.AdminEmail
		}

		rows := h.deps.Workflow.Ledger().Records()
		result, err := h.deps.Services.Report.Finalize(r.Context(), rows, recipient, req.ShootDate, req.SafetyBrief)
		switch {
		case errors.Is(err, services.ErrNoRows), errors.Is(err, services.ErrMissingSafetyBrief):
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			h.deps.Metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			respondWithError(w, http.StatusBadGateway, result.Message)
			return
		}

		if result.Delivered {
			h.deps.Metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		} else {
			h.deps.Metrics.NotificationsTotal.WithLabelValues("needs_config").Inc()
		}

		resp := responses.FinalizeResponse{
			Delivered:   result.Delivered,
			NeedsConfig: result.NeedsConfig,
			SavedAs:     result.SavedAs,
			Folder:      result.Folder,
			Recipient:   result.Recipient,
			Message:     result.Message,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// checkinErrorStatus maps workflow errors onto HTTP status codes
func checkinErrorStatus(err error) int {
	switch {
	case errors.Is(err, checkin.ErrMustUnlock):
		return http.StatusUnauthorized
	case errors.Is(err, checkin.ErrDraftPending), errors.Is(err, checkin.ErrNoPendingDraft):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// rejectReason labels a workflow error for the rejection counter
func rejectReason(err error) string {
	switch {
	case errors.Is(err, checkin.ErrMustUnlock):
		return "locked"
	case errors.Is(err, checkin.ErrDraftPending), errors.Is(err, checkin.ErrNoPendingDraft):
		return "bad_state"
	case errors.Is(err, checkin.ErrSelfVerify):
		return "self_verify"
	case errors.Is(err, checkin.ErrAttestation):
		return "attestation"
	case errors.Is(err, checkin.ErrSelectVerifier), errors.Is(err, checkin.ErrVerifierName):
		return "verifier"
	case errors.Is(err, checkin.ErrVisitorIDRequired), errors.Is(err, checkin.ErrMissingFields):
		return "validation"
	default:
		return "other"
	}
}
