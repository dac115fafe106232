package checkin

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/logging"
	"pine-rivers/rangekiosk/internal/models/entities"
	"pine-rivers/rangekiosk/internal/roster"
	"pine-rivers/rangekiosk/internal/session"
)

// State is the position of the check-in state machine
type State string

const (
	StateIdle                State = "IDLE"
	StateDrafting            State = "DRAFTING"
	StatePendingVerification State = "PENDING_VERIFICATION"
	StateCommitted           State = "COMMITTED"
)

var (
	ErrMustUnlock        = errors.New(constants.MsgMustUnlock)
	ErrMissingFields     = errors.New(constants.MsgMissingFields)
	ErrVisitorIDRequired = errors.New(constants.MsgVisitorIDRequired)
	ErrDraftPending      = errors.New(constants.MsgDraftPending)
	ErrNoPendingDraft    = errors.New(constants.MsgNoPendingDraft)
	ErrSelectVerifier    = errors.New(constants.MsgSelectRO)
	ErrVerifierName      = errors.New(constants.MsgEnterROName)
	ErrSelfVerify        = errors.New(constants.MsgSelfVerify)
	ErrAttestation       = errors.New(constants.MsgAttestationMissing)
)

// MirrorSink receives every committed record for crash-recovery persistence
type MirrorSink interface {
	Append(ctx context.Context, rec entities.CheckinRecord) error
}

// Notifier dispatches the member confirmation after a commit. Failures are
// soft: the commit stands either way.
type Notifier interface {
	SendConfirmation(ctx context.Context, to string, rec entities.CheckinRecord, verifier string) (delivered bool, detail string, err error)
}

// StartInput is the filled check-in form handed to Start
type StartInput struct {
	MemberID          string
	Name              string
	Email             string
	Firearm           constants.FirearmCategory
	Klass             string
	Competition       constants.CompetitionType
	ParticipationType constants.ParticipationType
	ShootDate         string
	LicenceNo         string
	VisitorIDDocument string
}

// Pending describes the single draft awaiting verification
type Pending struct {
	Draft entities.CheckinDraft
	// DefaultVerifierID is a preselection suggestion only: the first roster
	// range officer other than the subject. It is never committed without an
	// explicit confirm naming the verifier.
	DefaultVerifierID string
	AttestationNeeded bool
}

// CommitInput resolves who verified the pending draft
type CommitInput struct {
	VerifierID   string
	VerifierName string
	Attested     bool
}

// CommitResult is the frozen record plus the notification outcome
type CommitResult struct {
	Record       entities.CheckinRecord
	EmailSent    bool
	EmailMessage string
}

// Workflow drives the two-step check-in: start (draft + verification panel)
// then commit or cancel. At most one draft is pending at a time; the state
// machine rejects anything else.
type Workflow struct {
	lock     *session.Lock
	roster   *roster.Store
	ledger   *Ledger
	mirror   MirrorSink
	notifier Notifier

	// mu makes each transition atomic; the kiosk UI serializes actions but
	// the HTTP server does not
	mu      sync.Mutex
	pending *Pending

	now func() time.Time
}

// NewWorkflow wires the check-in state machine to its collaborators.
// mirror and notifier may be nil (commit then skips that side effect).
func NewWorkflow(lock *session.Lock, store *roster.Store, ledger *Ledger, mirror MirrorSink, notifier Notifier) *Workflow {
	return &Workflow{
		lock:     lock,
		roster:   store,
		ledger:   ledger,
		mirror:   mirror,
		notifier: notifier,
		now:      time.Now,
	}
}

// State reports the machine's current position
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		return StatePendingVerification
	}
	return StateIdle
}

// Pending returns the draft awaiting verification, if any
func (w *Workflow) Pending() (*Pending, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return nil, false
	}
	p := *w.pending
	return &p, true
}

// Ledger exposes the session ledger for listing and finalization
func (w *Workflow) Ledger() *Ledger {
	return w.ledger
}

// Start validates the form and moves IDLE → PENDING_VERIFICATION. The
// licence classification is derived here: visitors carry their identity
// document, licensed members their licence number, spectators nothing.
func (w *Workflow) Start(in StartInput) (*Pending, error) {
	if !w.lock.Unlocked() {
		return nil, ErrMustUnlock
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		return nil, ErrDraftPending
	}

	if in.MemberID == "" || in.Firearm == "" || in.Klass == "" || in.Competition == "" || in.ParticipationType == "" {
		return nil, ErrMissingFields
	}
	if in.ParticipationType == constants.ParticipationVisitor && in.VisitorIDDocument == "" {
		return nil, ErrVisitorIDRequired
	}

	name := in.Name
	email := in.Email
	licenceOnFile := in.LicenceNo
	if member, ok := w.roster.Lookup(in.MemberID); ok {
		if name == "" {
			name = member.FullName
		}
		if email == "" {
			email = member.Email
		}
		if licenceOnFile == "" {
			licenceOnFile = member.LicenceNo
		}
	}

	shootDate := in.ShootDate
	if shootDate == "" {
		shootDate = w.now().Format("2006-01-02")
	}

	draft := entities.CheckinDraft{
		MemberID:          in.MemberID,
		Name:              name,
		Email:             email,
		Firearm:           in.Firearm,
		Klass:             in.Klass,
		Competition:       in.Competition,
		ParticipationType: in.ParticipationType,
		ShootDate:         shootDate,
	}

	switch {
	case in.ParticipationType == constants.ParticipationVisitor:
		draft.LicenceType = constants.LicenceKindID
		draft.LicenceNo = in.VisitorIDDocument
	case licenceOnFile != "":
		draft.LicenceType = constants.LicenceKindLicensed
		draft.LicenceNo = licenceOnFile
	}

	pending := &Pending{
		Draft:             draft,
		AttestationNeeded: draft.LicenceType != constants.LicenceKindNone,
	}
	for _, ro := range w.roster.RangeOfficers() {
		if ro.MemberID != draft.MemberID {
			pending.DefaultVerifierID = ro.MemberID
			break
		}
	}

	w.pending = pending
	logging.Info("Check-in pending verification",
		"member_id", draft.MemberID,
		"participation_type", string(draft.ParticipationType),
	)

	p := *pending
	return &p, nil
}

// Commit resolves the verifier, enforces the attestation and the
// no-self-verification invariant, and freezes the draft into the ledger.
// Mirror and notification side effects are best-effort; the commit stands
// once the record is in the ledger.
func (w *Workflow) Commit(ctx context.Context, in CommitInput) (*CommitResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return nil, ErrNoPendingDraft
	}
	draft := w.pending.Draft

	var verifierName string
	if ros := w.roster.RangeOfficers(); len(ros) > 0 {
		verifier, ok := w.roster.Lookup(in.VerifierID)
		if !ok || !verifier.IsRangeOfficer {
			return nil, ErrSelectVerifier
		}
		if verifier.MemberID == draft.MemberID {
			return nil, ErrSelfVerify
		}
		verifierName = verifier.FullName
	} else {
		if in.VerifierName == "" {
			return nil, ErrVerifierName
		}
		verifierName = in.VerifierName
	}

	mustAttest := draft.LicenceType != constants.LicenceKindNone
	if mustAttest && !in.Attested {
		return nil, ErrAttestation
	}

	rec := entities.CheckinRecord{
		ID:                uuid.New().String(),
		Timestamp:         w.now().UTC(),
		ShootDate:         draft.ShootDate,
		MemberID:          draft.MemberID,
		Name:              draft.Name,
		Email:             draft.Email,
		Firearm:           draft.Firearm,
		Klass:             draft.Klass,
		Competition:       draft.Competition,
		ParticipationType: draft.ParticipationType,
		LicenceType:       draft.LicenceType,
		LicenceNo:         draft.LicenceNo,
		LicenceVerified:   mustAttest && in.Attested,
		VerifiedBy:        verifierName,
	}

	w.ledger.prepend(rec)
	// Full reset so nothing leaks into the next person's check-in
	w.pending = nil

	if w.mirror != nil {
		if err := w.mirror.Append(ctx, rec); err != nil {
			log.Printf("[Workflow] Mirror append failed for %s: %v", rec.MemberID, err)
		}
	}

	result := &CommitResult{Record: rec}
	if w.notifier != nil && rec.Email != "" {
		delivered, detail, err := w.notifier.SendConfirmation(ctx, rec.Email, rec, verifierName)
		if err != nil {
			log.Printf("[Workflow] Confirmation send failed for %s: %v", rec.Email, err)
			result.EmailMessage = "Check-in saved (email send failed)"
		} else if delivered {
			result.EmailSent = true
			result.EmailMessage = "Check-in saved and emailed to " + rec.Email
		} else {
			result.EmailMessage = detail
		}
	} else {
		result.EmailMessage = "Check-in saved (no email on file)"
	}

	logging.Info("Check-in committed",
		"member_id", rec.MemberID,
		"verified_by", verifierName,
		"licence_verified", rec.LicenceVerified,
	)
	return result, nil
}

// Cancel discards the pending draft with no side effects
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return ErrNoPendingDraft
	}
	w.pending = nil
	return nil
}
