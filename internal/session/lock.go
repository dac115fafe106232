package session

import (
	"errors"
	"sync"
	"time"

	"pine-rivers/rangekiosk/internal/scan"
)

var (
	// ErrIncorrectPIN is returned for a manual unlock with the wrong PIN
	ErrIncorrectPIN = errors.New("incorrect PIN")
	// ErrNotAuthorized is returned when a scan token does not carry a
	// current range officer
	ErrNotAuthorized = errors.New("only a current Range Officer can unlock")
)

// Identity names who opened the session lock: a roster member, or a
// freeform name typed during first-run bootstrap.
type Identity struct {
	MemberID string `json:"member_id,omitempty"`
	Name     string `json:"name"`
}

// Lock gates the kiosk. Created locked; opens only through a validated
// credential scan or the PIN fallback. Re-locking happens on the explicit
// relock action or, when configured, after an idle period.
type Lock struct {
	mu          sync.Mutex
	pin         string
	relockAfter time.Duration
	unlocked    bool
	by          Identity
	lastTouch   time.Time

	now func() time.Time
}

// NewLock creates a locked session gate. relockAfter of zero disables
// idle re-locking.
func NewLock(pin string, relockAfter time.Duration) *Lock {
	return &Lock{pin: pin, relockAfter: relockAfter, now: time.Now}
}

// UnlockWithToken opens the lock from an authorized scan token. Repeated
// authorized scans while already unlocked keep the original identity.
func (l *Lock) UnlockWithToken(tok scan.Token) (Identity, error) {
	if !tok.Authorized || tok.Member == nil {
		return Identity{}, ErrNotAuthorized
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()

	if !l.unlocked {
		l.unlocked = true
		l.by = Identity{MemberID: tok.Member.MemberID, Name: tok.Member.FullName}
	}
	l.lastTouch = l.now()
	return l.by, nil
}

// UnlockWithPIN opens the lock from the manual PIN fallback. The caller has
// already resolved the range-officer identity (roster selection, or a typed
// name when the roster holds no identifiable ROs).
func (l *Lock) UnlockWithPIN(pin string, by Identity) (Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pin != l.pin {
		return Identity{}, ErrIncorrectPIN
	}

	l.expireLocked()
	if !l.unlocked {
		l.unlocked = true
		l.by = by
	}
	l.lastTouch = l.now()
	return l.by, nil
}

// Relock closes the session explicitly
func (l *Lock) Relock() {
	l.mu.Lock()
	l.unlocked = false
	l.by = Identity{}
	l.mu.Unlock()
}

// Unlocked reports the lock state, applying the idle relock policy first
func (l *Lock) Unlocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	return l.unlocked
}

// UnlockedBy returns the active range officer identity while unlocked
func (l *Lock) UnlockedBy() (Identity, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
	return l.by, l.unlocked
}

// Touch records operator activity for the idle relock policy
func (l *Lock) Touch() {
	l.mu.Lock()
	if l.unlocked {
		l.lastTouch = l.now()
	}
	l.mu.Unlock()
}

// expireLocked applies the idle relock policy. Caller holds the mutex.
func (l *Lock) expireLocked() {
	if !l.unlocked || l.relockAfter <= 0 {
		return
	}
	if l.now().Sub(l.lastTouch) > l.relockAfter {
		l.unlocked = false
		l.by = Identity{}
	}
}
