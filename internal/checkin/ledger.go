package checkin

import (
	"sync"

	"pine-rivers/rangekiosk/internal/models/entities"
)

// Ledger is the session-scoped, append-only collection of committed
// check-ins, newest first. Only the workflow appends; it is cleared only by
// process restart (the mirror store keeps the durable copy).
type Ledger struct {
	mu      sync.RWMutex
	records []entities.CheckinRecord
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// prepend adds one committed record at the front
func (l *Ledger) prepend(rec entities.CheckinRecord) {
	l.mu.Lock()
	l.records = append([]entities.CheckinRecord{rec}, l.records...)
	l.mu.Unlock()
}

// Records returns a copy of the ledger, newest first
func (l *Ledger) Records() []entities.CheckinRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]entities.CheckinRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of committed records
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
