package scan

import (
	"strings"
	"sync"
	"time"
)

// DefaultIdleGap separates automated scanner bursts from ambient typing:
// a pause longer than this between keystrokes discards the buffer.
const DefaultIdleGap = 80 * time.Millisecond

// Terminator is the keystroke that ends a scan line
const Terminator = "Enter"

// Accumulator collects individual keystrokes into scan lines. It owns only
// the capture side effect; classification of the finished line is a separate
// pure call (Classify).
type Accumulator struct {
	mu      sync.Mutex
	idleGap time.Duration
	buf     strings.Builder
	last    time.Time
}

// NewAccumulator creates an accumulator with the given idle gap
// (DefaultIdleGap when zero).
func NewAccumulator(idleGap time.Duration) *Accumulator {
	if idleGap <= 0 {
		idleGap = DefaultIdleGap
	}
	return &Accumulator{idleGap: idleGap}
}

// Push records one keystroke observed at the given time. When the keystroke
// is the terminator it returns the accumulated line and true; the buffer is
// cleared either way, so no partial state leaks into the next scan.
func (a *Accumulator) Push(key string, at time.Time) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.last.IsZero() && at.Sub(a.last) > a.idleGap {
		a.buf.Reset()
	}
	a.last = at

	if key == Terminator {
		line := a.buf.String()
		a.buf.Reset()
		return line, true
	}

	// Only printable single characters contribute; control keys are noise
	if len([]rune(key)) == 1 {
		a.buf.WriteString(key)
	}
	return "", false
}

// Reset discards any buffered keystrokes
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.buf.Reset()
	a.last = time.Time{}
	a.mu.Unlock()
}
