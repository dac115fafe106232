package scan

import (
	"testing"
	"time"
)

func pushString(t *testing.T, a *Accumulator, s string, at time.Time, step time.Duration) time.Time {
	t.Helper()
	for _, r := range s {
		if _, complete := a.Push(string(r), at); complete {
			t.Fatalf("Unexpected completed line mid-burst at %q", string(r))
		}
		at = at.Add(step)
	}
	return at
}

func TestAccumulatorAssemblesBurst(t *testing.T) {
	a := NewAccumulator(80 * time.Millisecond)
	at := time.Now()

	at = pushString(t, a, "1234", at, 10*time.Millisecond)
	line, complete := a.Push(Terminator, at)

	if !complete {
		t.Fatal("Expected Enter to complete the line")
	}
	if line != "1234" {
		t.Errorf("Expected 1234, got %q", line)
	}
}

func TestAccumulatorIdleGapDiscardsBuffer(t *testing.T) {
	a := NewAccumulator(80 * time.Millisecond)
	at := time.Now()

	at = pushString(t, a, "99", at, 10*time.Millisecond)
	// human-speed pause wipes the scanner buffer
	at = at.Add(500 * time.Millisecond)
	at = pushString(t, a, "1234", at, 10*time.Millisecond)

	line, complete := a.Push(Terminator, at)
	if !complete || line != "1234" {
		t.Errorf("Expected only the post-gap burst, got %q (complete=%v)", line, complete)
	}
}

func TestAccumulatorIgnoresControlKeys(t *testing.T) {
	a := NewAccumulator(0)
	at := time.Now()

	keys := []string{"Shift", "1", "2", "Backspace", "3", "Control"}
	for _, k := range keys {
		a.Push(k, at)
		at = at.Add(5 * time.Millisecond)
	}

	line, complete := a.Push(Terminator, at)
	if !complete || line != "123" {
		t.Errorf("Expected 123 with control keys dropped, got %q", line)
	}
}

func TestAccumulatorClearsAfterTerminator(t *testing.T) {
	a := NewAccumulator(0)
	at := time.Now()

	at = pushString(t, a, "123", at, 5*time.Millisecond)
	a.Push(Terminator, at)

	line, complete := a.Push(Terminator, at.Add(5*time.Millisecond))
	if !complete {
		t.Fatal("Expected Enter to complete")
	}
	if line != "" {
		t.Errorf("Expected empty line after previous terminator, got %q", line)
	}
}

func TestAccumulatorReset(t *testing.T) {
	a := NewAccumulator(0)
	at := time.Now()

	at = pushString(t, a, "4567", at, 5*time.Millisecond)
	a.Reset()

	line, _ := a.Push(Terminator, at.Add(5*time.Millisecond))
	if line != "" {
		t.Errorf("Expected empty buffer after reset, got %q", line)
	}
}
