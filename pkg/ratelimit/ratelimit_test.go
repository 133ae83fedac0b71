package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinWindow(t *testing.T) {
	l := NewLimiter(time.Minute, 2)

	if !l.Allow("diff") {
		t.Error("first hit should be allowed")
	}
	if !l.Allow("diff") {
		t.Error("second hit should be allowed")
	}
	if l.Allow("diff") {
		t.Error("third hit should be rejected")
	}

	// Keys are independent budgets.
	if !l.Allow("suggest") {
		t.Error("a different key should have its own budget")
	}
}

func TestWindowSlides(t *testing.T) {
	current := time.Now()
	l := NewLimiter(time.Minute, 1)
	l.now = func() time.Time { return current }

	if !l.Allow("diff") {
		t.Fatal("first hit should be allowed")
	}
	if l.Allow("diff") {
		t.Fatal("second hit inside the window should be rejected")
	}

	current = current.Add(61 * time.Second)
	if !l.Allow("diff") {
		t.Error("hit after the window expired should be allowed")
	}
}

func TestRemaining(t *testing.T) {
	l := NewLimiter(time.Minute, 3)

	if got := l.Remaining("diff"); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}
	l.Allow("diff")
	l.Allow("diff")
	if got := l.Remaining("diff"); got != 1 {
		t.Errorf("Remaining() = %d, want 1", got)
	}
}
