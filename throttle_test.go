package chokidar

import (
	"testing"
	"time"
)

// TestThrottleSuppressesWithinWindow verifies that a second call for the
// same (action, path) within an open window is suppressed, and that the
// handle's clear() reports that a call was suppressed.
func TestThrottleSuppressesWithinWindow(t *testing.T) {
	now := time.Now()
	th := newThrottler()
	th.now = func() time.Time { return now }

	handle := th.throttle(throttleReaddir, "/a", 1000*time.Millisecond)
	if handle == nil {
		t.Fatal("expected first throttle call to return a handle")
	}

	if h2 := th.throttle(throttleReaddir, "/a", 1000*time.Millisecond); h2 != nil {
		t.Fatal("expected second throttle call within window to return nil")
	}

	if !handle.clear() {
		t.Fatal("expected clear() to report a suppressed call occurred")
	}

	// clear() is idempotent: a second call must not report suppression again.
	if handle.clear() {
		t.Fatal("expected second clear() call to return false")
	}
}

// TestThrottleAllowsAfterWindowElapses verifies that once the throttle
// window has passed, a new call opens a fresh window rather than being
// suppressed.
func TestThrottleAllowsAfterWindowElapses(t *testing.T) {
	now := time.Now()
	th := newThrottler()
	th.now = func() time.Time { return now }

	if handle := th.throttle(throttleWatch, "/a", 5*time.Millisecond); handle == nil {
		t.Fatal("expected first call to return a handle")
	}

	now = now.Add(10 * time.Millisecond)

	handle := th.throttle(throttleWatch, "/a", 5*time.Millisecond)
	if handle == nil {
		t.Fatal("expected call after window elapsed to return a new handle")
	}
	if handle.clear() {
		t.Fatal("expected no suppression to have occurred in the new window")
	}
}

// TestThrottleZeroWindowNeverAutoExpires verifies the add/addDir
// deduplication-only behavior: a zero window stays active until clear() is
// called explicitly, regardless of how much time passes.
func TestThrottleZeroWindowNeverAutoExpires(t *testing.T) {
	now := time.Now()
	th := newThrottler()
	th.now = func() time.Time { return now }

	handle := th.throttle(throttleAdd, "/a", 0)
	if handle == nil {
		t.Fatal("expected first call to return a handle")
	}

	now = now.Add(time.Hour)
	if h2 := th.throttle(throttleAdd, "/a", 0); h2 != nil {
		t.Fatal("expected zero-window entry to remain active indefinitely")
	}

	if !handle.clear() {
		t.Fatal("expected clear() to report the suppressed call")
	}

	// Once cleared, a fresh call should succeed again.
	if handle := th.throttle(throttleAdd, "/a", 0); handle == nil {
		t.Fatal("expected a fresh handle after clear()")
	}
}

// TestThrottleKeysAreIndependent verifies that throttling on one (action,
// path) pair has no effect on a different action or a different path.
func TestThrottleKeysAreIndependent(t *testing.T) {
	th := newThrottler()

	if th.throttle(throttleAdd, "/a", 0) == nil {
		t.Fatal("expected throttle(add, /a) to succeed")
	}
	if th.throttle(throttleAddDir, "/a", 0) == nil {
		t.Fatal("expected throttle(addDir, /a) to succeed independently of add")
	}
	if th.throttle(throttleAdd, "/b", 0) == nil {
		t.Fatal("expected throttle(add, /b) to succeed independently of /a")
	}
}
