package chokidar

import "time"

// throttleAction enumerates the actions the Throttler can key on (spec §3,
// ThrottleLedger).
type throttleAction uint8

const (
	throttleAdd throttleAction = iota
	throttleAddDir
	throttleUnlink
	throttleUnlinkDir
	throttleReaddir
	throttleWatch
)

// throttleKey is the ThrottleLedger key: an (action, path) pair.
type throttleKey struct {
	action throttleAction
	path   string
}

// throttleEntry tracks an active throttle window and whether any further
// work arrived while it was open.
type throttleEntry struct {
	deadline   time.Time
	suppressed bool
}

// throttleHandle is returned by throttle() when a new window is opened. Its
// clear method reports whether a call was suppressed during the window, so
// the caller can decide whether to re-run once.
type throttleHandle struct {
	clear func() bool
}

// throttler implements the ThrottleLedger described in spec §3/§4.3: a
// per-(action,path) time-window suppression of duplicate work. It assumes
// single-threaded cooperative access, consistent with spec §5 — every
// method here is only ever invoked from a Watcher's serialized event loop.
type throttler struct {
	entries map[throttleKey]*throttleEntry
	now     func() time.Time
}

func newThrottler() *throttler {
	return &throttler{
		entries: make(map[throttleKey]*throttleEntry),
		now:     time.Now,
	}
}

// throttle returns a handle if no active entry exists for (action, path),
// else nil. An entry remains active until its window elapses (checked
// lazily, on the next call for the same key) or until its handle's clear()
// is invoked, whichever comes first. A window of 0 means the entry never
// auto-expires and stays active purely until clear() is called
// (deduplication only).
func (t *throttler) throttle(action throttleAction, path string, window time.Duration) *throttleHandle {
	key := throttleKey{action, path}

	if existing, ok := t.entries[key]; ok {
		if window <= 0 || t.now().Before(existing.deadline) {
			existing.suppressed = true
			return nil
		}
	}

	entry := &throttleEntry{}
	if window > 0 {
		entry.deadline = t.now().Add(window)
	}
	t.entries[key] = entry

	cleared := false
	return &throttleHandle{
		clear: func() bool {
			if cleared {
				return false
			}
			cleared = true
			delete(t.entries, key)
			return entry.suppressed
		},
	}
}
