package chokidar

import (
	"os"
	"time"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
)

// pollingPrimitiveHandle is the stat-based counterpart to
// nativePrimitiveHandle, implementing the other half of spec §4.2's
// abstract primitive contract for platforms or mounts (network shares,
// some container filesystems) where event-driven notification is
// unreliable. It polls a single path on a fixed interval and reports the
// same rename/change vocabulary the native primitive does, leaving
// directory-content diffing to DirWatcher's own readdir-based rescan.
type pollingPrimitiveHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	path   string
}

// openPollingPrimitive starts polling path every interval. raw fires on
// every tick once a baseline stat has been established, independent of
// whether anything actually changed; callback fires only when the stat
// comparison says it should (spec §4.2: size changed, mtime advanced, or
// mtime reads as zero, the disappearance transient).
func openPollingPrimitive(path string, interval time.Duration, raw func(kind nativeKind, relativeEntry string), callback func(kind nativeKind, relativeEntry string), errCallback func(error)) *pollingPrimitiveHandle {
	handle := &pollingPrimitiveHandle{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
		path:   path,
	}
	go handle.loop(raw, callback, errCallback)
	return handle
}

func (h *pollingPrimitiveHandle) loop(raw func(kind nativeKind, relativeEntry string), callback func(kind nativeKind, relativeEntry string), errCallback func(error)) {
	var previous *filesystem.Snapshot
	first := true

	for {
		select {
		case <-h.ticker.C:
			info, err := os.Lstat(h.path)
			if err != nil {
				if os.IsNotExist(err) {
					if first {
						first = false
						continue
					}
					raw(nativeKindChange, "")
					if previous != nil {
						previous = nil
						callback(nativeKindRename, "")
					}
					continue
				}
				errCallback(err)
				continue
			}

			snapshot := filesystem.NewSnapshot(info)
			if first {
				previous = &snapshot
				first = false
				continue
			}

			raw(nativeKindChange, "")

			changed := previous == nil ||
				snapshot.Size != previous.Size ||
				snapshot.ModificationTime.After(previous.ModificationTime) ||
				snapshot.ModificationTime.IsZero()
			if !changed {
				continue
			}

			kind := nativeKindChange
			if previous != nil && previous.IsDir != snapshot.IsDir {
				kind = nativeKindRename
			}
			previous = &snapshot
			callback(kind, "")
		case <-h.done:
			return
		}
	}
}

// close stops polling. It is safe to call more than once.
func (h *pollingPrimitiveHandle) close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	h.ticker.Stop()
}
