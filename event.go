package chokidar

import (
	"fmt"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
)

// EventType identifies the kind of change an Event represents.
type EventType uint8

const (
	// EventAdd indicates that a file was added.
	EventAdd EventType = iota
	// EventAddDir indicates that a directory was added.
	EventAddDir
	// EventChange indicates that a file's contents or metadata changed.
	EventChange
	// EventUnlink indicates that a file was removed.
	EventUnlink
	// EventUnlinkDir indicates that a directory was removed.
	EventUnlinkDir
	// EventReady indicates that all paths supplied before the first
	// subscription turn have been classified and their initial scans
	// drained. It is emitted at most once per Watcher.
	EventReady
	// EventError indicates that an unrecoverable error occurred for some
	// path. The watch for that path may have been aborted.
	EventError
	// EventRaw is an unprocessed passthrough of a native or polling
	// notification, verbatim, for callers that want to observe the raw
	// OS-level signal in addition to the reconciled event stream.
	EventRaw
)

// String returns a human-readable name for the event type, matching the
// lowercase event names of the Node.js chokidar library.
func (t EventType) String() string {
	switch t {
	case EventAdd:
		return "add"
	case EventAddDir:
		return "addDir"
	case EventChange:
		return "change"
	case EventUnlink:
		return "unlink"
	case EventUnlinkDir:
		return "unlinkDir"
	case EventReady:
		return "ready"
	case EventError:
		return "error"
	case EventRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Event is a single entry in the engine's outbound, de-duplicated event
// stream.
type Event struct {
	// Type identifies the kind of event.
	Type EventType
	// Path is the absolute path the event pertains to. It is empty for
	// EventReady.
	Path string
	// Stats holds the stat snapshot associated with the event, if any
	// (populated for EventAdd, EventAddDir, and EventChange).
	Stats filesystem.Snapshot
	// Err holds the error associated with an EventError event.
	Err error
	// RawKind and RawEntry hold the verbatim OS-primitive notification for
	// an EventRaw event; RawEntry is the basename reported by the native
	// primitive relative to the watched path (may be empty).
	RawKind  string
	RawEntry string
}

// String renders the event for logging and CLI display purposes.
func (e Event) String() string {
	switch e.Type {
	case EventReady:
		return "ready"
	case EventError:
		return fmt.Sprintf("error: %v", e.Err)
	case EventRaw:
		return fmt.Sprintf("raw(%s): %s [%s]", e.RawKind, e.Path, e.RawEntry)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Path)
	}
}
