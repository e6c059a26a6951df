package chokidar

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// nativeKind mirrors the abstract OS primitive contract of spec §6: an
// event-driven watcher reports one of two notification kinds.
type nativeKind string

const (
	// nativeKindRename indicates a structural change at the watched path
	// (creation, removal, or rename of an entry).
	nativeKindRename nativeKind = "rename"
	// nativeKindChange indicates content or metadata modification.
	nativeKindChange nativeKind = "change"
)

// nativePrimitiveHandle is the concrete "handle" of spec §6's event-driven
// OS primitive contract, backed by github.com/fsnotify/fsnotify — the same
// library the pack's fsnotify-fsnotify, camille-sound4-fsnotify, and
// dpaks-fsnotify examples wrap. fsnotify already abstracts inotify, kqueue,
// ReadDirectoryChangesW, and (via cgo) FSEvents behind one cross-platform
// API, which is exactly the abstraction spec §6 asks this collaborator to
// provide.
type nativePrimitiveHandle struct {
	watcher *fsnotify.Watcher
	path    string
	done    chan struct{}
}

// openNativePrimitive opens an unshared native watch handle on path.
// callback and errCallback are invoked from a dedicated goroutine pumping fsnotify's
// channels; callers are responsible for marshalling those invocations back
// onto a single-writer event loop (see NativeWatchRegistry), since spec §5
// requires that all registry/WatchedDir mutation happen on one logical
// task queue.
func openNativePrimitive(path string, callback func(kind nativeKind, relativeEntry string), errCallback func(error)) (*nativePrimitiveHandle, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "unable to create native watcher")
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "unable to add watch path")
	}

	handle := &nativePrimitiveHandle{
		watcher: watcher,
		path:    path,
		done:    make(chan struct{}),
	}
	go handle.pump(callback, errCallback)

	return handle, nil
}

// pump forwards fsnotify notifications until the handle is closed or
// fsnotify closes its own channels.
func (h *nativePrimitiveHandle) pump(callback func(kind nativeKind, relativeEntry string), errCallback func(error)) {
	cleanWatched := filepath.Clean(h.path)
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			callback(classifyNativeEvent(event), relativeNativeEntry(cleanWatched, event.Name))
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			errCallback(err)
		case <-h.done:
			return
		}
	}
}

// classifyNativeEvent maps an fsnotify operation to the abstract rename/
// change kind distinction spec §6 relies on: creation, removal, and rename
// are all structural changes that may require a directory rescan; writes
// and permission changes are mere content/metadata changes.
func classifyNativeEvent(event fsnotify.Event) nativeKind {
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		return nativeKindRename
	}
	return nativeKindChange
}

// relativeNativeEntry computes the basename of an fsnotify event's path
// relative to the watched path, or the empty string if the event pertains
// to the watched path itself (matching spec §4.1's "entryPath ... may be
// empty").
func relativeNativeEntry(watched, eventName string) string {
	if filepath.Clean(eventName) == watched {
		return ""
	}
	return filepath.Base(eventName)
}

// close releases the native handle. It is safe to call more than once.
func (h *nativePrimitiveHandle) close() error {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	return h.watcher.Close()
}
