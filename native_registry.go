package chokidar

import (
	"os"
	"path/filepath"
	"strings"
)

// nativeListener is one logical subscriber sharing a native handle.
type nativeListener struct {
	callback    func(kind nativeKind, relativeEntry string)
	errCallback func(error)
}

// nativeWatch is the registry's bookkeeping for a single physical native
// handle, potentially shared by several logical subscribers watching the
// same path (spec §4.1's reference-counting requirement).
type nativeWatch struct {
	handle *nativePrimitiveHandle
	// isDir records whether this watch was opened on a directory, the
	// detail rename-on-directory compensation needs to know whether a
	// vanished path is even eligible for the sweep.
	isDir     bool
	listeners map[int]*nativeListener
	nextID    int
	// unusable is set once the handle has reported an unrecoverable error.
	// Per spec §4.1 such a handle is never closed out from under listeners
	// still attached to it; it is simply left alone until every listener
	// unsubscribes, at which point the registry drops its bookkeeping
	// without attempting another close.
	unusable bool
}

// nativeRegistry implements NativeWatchRegistry (spec §4.1): it multiplexes
// any number of logical subscriptions for the same path onto a single
// native OS handle, broadcasts every notification to all subscribers of
// that path, reroutes a notification that names a child entry to that
// child's own registry entry when one exists (descendant broadcast), and
// reference-counts subscriptions so the handle is closed exactly when the
// last subscriber leaves.
//
// It also carries out rename-on-directory compensation: on platforms where
// renaming or removing a watched directory doesn't reliably deliver a
// self-notification on that directory's own handle, a rename notification
// on any watch is used as the trigger to proactively Lstat the watched
// directory (and everything else registered beneath it) and report
// whatever has actually vanished.
//
// Every method here assumes it is only ever called from a Watcher's
// serialized event loop (spec §5); the native primitive's own pump
// goroutine only ever reaches this registry indirectly, through closures
// posted back onto that loop.
type nativeRegistry struct {
	watches map[string]*nativeWatch
	post    func(func())
	// remove tears down whatever FileWatcher/DirWatcher is tracked at a
	// path, recursing into children and emitting Unlink/UnlinkDir. It's
	// the owning Watcher's reportRemoved.
	remove func(path string)
}

func newNativeRegistry(post func(func()), remove func(path string)) *nativeRegistry {
	return &nativeRegistry{
		watches: make(map[string]*nativeWatch),
		post:    post,
		remove:  remove,
	}
}

// subscribe attaches a new logical listener to path, opening a native
// handle if this is the first subscriber. It returns an unsubscribe
// function the caller must invoke exactly once.
//
// When persistent is false, subscribe bypasses the shared-handle registry
// entirely (spec §4.1): it opens an unshared handle and returns its close
// operation directly, rather than recording an entry in watches. Such a
// subscription never participates in descendant broadcast or rename
// compensation, since nothing else can ever share its handle.
func (r *nativeRegistry) subscribe(path string, isDir, persistent bool, callback func(kind nativeKind, relativeEntry string), errCallback func(error)) (func(), error) {
	if !persistent {
		handle, err := openNativePrimitiveWithRecovery(path, callback, errCallback)
		if err != nil {
			return nil, err
		}
		closed := false
		return func() {
			if closed {
				return
			}
			closed = true
			handle.close()
		}, nil
	}

	watch, ok := r.watches[path]
	if !ok {
		watch = &nativeWatch{listeners: make(map[int]*nativeListener), isDir: isDir}
		r.watches[path] = watch

		handle, err := openNativePrimitiveWithRecovery(path,
			func(kind nativeKind, relativeEntry string) {
				r.post(func() { r.broadcast(path, kind, relativeEntry) })
			},
			func(openErr error) {
				r.post(func() { r.broadcastError(path, openErr) })
			},
		)
		if err != nil {
			delete(r.watches, path)
			return nil, err
		}
		watch.handle = handle
	}

	id := watch.nextID
	watch.nextID++
	watch.listeners[id] = &nativeListener{callback: callback, errCallback: errCallback}

	unsubscribed := false
	return func() {
		if unsubscribed {
			return
		}
		unsubscribed = true
		delete(watch.listeners, id)
		if len(watch.listeners) != 0 {
			return
		}
		delete(r.watches, path)
		if !watch.unusable {
			watch.handle.close()
		}
	}, nil
}

// broadcast delivers a notification to every current listener of path, then
// applies the two compensations a directory rename requires. First,
// descendant broadcast: if the native primitive named a specific child
// entry, the notification is rerouted to that child's own registry entry
// too, in case a directory-level watch is substituting for a file-level
// one that missed the event. Second, rename-on-directory compensation: a
// rename notification is the trigger to check whether the watched path (or
// anything registered beneath it) has actually disappeared out from under
// us, since the OS is not guaranteed to deliver a self-notification to a
// renamed or removed directory's own handle.
func (r *nativeRegistry) broadcast(path string, kind nativeKind, relativeEntry string) {
	watch, ok := r.watches[path]
	if ok {
		for _, listener := range watch.listeners {
			listener.callback(kind, relativeEntry)
		}
	}

	if relativeEntry != "" {
		if child, childOK := r.watches[filepath.Join(path, relativeEntry)]; childOK {
			for _, listener := range child.listeners {
				listener.callback(kind, "")
			}
		}
	}

	if ok && kind == nativeKindRename {
		r.compensateRemoval(path, watch)
	}
}

// compensateRemoval checks whether path, and anything registered beneath
// it, has vanished out from under watch, reporting removal directly
// instead of waiting on a self-notification that may never arrive. A
// vanished watched directory is reported first; then every other
// registered key nested under it that no longer exists on disk is reported
// too, since each of those also lost its chance at a native notification
// of its own.
func (r *nativeRegistry) compensateRemoval(path string, watch *nativeWatch) {
	if watch.isDir {
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			r.remove(path)
		}
	}

	prefix := path + string(filepath.Separator)
	for candidate := range r.watches {
		if candidate == path || !strings.HasPrefix(candidate, prefix) {
			continue
		}
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			r.remove(candidate)
		}
	}
}

// broadcastError delivers an error to every current listener of path and
// marks the watch unusable, per spec §4.1's directive that a handle which
// has errored is never closed by the registry itself: listeners are left to
// unsubscribe in their own time, typically after tearing down whatever
// FileWatcher/DirWatcher depended on it.
func (r *nativeRegistry) broadcastError(path string, err error) {
	watch, ok := r.watches[path]
	if !ok {
		return
	}
	watch.unusable = true
	for _, listener := range watch.listeners {
		listener.errCallback(err)
	}
}

// closeAll tears down every outstanding native handle, used when a Watcher
// is closed.
func (r *nativeRegistry) closeAll() {
	for path, watch := range r.watches {
		if !watch.unusable {
			watch.handle.close()
		}
		delete(r.watches, path)
	}
}
