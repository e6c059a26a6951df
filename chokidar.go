// Package chokidar implements a cross-platform filesystem-watch engine in
// the spirit of the Node.js chokidar library: a de-duplicated,
// symlink-aware, recursive add/change/unlink event stream layered over
// either event-driven OS notifications or stat-based polling.
package chokidar

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
	"github.com/electric-eloquence/chokidar/pkg/logging"
	"github.com/google/uuid"
)

// watchEntry is the Watcher's bookkeeping for one tracked path: exactly
// one of file or dir is populated, matching whatever AddDispatcher
// classified the path as.
type watchEntry struct {
	isDir bool
	file  *fileWatcher
	dir   *dirWatcher
}

// Watcher is the public facade over the whole engine: NativeWatchRegistry,
// PollingWatchRegistry, Throttler, SymlinkResolver, WatchedDir, and
// AddDispatcher all live behind it. Every mutation any of those
// collaborators make is serialized through a single event-loop goroutine
// (spec §5's "single-threaded cooperative" model), so none of them guard
// their own state with a mutex; Watcher itself only needs one to guard the
// handful of fields touched directly by public methods from arbitrary
// caller goroutines.
type Watcher struct {
	opts   Options
	logger *logging.Logger
	id     uuid.UUID

	loopCh chan func()

	mu     sync.Mutex
	closed bool

	events chan Event

	native       *nativeRegistry
	polling      *pollingRegistry
	throttle     *throttler
	symlinkR     *symlinkResolver
	watchedDirsR *watchedDirRegistry
	dispatcher   *dispatcher

	watchTable map[string]*watchEntry
}

// New creates a Watcher and begins watching the given initial paths.
// Callers should build options from DefaultOptions() rather than an
// Options{} literal: a zero Interval makes the polling primitive's
// time.NewTicker panic once UsePolling is set. An EventReady is emitted once the
// initial paths (and everything beneath them) have been fully classified;
// paths added later via Add do not re-trigger it.
func New(options Options, paths ...string) *Watcher {
	w := &Watcher{
		opts:       options,
		logger:     options.Logger,
		id:         uuid.New(),
		loopCh:     make(chan func(), 256),
		events:     make(chan Event, 256),
		throttle:   newThrottler(),
		watchTable: make(map[string]*watchEntry),
	}
	w.watchedDirsR = newWatchedDirRegistry()
	w.native = newNativeRegistry(w.postOrDrop, w.reportRemoved)
	w.polling = newPollingRegistry(w.postOrDrop)
	w.symlinkR = newSymlinkResolver(options.FollowSymlinks, w.emitEvent)
	w.dispatcher = newDispatcher(w)

	if w.logger != nil {
		w.logger = w.logger.Sublogger(w.id.String())
	}

	go w.loop()

	done := make(chan struct{})
	w.loopCh <- func() {
		for _, path := range paths {
			abs, err := w.resolvePath(path)
			if err != nil {
				w.emitError(err)
				continue
			}
			root, glob := buildGlobRoot(abs)
			w.dispatcher.dispatch(root, 0, true, glob)
		}
		w.emitEvent(EventReady, "", filesystem.Snapshot{})
		close(done)
	}
	<-done

	return w
}

// loop is the single-writer event loop every registry and watcher
// collaborator assumes it's running on.
func (w *Watcher) loop() {
	for fn := range w.loopCh {
		fn()
	}
}

// postOrDrop enqueues fn onto the event loop, silently dropping it if the
// Watcher has already been closed. It is handed to the native and polling
// registries as their post function, since notifications can arrive from
// background goroutines after Close has been requested but before those
// goroutines have noticed.
func (w *Watcher) postOrDrop(fn func()) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	w.loopCh <- fn
}

// resolvePath applies Options.Cwd and normalizes path the way
// pkg/filesystem.Normalize does for every other path in this module.
func (w *Watcher) resolvePath(path string) (string, error) {
	if w.opts.Cwd != "" && !filepath.IsAbs(path) {
		path = filepath.Join(w.opts.Cwd, path)
	}
	return filesystem.Normalize(path)
}

// Add begins watching path (and, if it is a directory, everything beneath
// it, subject to Options.Depth). It blocks until the path and its initial
// subtree have been fully classified. Errors encountered while walking
// the subtree are delivered through Events() as EventError rather than
// returned here; Add only returns an error if path itself can't be
// resolved or the Watcher is already closed.
func (w *Watcher) Add(path string) error {
	abs, err := w.resolvePath(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	root, glob := buildGlobRoot(abs)

	done := make(chan struct{})
	w.loopCh <- func() {
		w.dispatcher.dispatch(root, 0, true, glob)
		close(done)
	}
	<-done
	return nil
}

// Unwatch stops watching path (and everything beneath it, if it is a
// directory) without emitting any Unlink/UnlinkDir events, since nothing
// was removed from disk.
func (w *Watcher) Unwatch(path string) error {
	abs, err := w.resolvePath(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	done := make(chan struct{})
	w.loopCh <- func() {
		w.teardown(abs, false)
		close(done)
	}
	<-done
	return nil
}

// Events returns the Watcher's event stream, carrying add/addDir/change/
// unlink/unlinkDir/ready/error events. Callers must keep draining it; the
// event loop blocks on a full channel just as it blocks on any other
// piece of serialized work.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops watching everything and releases all native and polling
// handles. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	done := make(chan struct{})
	w.loopCh <- func() {
		w.native.closeAll()
		w.polling.closeAll()
		for path := range w.watchTable {
			delete(w.watchTable, path)
		}
		close(done)
	}
	<-done
	close(w.loopCh)
	close(w.events)

	if w.logger != nil {
		w.logger.Debug("watcher closed")
	}

	return nil
}

// send delivers ev on the event channel. Only ever called from the event
// loop goroutine.
func (w *Watcher) send(ev Event) {
	if w.logger != nil {
		w.logger.Debugf("event: %s", ev)
	}
	w.events <- ev
}

// The methods below satisfy watcherHost, letting fileWatcher, dirWatcher,
// and dispatcher drive the Watcher without importing its concrete type.

func (w *Watcher) watchOptions() Options                 { return w.opts }
func (w *Watcher) fileThrottler() *throttler             { return w.throttle }
func (w *Watcher) nativeWatches() *nativeRegistry        { return w.native }
func (w *Watcher) pollingWatches() *pollingRegistry      { return w.polling }
func (w *Watcher) symlinks() *symlinkResolver            { return w.symlinkR }
func (w *Watcher) watchedDirs() *watchedDirRegistry      { return w.watchedDirsR }
func (w *Watcher) emitEvent(kind EventType, path string, stats filesystem.Snapshot) {
	w.send(Event{Type: kind, Path: path, Stats: stats})
}
func (w *Watcher) emitError(err error) {
	w.send(Event{Type: EventError, Err: err})
}

func (w *Watcher) emitRaw(path string, kind nativeKind, entry string) {
	w.send(Event{Type: EventRaw, Path: path, RawKind: string(kind), RawEntry: entry})
}

func (w *Watcher) isIgnored(path string, stats *filesystem.Snapshot) bool {
	if w.opts.Ignored == nil {
		return false
	}
	return w.opts.Ignored(path, stats)
}

func (w *Watcher) schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() { w.postOrDrop(fn) })
}

func (w *Watcher) tracked(path string) bool {
	_, ok := w.watchTable[path]
	return ok
}

func (w *Watcher) trackFile(path string, fw *fileWatcher) {
	w.watchTable[path] = &watchEntry{file: fw}
}

func (w *Watcher) trackDir(path string, dw *dirWatcher) {
	w.watchTable[path] = &watchEntry{isDir: true, dir: dw}
}

// reportRemoved tears down the watcher tracked at path, recursing into
// children first so that a removed directory's contents are announced
// bottom-up, then emits the matching Unlink/UnlinkDir event for path
// itself.
func (w *Watcher) reportRemoved(path string) {
	w.teardown(path, true)
}

// teardown closes whatever is tracked at path, recursing into directory
// children first, optionally emitting Unlink/UnlinkDir along the way.
func (w *Watcher) teardown(path string, emit bool) {
	entry, ok := w.watchTable[path]
	if !ok {
		w.symlinkR.forget(path)
		return
	}
	delete(w.watchTable, path)

	if entry.isDir {
		children := w.watchedDirsR.getWatchedDir(path).children()
		for _, name := range children {
			w.teardown(filepath.Join(path, name), emit)
		}
		entry.dir.close()
		w.watchedDirsR.remove(path)
		if emit {
			w.emitEvent(EventUnlinkDir, path, filesystem.Snapshot{})
		}
	} else {
		entry.file.close()
		w.symlinkR.forget(path)
		if emit {
			w.emitEvent(EventUnlink, path, filesystem.Snapshot{})
		}
	}
}
