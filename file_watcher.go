package chokidar

import (
	"os"
	"time"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
)

// fileWatchThrottleWindow coalesces bursts of raw watch callbacks for the
// same file (common when an editor does several small writes in a row)
// into a single restat-and-maybe-emit pass.
const fileWatchThrottleWindow = 5 * time.Millisecond

// fileWatchRestatRecoveryDelay is how long to wait before retrying a stat
// that came back with a zero modification time. Some filesystems
// (observed on NFS mounts and certain container overlay filesystems)
// briefly report a zeroed mtime for a file that is mid-write; retrying
// shortly after almost always sees the real value.
const fileWatchRestatRecoveryDelay = 10 * time.Millisecond

// watcherHost is everything FileWatcher, DirWatcher, and AddDispatcher
// need from the owning Watcher. It exists so those collaborators can be
// written, read, and tested independently of chokidar.go's wiring, and so
// that every mutation they trigger still funnels through the owning
// Watcher's single serialized event loop (spec §5).
type watcherHost interface {
	watchOptions() Options
	fileThrottler() *throttler
	nativeWatches() *nativeRegistry
	pollingWatches() *pollingRegistry
	symlinks() *symlinkResolver
	watchedDirs() *watchedDirRegistry
	emitEvent(kind EventType, path string, stats filesystem.Snapshot)
	emitError(err error)
	// emitRaw delivers an EventRaw passthrough of a native or polling
	// notification verbatim, before it's reconciled into add/change/
	// unlink (spec §3/§6's rawEmitters fan-out).
	emitRaw(path string, kind nativeKind, entry string)
	isIgnored(path string, stats *filesystem.Snapshot) bool
	// schedule invokes fn after delay, on the owning Watcher's event loop.
	schedule(delay time.Duration, fn func())
	// reportRemoved tears down whatever FileWatcher or DirWatcher is
	// tracked at path (recursively, for a directory), emitting the
	// matching Unlink/UnlinkDir events bottom-up and forgetting any
	// symlink or watchedDir bookkeeping held for it.
	reportRemoved(path string)
	// tracked reports whether path already has a FileWatcher or DirWatcher
	// registered for it.
	tracked(path string) bool
	// trackFile and trackDir register a newly created watcher so future
	// tracked/reportRemoved calls can find it.
	trackFile(path string, fw *fileWatcher)
	trackDir(path string, dw *dirWatcher)
}

// fileWatcher implements FileWatcher (spec §4.5): it watches a single
// regular file, restats it on every raw notification, and emits change or
// unlink events based on how the new stat snapshot compares to the last
// one recorded.
type fileWatcher struct {
	host        watcherHost
	path        string
	unsubscribe func()
	stats       filesystem.Snapshot
	haveStats   bool
}

// newFileWatcher begins watching path. initialStats, if non-nil, is the
// snapshot already obtained by the caller (typically AddDispatcher) when
// it decided this path was a file worth watching; it seeds the watcher's
// baseline and drives the initial add event, unless suppressInitial is
// set (AddDispatcher sets it when this path was discovered during the
// initial population of an Add() call and Options.IgnoreInitial is
// active — a file discovered later, during a live rescan, always gets
// its add event regardless of that option).
func newFileWatcher(host watcherHost, path string, initialStats *filesystem.Snapshot, suppressInitial bool) (*fileWatcher, error) {
	fw := &fileWatcher{host: host, path: path}
	opts := host.watchOptions()

	rawCallback := func(kind nativeKind, entry string) { host.emitRaw(path, kind, entry) }
	notifyCallback := func(kind nativeKind, _ string) { fw.onNotify() }
	errCallback := func(err error) { host.emitError(err) }

	var unsubscribe func()
	var err error
	if opts.UsePolling {
		interval := opts.Interval
		if opts.EnableBinaryInterval && isBinaryPath(path) {
			interval = opts.BinaryInterval
		}
		unsubscribe = host.pollingWatches().subscribe(path, interval, rawCallback, notifyCallback, errCallback)
	} else {
		combined := func(kind nativeKind, entry string) {
			rawCallback(kind, entry)
			notifyCallback(kind, entry)
		}
		unsubscribe, err = host.nativeWatches().subscribe(path, false, opts.Persistent, combined, errCallback)
		if err != nil {
			return nil, err
		}
	}
	fw.unsubscribe = unsubscribe

	if initialStats != nil {
		fw.stats = *initialStats
		fw.haveStats = true
		if !suppressInitial {
			host.emitEvent(EventAdd, path, *initialStats)
		}
	}

	return fw, nil
}

// onNotify is the raw watch callback, throttled so that a burst of writes
// collapses into one restat-and-emit.
func (fw *fileWatcher) onNotify() {
	handle := fw.host.fileThrottler().throttle(throttleWatch, fw.path, fileWatchThrottleWindow)
	if handle == nil {
		return
	}
	fw.restat()
	fw.host.schedule(fileWatchThrottleWindow, func() {
		if handle.clear() {
			fw.restat()
		}
	})
}

// restat re-stats the file and emits change/unlink events as appropriate.
func (fw *fileWatcher) restat() {
	info, err := os.Lstat(fw.path)
	if err != nil {
		if os.IsNotExist(err) {
			fw.handleUnlink()
			return
		}
		fw.host.emitError(err)
		return
	}

	snapshot := filesystem.NewSnapshot(info)
	if snapshot.ModificationTime.IsZero() {
		fw.host.schedule(fileWatchRestatRecoveryDelay, fw.restat)
		return
	}

	if fw.host.isIgnored(fw.path, &snapshot) {
		return
	}

	if fw.haveStats && fw.stats.Equal(snapshot) {
		return
	}

	fw.stats = snapshot
	fw.haveStats = true
	fw.host.emitEvent(EventChange, fw.path, snapshot)
}

// handleUnlink reacts to the watched file having disappeared. Actual
// teardown and event emission is the owning Watcher's job (reportRemoved),
// since this path might be getting removed as part of a larger directory
// removal already in progress.
func (fw *fileWatcher) handleUnlink() {
	if !fw.haveStats {
		return
	}
	fw.haveStats = false
	fw.host.reportRemoved(fw.path)
}

// close stops watching the file. Safe to call at most once.
func (fw *fileWatcher) close() {
	fw.unsubscribe()
}
