package chokidar

import (
	"os"
	"path/filepath"
	"time"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
)

// dirWatchReaddirThrottleWindow coalesces bursts of raw directory
// notifications (a tool that writes several files in quick succession,
// for instance) into a single readdir-and-diff pass.
const dirWatchReaddirThrottleWindow = 1000 * time.Millisecond

// dirWatcher implements DirWatcher (spec §4.6): it watches a directory's
// own native or polling handle, and on every notification re-reads the
// directory and diffs the result against the watchedDir's last-known
// children to discover additions and removals, recursing into new entries
// through AddDispatcher.
type dirWatcher struct {
	host        watcherHost
	dispatcher  *dispatcher
	path        string
	depth       int
	unsubscribe func()
	children    *watchedDir
	// glob, if non-nil, is the filterPath/filterDir predicate inherited from
	// a glob-rooted Add() call (spec §6); it is passed unchanged to every
	// child dispatched from this directory's rescans.
	glob *globFilter
}

// newDirWatcher begins watching path as a directory at the given
// recursion depth (the root of an Add() call starts at depth 0). stats is
// the directory's own lstat/stat snapshot, used to drive the addDir event
// unless suppressInitial is set. initial indicates whether this call is
// still part of the original Add() population pass, in which case newly
// discovered children are dispatched with initial=true themselves
// (letting IgnoreInitial apply transitively to the whole subtree);
// children discovered by a later, steady-state rescan are always
// announced regardless of IgnoreInitial.
func newDirWatcher(host watcherHost, dispatcher *dispatcher, path string, stats filesystem.Snapshot, depth int, initial, suppressInitial bool, glob *globFilter) (*dirWatcher, error) {
	dw := &dirWatcher{
		host:       host,
		dispatcher: dispatcher,
		path:       path,
		depth:      depth,
		children:   host.watchedDirs().getWatchedDir(path),
		glob:       glob,
	}

	opts := host.watchOptions()
	rawCallback := func(kind nativeKind, relativeEntry string) { host.emitRaw(path, kind, relativeEntry) }
	notifyCallback := func(kind nativeKind, _ string) { dw.scheduleRescan() }
	errCallback := func(err error) { host.emitError(err) }

	var unsubscribe func()
	var err error
	if opts.UsePolling {
		unsubscribe = host.pollingWatches().subscribe(path, opts.Interval, rawCallback, notifyCallback, errCallback)
	} else {
		combined := func(kind nativeKind, relativeEntry string) {
			rawCallback(kind, relativeEntry)
			notifyCallback(kind, relativeEntry)
		}
		unsubscribe, err = host.nativeWatches().subscribe(path, true, opts.Persistent, combined, errCallback)
		if err != nil {
			return nil, err
		}
	}
	dw.unsubscribe = unsubscribe

	if !suppressInitial {
		host.emitEvent(EventAddDir, path, stats)
	}

	dw.rescan(initial)

	return dw, nil
}

// scheduleRescan throttles raw directory notifications down to a single
// rescan per window, matching fileWatcher.onNotify's coalescing strategy.
func (dw *dirWatcher) scheduleRescan() {
	handle := dw.host.fileThrottler().throttle(throttleReaddir, dw.path, dirWatchReaddirThrottleWindow)
	if handle == nil {
		return
	}
	dw.rescan(false)
	dw.host.schedule(dirWatchReaddirThrottleWindow, func() {
		if handle.clear() {
			dw.rescan(false)
		}
	})
}

// rescan reads the directory's current children and diffs them against
// the watchedDir's last-known set, dispatching new entries and reporting
// removed ones.
func (dw *dirWatcher) rescan(initial bool) {
	entries, err := os.ReadDir(dw.path)
	if err != nil {
		if os.IsNotExist(err) {
			dw.host.reportRemoved(dw.path)
			return
		}
		dw.host.emitError(err)
		return
	}

	if len(entries) > watchCoalescingMaximumPendingPaths {
		dw.host.emitError(ErrTooManyPendingPaths)
		entries = entries[:watchCoalescingMaximumPendingPaths]
	}

	current := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		current[entry.Name()] = struct{}{}
	}

	for _, name := range dw.children.children() {
		if _, ok := current[name]; ok {
			continue
		}
		dw.children.remove(name)
		dw.host.reportRemoved(filepath.Join(dw.path, name))
	}

	for name := range current {
		if dw.children.has(name) {
			continue
		}
		dw.children.add(name)
		dw.dispatcher.dispatch(filepath.Join(dw.path, name), dw.depth+1, initial, dw.glob)
	}
}

// close stops watching the directory. Safe to call at most once. It does
// not itself recurse into children; the owning Watcher's reportRemoved
// walks the watchedDir registry to tear down descendants before calling
// this.
func (dw *dirWatcher) close() {
	dw.unsubscribe()
}
