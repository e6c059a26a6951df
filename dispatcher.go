package chokidar

import (
	"os"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
)

// dispatcher implements AddDispatcher (spec §4.7): given a path and the
// depth it sits at relative to its watch root, it classifies the path
// (symlink, directory, or regular file) and routes it to the matching
// collaborator, inheriting the Ignored predicate at every step so that an
// ignored directory is never even stat'd for recursion.
type dispatcher struct {
	host watcherHost
}

func newDispatcher(host watcherHost) *dispatcher {
	return &dispatcher{host: host}
}

// dispatch classifies path and begins watching it if appropriate. depth is
// the path's distance from its Add() root (the root itself is depth 0).
// initial indicates this call is part of the original population of an
// Add() call; it is threaded through so IgnoreInitial can suppress add
// events for the whole initial subtree while still announcing anything
// discovered afterward by a live rescan. glob, if non-nil, carries the
// filterPath/filterDir predicate spec §6 describes for a watch rooted at a
// glob pattern (see glob.go); it is inherited unchanged by every path
// dispatched beneath the glob's root directory.
func (d *dispatcher) dispatch(path string, depth int, initial bool, glob *globFilter) {
	if d.host.tracked(path) {
		return
	}

	info, err := os.Lstat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.host.emitError(err)
		}
		return
	}
	snapshot := filesystem.NewSnapshot(info)

	if snapshot.IsSymlink {
		resolved := d.resolveSymlink(path, snapshot)
		if resolved == nil {
			return
		}
		snapshot = *resolved
	}

	if d.host.isIgnored(path, &snapshot) {
		return
	}

	opts := d.host.watchOptions()
	suppressInitial := initial && opts.IgnoreInitial

	if snapshot.IsDir {
		d.dispatchDir(path, snapshot, depth, initial, suppressInitial, glob)
	} else {
		// A glob root always watches its whole directory subtree (so
		// matches nested arbitrarily deep are found), but only files
		// satisfying the pattern itself are actually watched.
		if glob != nil && !glob.match(path, false) {
			return
		}
		d.dispatchFile(path, snapshot, suppressInitial)
	}
}

// resolveSymlink consults the SymlinkResolver for a symbolic link entry.
// It returns nil if the link was fully handled there (leaf mode, or a
// cycle detected in follow mode) and dispatch should stop, or the
// resolved target's own stat snapshot if dispatch should continue
// classifying the link as whatever its target actually is.
func (d *dispatcher) resolveSymlink(path string, lstats filesystem.Snapshot) *filesystem.Snapshot {
	if d.host.symlinks().observe(path, lstats) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.host.emitError(err)
		}
		return nil
	}
	resolved := filesystem.NewSnapshot(info)
	return &resolved
}

// dispatchFile begins watching path as a regular file.
func (d *dispatcher) dispatchFile(path string, stats filesystem.Snapshot, suppressInitial bool) {
	fw, err := newFileWatcher(d.host, path, &stats, suppressInitial)
	if err != nil {
		d.host.emitError(err)
		return
	}
	d.host.trackFile(path, fw)
}

// dispatchDir begins watching path as a directory, unless depth exceeds
// Options.Depth, in which case the directory is skipped entirely (neither
// watched nor announced) rather than watched-but-never-recursed: a
// directory nobody recurses into provides no add/change/unlink visibility
// into its own contents, so there's nothing useful to watch.
func (d *dispatcher) dispatchDir(path string, stats filesystem.Snapshot, depth int, initial, suppressInitial bool, glob *globFilter) {
	opts := d.host.watchOptions()
	if opts.Depth >= 0 && depth > opts.Depth {
		return
	}

	// A directory that doesn't itself satisfy the glob is still watched and
	// recursed into (its descendants might match), it just doesn't get its
	// own addDir event.
	suppressAddDir := suppressInitial || (glob != nil && !glob.match(path, true))

	dw, err := newDirWatcher(d.host, d, path, stats, depth, initial, suppressAddDir, glob)
	if err != nil {
		d.host.emitError(err)
		return
	}
	d.host.trackDir(path, dw)
}
