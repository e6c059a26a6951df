package chokidar

import (
	"time"

	"github.com/electric-eloquence/chokidar/pkg/filesystem"
	"github.com/electric-eloquence/chokidar/pkg/logging"
)

// IgnoredFunc is the ignore predicate consulted by AddDispatcher and
// DirWatcher before classifying or recursing into a path. It is handed the
// absolute path and, when available, the stat snapshot already obtained for
// it (nil if the path hasn't been stat'd yet).
type IgnoredFunc func(path string, stats *filesystem.Snapshot) bool

// Options controls the behavior of a Watcher. The zero value is not valid;
// use DefaultOptions to obtain a populated starting point.
type Options struct {
	// Persistent indicates whether native OS handles are shared between
	// subscriptions to the same path through NativeWatchRegistry (true), or
	// opened unshared per subscription, outside the registry, and kept open
	// until that subscription ends (false). The polling primitive does not
	// consult it.
	Persistent bool
	// UsePolling forces the polling primitive rather than the native
	// event-driven primitive for all subscriptions.
	UsePolling bool
	// Interval is the polling interval used by the polling primitive for
	// non-binary files and directories.
	Interval time.Duration
	// BinaryInterval is the polling interval used for files the binary
	// classifier labels as binary, when EnableBinaryInterval is set.
	BinaryInterval time.Duration
	// EnableBinaryInterval enables the use of BinaryInterval for files
	// classified as binary by the basename classifier in binary.go.
	EnableBinaryInterval bool
	// FollowSymlinks controls whether symbolic links are followed (their
	// target watched) or treated as opaque leaf entities. See
	// SymlinkResolver.
	FollowSymlinks bool
	// IgnoreInitial suppresses add/addDir events for paths that already
	// exist at the time they are first classified.
	IgnoreInitial bool
	// Depth bounds directory recursion. A negative value means unlimited
	// recursion, matching chokidar's own default.
	Depth int
	// Ignored, if non-nil, is consulted for every path before it is
	// classified or recursed into.
	Ignored IgnoredFunc
	// Cwd, if non-empty, is used to resolve relative paths passed to Add.
	Cwd string
	// Logger receives diagnostic output from the engine. A nil Logger is
	// valid and silently discards everything (see pkg/logging.Logger).
	Logger *logging.Logger
}

// DefaultOptions returns the Options a Watcher uses when none are supplied,
// matching chokidar's own defaults: persistent native watching, unlimited
// recursion, symlinks followed, and a 100ms polling interval used only when
// UsePolling is explicitly requested.
func DefaultOptions() Options {
	return Options{
		Persistent:     true,
		UsePolling:     false,
		Interval:       100 * time.Millisecond,
		BinaryInterval: 300 * time.Millisecond,
		FollowSymlinks: true,
		Depth:          -1,
	}
}
