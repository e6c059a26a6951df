package chokidar

import (
	"github.com/pkg/errors"
)

// ErrWatcherClosed indicates that an operation was attempted on a Watcher
// that has already been closed.
var ErrWatcherClosed = errors.New("watcher closed")

// ErrTooManyPendingPaths indicates that a directory scan produced more
// pending child paths than the engine is willing to track in a single
// coalesced rescan.
var ErrTooManyPendingPaths = errors.New("too many pending paths")

// watchCoalescingMaximumPendingPaths bounds the number of children a single
// directory rescan will dispatch before giving up and surfacing
// ErrTooManyPendingPaths, guarding against runaway memory growth when
// watching a directory that is being filled pathologically quickly.
const watchCoalescingMaximumPendingPaths = 64 * 1024
