// Package chokidar provides a cross-platform filesystem-watch engine. Given
// a set of paths (files, directories, or glob patterns), it emits a
// de-duplicated, normalized stream of change events drawn from two
// underlying primitives: an event-driven recursive directory watcher backed
// by github.com/fsnotify/fsnotify, and a polling stat-based watcher used as
// a fallback (or on request) for filesystems where native events are
// unreliable or unavailable.
//
// The package is a Go port of the architecture of the Node.js chokidar
// library: a NativeWatchRegistry and PollingWatchRegistry multiplex
// subscribers onto shared OS handles, a Throttler collapses duplicate
// per-path work, a SymlinkResolver follows or leafs symbolic links while
// breaking cycles, and FileWatcher/DirWatcher/AddDispatcher cooperate to
// reconcile directory snapshots into add/change/unlink events.
package chokidar
