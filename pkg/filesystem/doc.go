// Package filesystem provides filesystem utility methods used by the watch
// engine: path normalization, directory listing, and stat snapshotting.
package filesystem
