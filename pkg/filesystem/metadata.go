package filesystem

import (
	"os"
	"time"
)

// Snapshot encodes the subset of filesystem entry metadata that the watch
// engine needs in order to detect changes and classify entries. It
// corresponds to the StatSnapshot referenced by the polling primitive's
// callback contract.
type Snapshot struct {
	// Name is the base name of the filesystem entry.
	Name string
	// Size is the size of the filesystem entry in bytes.
	Size int64
	// ModificationTime is the modification time of the filesystem entry.
	ModificationTime time.Time
	// IsDir indicates whether or not the entry is a directory.
	IsDir bool
	// IsSymlink indicates whether or not the entry is a symbolic link (as
	// reported by an lstat, i.e. without following the link).
	IsSymlink bool
}

// NewSnapshot constructs a Snapshot from a standard library FileInfo, as
// returned by os.Stat or os.Lstat.
func NewSnapshot(info os.FileInfo) Snapshot {
	return Snapshot{
		Name:             info.Name(),
		Size:             info.Size(),
		ModificationTime: info.ModTime(),
		IsDir:            info.IsDir(),
		IsSymlink:        info.Mode()&os.ModeSymlink != 0,
	}
}

// Equal reports whether two snapshots represent the same observed state for
// change-detection purposes (size and modification time).
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Size == other.Size && s.ModificationTime.Equal(other.ModificationTime)
}
