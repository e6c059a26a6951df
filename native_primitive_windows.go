//go:build windows

package chokidar

import (
	"errors"

	"github.com/electric-eloquence/chokidar/pkg/must"
	"golang.org/x/sys/windows"
)

// openNativePrimitiveWithRecovery opens a native handle on path, wrapping
// its error callback with the Windows EPERM probe described in spec
// §4.1/§7: an ERROR_ACCESS_DENIED reported by ReadDirectoryChangesW (and
// therefore fsnotify) is passed on only when a direct open of path
// succeeds, and is swallowed otherwise (see wrapEPERMRecovery). Every
// other error is passed on unchanged.
func openNativePrimitiveWithRecovery(path string, callback func(kind nativeKind, relativeEntry string), errCallback func(error)) (*nativePrimitiveHandle, error) {
	return openNativePrimitive(path, callback, wrapEPERMRecovery(path, errCallback))
}

// wrapEPERMRecovery intercepts an access-denied error and only lets it
// through once a direct open-then-close probe of path confirms the path is
// actually still there and accessible. A probe failure means the access
// denial reflects genuine unavailability (the path vanished, or access is
// truly restricted), in which case the error is swallowed rather than
// surfaced as a spurious failure.
func wrapEPERMRecovery(path string, errCallback func(error)) func(error) {
	return func(err error) {
		if !isAccessDenied(err) {
			errCallback(err)
			return
		}
		if probeAccessible(path) {
			errCallback(err)
		}
	}
}

// isAccessDenied reports whether err ultimately wraps Windows'
// ERROR_ACCESS_DENIED, the code the EPERM probe is allowed to swallow.
func isAccessDenied(err error) bool {
	return errors.Is(err, windows.ERROR_ACCESS_DENIED)
}

// probeAccessible attempts to open path directly via the Win32 API and
// immediately closes the resulting handle, reporting whether the open
// succeeded. FILE_FLAG_BACKUP_SEMANTICS is required to open directories
// this way, not just regular files.
func probeAccessible(path string) bool {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}

	handle, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return false
	}

	must.CloseWindowsHandle(handle, nil)
	return true
}
