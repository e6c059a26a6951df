//go:build windows

package must

import (
	"github.com/electric-eloquence/chokidar/pkg/logging"
	"golang.org/x/sys/windows"
)

// CloseWindowsHandle closes a raw Windows handle and logs a warning if the
// close fails.
func CloseWindowsHandle(wh windows.Handle, logger *logging.Logger) {
	if err := windows.CloseHandle(wh); err != nil {
		logger.Warnf("unable to close handle %d: %s", wh, err.Error())
	}
}
