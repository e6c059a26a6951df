package buildinfo

import (
	"os"
)

// DebugEnabled controls whether or not debug-level logging is enabled for the
// watch engine. It is set automatically based on the CHOKIDAR_DEBUG
// environment variable.
var DebugEnabled bool

func init() {
	// Check whether or not debugging should be enabled.
	DebugEnabled = os.Getenv("CHOKIDAR_DEBUG") == "1"
}
