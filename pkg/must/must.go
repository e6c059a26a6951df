package must

import (
	"io"

	"github.com/electric-eloquence/chokidar/pkg/logging"
)

// Close closes a closer and logs a warning if the close fails. It's intended
// for use in defer statements where a close error can't otherwise be handled
// and shouldn't interrupt control flow (e.g. releasing an OS watch handle
// during teardown).
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}
