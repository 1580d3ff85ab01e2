package stdlib

import (
	"time"

	"github.com/thomasrohde/rlisp/pkg/interpreter"
)

// processStart anchors clock(). time.Since reads the monotonic clock, so
// wall clock adjustments do not move it.
var processStart = time.Now()

// clock() → nanoseconds since the process started
func stdlibClock(_ []interpreter.Value) (interpreter.Value, error) {
	return interpreter.Number(time.Since(processStart).Nanoseconds()), nil
}
