package highlight

import "sync/atomic"

// stop is the process-wide request to abandon highlighting. Highlighters poll
// it between tokens; it is cleared when a new highlight starts.
var stop atomic.Bool

// Abort asks any running highlighter to give up at its next checkpoint. It
// returns immediately and does not wait for the highlighter to notice.
func Abort() {
	stop.Store(true)
}

// Aborted reports whether an abort is pending.
func Aborted() bool {
	return stop.Load()
}

func clearAbort() {
	stop.Store(false)
}
