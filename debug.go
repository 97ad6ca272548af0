package orbit

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// globalDebug mirrors the most recently set debug flag so that components
// without a Session pointer (controller, synchronizer goroutines) can check
// it cheaply. Multiple Sessions with differing debug modes reflect
// whichever called SetDebugMode last.
var globalDebug atomic.Bool

var (
	debugMu  sync.Mutex
	debugOut io.Writer = os.Stderr
)

// SetDebugMode enables or disables debug logging. When enabled, state
// transitions, gestures, renderer errors and counter sync failures are
// logged to stderr.
func SetDebugMode(enabled bool) {
	globalDebug.Store(enabled)
}

// DebugMode reports whether debug logging is enabled.
func DebugMode() bool {
	return globalDebug.Load()
}

// debugf prints a tagged line to the debug writer when debug mode is on.
func debugf(format string, args ...any) {
	if !globalDebug.Load() {
		return
	}
	debugMu.Lock()
	defer debugMu.Unlock()
	_, _ = fmt.Fprintf(debugOut, "[orbit] "+format+"\n", args...)
}

// setDebugOutput swaps the debug writer and returns a restore func. Tests only.
func setDebugOutput(w io.Writer) func() {
	debugMu.Lock()
	prev := debugOut
	debugOut = w
	debugMu.Unlock()
	return func() {
		debugMu.Lock()
		debugOut = prev
		debugMu.Unlock()
	}
}
