//go:build !tinygo

package core

import "sync/atomic"

// State stands in for the saved interrupt mask on the host build.
type State uintptr

// criticalDepth counts open critical sections so tests can see which
// code runs inside one.
var criticalDepth atomic.Int32

// disableInterrupts only tracks nesting on regular Go; host tests drive
// the engine from a single goroutine and the counter is atomic.
func disableInterrupts() State {
	criticalDepth.Add(1)
	return 0
}

// restoreInterrupts closes a section opened by disableInterrupts.
func restoreInterrupts(state State) {
	criticalDepth.Add(-1)
}
