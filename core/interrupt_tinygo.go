//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts and returns the previous state.
// Sections may nest, so the engine can use them from inside the slave
// interrupt as well as from the main loop.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the saved interrupt state.
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
