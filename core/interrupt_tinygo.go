//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts so timer handlers and the main loop
// never see a half-linked timer list
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
