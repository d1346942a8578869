// Package hwdefs holds definitions shared by the hardware packages and the
// emulator front-end.
package hwdefs

// Reset kinds, as passed to the Reset methods.
const (
	SoftReset = true  // reset button
	HardReset = false // power cycle
)
