package hw

import "math"

// NoIRQ is returned by AudioUnit.EarliestIRQ when no interrupt is scheduled.
const NoIRQ = math.MaxInt64

// AudioUnit is the audio processor as seen from the CPU. All cycle values
// are frame-relative CPU cycles, non-decreasing between two EndFrame calls.
type AudioUnit interface {
	// WriteRegister handles a write to $4000-$4013, $4015 or $4017.
	WriteRegister(cycle int64, addr uint16, val uint8)

	// ReadStatus handles a read of $4015.
	ReadStatus(cycle int64) uint8

	// EarliestIRQ returns the cycle at which the audio unit asserts its
	// interrupt line, or NoIRQ.
	EarliestIRQ() int64

	// EndFrame closes the current audio frame, which lasted cycle cycles.
	// The unit rebases its time so that cycle becomes 0.
	EndFrame(cycle int64)
}

// NoAudio is an AudioUnit that doesn't make any sound.
type NoAudio struct{}

func (NoAudio) WriteRegister(int64, uint16, uint8) {}
func (NoAudio) ReadStatus(int64) uint8             { return 0 }
func (NoAudio) EarliestIRQ() int64                 { return NoIRQ }
func (NoAudio) EndFrame(int64)                     {}
