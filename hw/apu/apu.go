// Package apu implements the audio processing unit: 2 square channels, a
// triangle channel, a noise channel and the frame sequencer. The delta
// modulation channel is not emulated.
package apu

import (
	"famicore/emu/log"
	"famicore/hw"
	"famicore/hw/hwio"
)

// APU runs lazily: it catches up with the CPU each time a register is
// accessed and at the end of each frame. Cycles are frame-relative CPU
// cycles.
type APU struct {
	mixer *Mixer

	square1  squareChannel
	square2  squareChannel
	triangle triangleChannel
	noise    noiseChannel

	frameCounter frameCounter

	prevCycle int64  // cycle the APU has run up to
	frameBase uint64 // cycles elapsed before the current frame
	nextIRQ   int64
}

var _ hw.AudioUnit = (*APU)(nil)

func New(mixer *Mixer) *APU {
	a := &APU{
		mixer:    mixer,
		square1:  newSquareChannel(mixer, Square1),
		square2:  newSquareChannel(mixer, Square2),
		triangle: newTriangleChannel(mixer),
		noise:    newNoiseChannel(mixer),
	}
	a.frameCounter.apu = a
	a.Reset(false)
	return a
}

// Reset resets the APU, soft is true for a reset, false for a power cycle.
func (a *APU) Reset(soft bool) {
	a.prevCycle = 0

	a.square1.reset(soft)
	a.square2.reset(soft)
	a.triangle.reset(soft)
	a.noise.reset(soft)
	a.frameCounter.reset(soft)
	a.mixer.reset()
	a.updateIRQ()
}

// WriteRegister implements hw.AudioUnit.
func (a *APU) WriteRegister(cycle int64, addr uint16, val uint8) {
	a.run(cycle)

	switch {
	case addr < 0x4004:
		a.square1.writeReg(addr, val)
	case addr < 0x4008:
		a.square2.writeReg(addr, val)
	case addr < 0x400C:
		a.triangle.writeReg(addr, val)
	case addr < 0x4010:
		a.noise.writeReg(addr, val)
	case addr < 0x4014:
		log.ModSound.DebugZ("write to DMC register").Hex16("addr", addr).Hex8("val", val).End()
	case addr == 0x4015:
		a.writeStatus(val)
	case addr == 0x4017:
		a.frameCounter.write(val, (a.frameBase+uint64(cycle))&1 == 1)
	}

	a.reloadLengthCounters()
	a.updateIRQ()
}

// status bits
//
//	7  bit  0
//	---- ----
//	IF-D NT21
//	|| | ||||
//	|| | |||+- square 1 length counter > 0
//	|| | ||+-- square 2 length counter > 0
//	|| | |+--- triangle length counter > 0
//	|| | +---- noise length counter > 0
//	|| +------ DMC active (always 0)
//	|+-------- frame interrupt
//	+--------- DMC interrupt (always 0)
func (a *APU) status() uint8 {
	return hwio.B2I(a.square1.status()) |
		hwio.B2I(a.square2.status())<<1 |
		hwio.B2I(a.triangle.status())<<2 |
		hwio.B2I(a.noise.status())<<3 |
		hwio.B2I(a.frameCounter.irqFlag)<<6
}

// ReadStatus implements hw.AudioUnit.
func (a *APU) ReadStatus(cycle int64) uint8 {
	a.run(cycle)
	status := a.status()

	// Reading $4015 clears the frame interrupt flag.
	a.frameCounter.irqFlag = false
	a.updateIRQ()

	log.ModSound.DebugZ("read status").Hex8("status", status).End()
	return status
}

func (a *APU) writeStatus(val uint8) {
	log.ModSound.DebugZ("write status").Hex8("val", val).End()

	a.square1.setEnabled(hwio.Bit(val, 0))
	a.square2.setEnabled(hwio.Bit(val, 1))
	a.triangle.setEnabled(hwio.Bit(val, 2))
	a.noise.setEnabled(hwio.Bit(val, 3))
}

// EarliestIRQ implements hw.AudioUnit.
func (a *APU) EarliestIRQ() int64 {
	return a.nextIRQ
}

func (a *APU) updateIRQ() {
	n := a.frameCounter.cyclesToIRQ()
	if n < 0 {
		a.nextIRQ = hw.NoIRQ
		return
	}
	a.nextIRQ = a.prevCycle + n
}

// EndFrame implements hw.AudioUnit.
func (a *APU) EndFrame(cycle int64) {
	a.run(cycle)

	a.square1.endFrame()
	a.square2.endFrame()
	a.triangle.endFrame()
	a.noise.endFrame()
	a.mixer.endFrame(uint32(cycle))

	a.frameBase += uint64(cycle)
	a.prevCycle = 0
	a.updateIRQ()
}

func (a *APU) frameCounterTick(ftyp frameType) {
	// Quarter and half frames clock envelopes and linear counter.
	a.square1.tickEnvelope()
	a.square2.tickEnvelope()
	a.triangle.tickLinearCounter()
	a.noise.tickEnvelope()

	if ftyp == halfFrame {
		// Half frames clock length counters and sweeps.
		a.square1.tickLengthCounter()
		a.square2.tickLengthCounter()
		a.triangle.tickLengthCounter()
		a.noise.tickLengthCounter()

		a.square1.tickSweep()
		a.square2.tickSweep()
	}
}

func (a *APU) reloadLengthCounters() {
	a.square1.reloadLengthCounter()
	a.square2.reloadLengthCounter()
	a.triangle.reloadLengthCounter()
	a.noise.reloadLengthCounter()
}

// run catches up with the CPU, up to cycle.
func (a *APU) run(cycle int64) {
	for a.prevCycle < cycle {
		n := int32(cycle - a.prevCycle)
		if a.frameCounter.needsCycleStep() {
			n = 1
		}
		a.prevCycle += int64(a.frameCounter.run(n))

		// Length counters loaded by register writes are reloaded after the
		// frame counter had a chance to clock them.
		a.reloadLengthCounters()

		target := uint32(a.prevCycle)
		a.square1.run(target)
		a.square2.run(target)
		a.triangle.run(target)
		a.noise.run(target)
	}
}
