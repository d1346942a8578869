package apu

import "famicore/emu/log"

var stepCycles = [2][6]int32{
	{7457, 14913, 22371, 29828, 29829, 29830},
	{7457, 14913, 22371, 29829, 37281, 37282},
}

var frameTypes = [2][6]frameType{
	{quarterFrame, halfFrame, quarterFrame, noFrame, halfFrame, noFrame},
	{quarterFrame, halfFrame, quarterFrame, noFrame, halfFrame, noFrame},
}

// frameCounter is the APU frame sequencer. It clocks the envelopes, linear,
// length counters and sweep units, and raises the frame interrupt in 4-step
// mode.
type frameCounter struct {
	apu *APU

	prevCycle         int32
	curStep           int
	stepMode          int // 0: 4-step mode, 1: 5-step mode
	inhibitIRQ        bool
	irqFlag           bool
	blockTick         uint8
	newval            int16
	writeDelayCounter int8
}

func (fc *frameCounter) reset(soft bool) {
	fc.prevCycle = 0

	// The mode is kept on soft reset.
	if !soft {
		fc.stepMode = 0
	}

	fc.curStep = 0

	// After reset or power-up, the APU acts as if $4017 were written with
	// $00 a few cycles before the first instruction.
	fc.newval = 0
	if fc.stepMode != 0 {
		fc.newval = 0x80
	}
	fc.writeDelayCounter = 3
	fc.inhibitIRQ = false
	fc.irqFlag = false
	fc.blockTick = 0
}

// write handles a write to $4017.
//
//	7  bit  0
//	---- ----
//	MI.. ....
//	||
//	|+-------- IRQ inhibit
//	+--------- sequencer mode (0: 4-step, 1: 5-step)
func (fc *frameCounter) write(val uint8, oddCycle bool) {
	log.ModSound.DebugZ("write frame counter").Hex8("val", val).End()
	fc.newval = int16(val)

	// If the write occurs between APU cycles, the effects occur 4 CPU cycles
	// after the write cycle, 3 otherwise.
	if oddCycle {
		fc.writeDelayCounter = 4
	} else {
		fc.writeDelayCounter = 3
	}

	fc.inhibitIRQ = val&0x40 == 0x40
	if fc.inhibitIRQ {
		fc.irqFlag = false
	}
}

// run runs the sequencer for at most cyclesToRun cycles, stopping at the
// next step. It returns the number of cycles ran.
func (fc *frameCounter) run(cyclesToRun int32) int32 {
	var ran int32

	step := stepCycles[fc.stepMode][fc.curStep]
	if fc.prevCycle+cyclesToRun >= step {
		if !fc.inhibitIRQ && fc.stepMode == 0 && fc.curStep >= 3 {
			// The flag is set on the last 3 cycles of the 4-step sequence.
			fc.irqFlag = true
		}

		ftyp := frameTypes[fc.stepMode][fc.curStep]
		if ftyp != noFrame && fc.blockTick == 0 {
			fc.apu.frameCounterTick(ftyp)

			// Writes to $4017 can't clock the sequencer for the next 2 cycles.
			fc.blockTick = 2
		}

		ran = max(step-fc.prevCycle, 0)

		fc.curStep++
		if fc.curStep == 6 {
			fc.curStep = 0
			fc.prevCycle = 0
		} else {
			fc.prevCycle += ran
		}
	} else {
		ran = cyclesToRun
		fc.prevCycle += ran
	}

	if fc.newval >= 0 {
		fc.writeDelayCounter--
		if fc.writeDelayCounter == 0 {
			// Apply new value after the appropriate number of cycles has elapsed
			if fc.newval&0x80 == 0x80 {
				fc.stepMode = 1
			} else {
				fc.stepMode = 0
			}

			fc.writeDelayCounter = -1
			fc.curStep = 0
			fc.prevCycle = 0
			fc.newval = -1

			if fc.stepMode != 0 && fc.blockTick == 0 {
				// Writing $4017 with bit 7 set immediately clocks both the
				// quarter frame and the half frame units.
				fc.apu.frameCounterTick(halfFrame)
				fc.blockTick = 2
			}
		}
	}

	if fc.blockTick > 0 {
		fc.blockTick--
	}

	return ran
}

// needsCycleStep reports whether the sequencer must be run one cycle at a
// time: a write is pending or ticks are blocked.
func (fc *frameCounter) needsCycleStep() bool {
	return fc.newval >= 0 || fc.blockTick > 0
}

// cyclesToIRQ returns the number of cycles before the frame interrupt flag
// gets set, or -1 if it won't be set by the current sequence.
func (fc *frameCounter) cyclesToIRQ() int64 {
	switch {
	case fc.irqFlag:
		return 0
	case fc.newval >= 0:
		if fc.newval&0xC0 != 0 {
			return -1
		}
		// mode 0 sequence restarts once the write delay has elapsed.
		return int64(fc.writeDelayCounter) + int64(stepCycles[0][3])
	case fc.inhibitIRQ || fc.stepMode != 0:
		return -1
	case fc.curStep <= 3:
		return int64(stepCycles[0][3] - fc.prevCycle)
	}
	return int64(stepCycles[0][fc.curStep] - fc.prevCycle)
}
