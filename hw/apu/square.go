package apu

import "famicore/emu/log"

// squareChannel is one of the two pulse channels ($4000 and $4004). The
// envelope, sweep and length counter gate an 8-step duty sequencer clocked
// every other timer period.
type squareChannel struct {
	envelope envelope
	timer    timer

	isChannel1 bool

	duty    uint8
	dutyPos uint8

	sweepEnabled      bool
	sweepPeriod       uint8
	sweepNegate       bool
	sweepShift        uint8
	reloadSweep       bool
	sweepDivider      uint8
	sweepTargetPeriod uint32
	realPeriod        uint16
}

func newSquareChannel(mixer mixer, channel Channel) squareChannel {
	return squareChannel{
		isChannel1: channel == Square1,
		envelope: envelope{
			lenCounter: lengthCounter{channel: channel},
		},
		timer: timer{
			channel: channel,
			mixer:   mixer,
		},
	}
}

func (sc *squareChannel) writeReg(reg uint16, val uint8) {
	switch reg & 3 {
	case 0:
		sc.writeDuty(val)
	case 1:
		sc.initSweep(val)
	case 2:
		sc.setPeriod(sc.realPeriod&0x0700 | uint16(val))
	case 3:
		sc.writeLength(val)
	}
	log.ModSound.DebugZ("write square reg").
		Stringer("ch", sc.timer.channel).
		Hex16("reg", reg).
		Hex8("val", val).
		End()
}

func (sc *squareChannel) writeDuty(val uint8) {
	sc.envelope.init(val)
	sc.duty = (val & 0xC0) >> 6
}

func (sc *squareChannel) writeLength(val uint8) {
	sc.envelope.lenCounter.load(val >> 3)
	sc.setPeriod(sc.realPeriod&0xFF | uint16(val&0x07)<<8)

	// The sequencer and the envelope are restarted.
	sc.dutyPos = 0
	sc.envelope.restart()
}

func (sc *squareChannel) isMuted() bool {
	// A period of t < 8, either set explicitly or via a sweep period update,
	// silences the corresponding pulse channel.
	return sc.realPeriod < 8 || (!sc.sweepNegate && sc.sweepTargetPeriod > 0x7FF)
}

func (sc *squareChannel) initSweep(val uint8) {
	// 7  bit  0
	// ---- ----
	// EPPP NSSS
	// |||| ||||
	// |||| |+++- shift count
	// |||| +---- negate
	// |+++------ divider period
	// +--------- enabled
	sc.sweepEnabled = val&0x80 == 0x80
	sc.sweepNegate = val&0x08 == 0x08

	// The divider's period is set to P + 1
	sc.sweepPeriod = (val&0x70)>>4 + 1
	sc.sweepShift = val & 0x07

	sc.updateTargetPeriod()
	sc.reloadSweep = true
}

func (sc *squareChannel) updateTargetPeriod() {
	shifted := sc.realPeriod >> sc.sweepShift
	if sc.sweepNegate {
		sc.sweepTargetPeriod = uint32(sc.realPeriod - shifted)
		if sc.isChannel1 {
			// Pulse 1 uses one's complement negation.
			sc.sweepTargetPeriod--
		}
	} else {
		sc.sweepTargetPeriod = uint32(sc.realPeriod + shifted)
	}
}

func (sc *squareChannel) setPeriod(period uint16) {
	sc.realPeriod = period
	sc.timer.period = sc.realPeriod*2 + 1
	sc.updateTargetPeriod()
}

// duty cycle sequences for the square channels.
var squareDuty = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{0, 0, 0, 0, 0, 0, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 0, 0},
}

func (sc *squareChannel) updateOutput() {
	if sc.isMuted() {
		sc.timer.addOutput(0)
		return
	}
	out := squareDuty[sc.duty][sc.dutyPos] * uint8(sc.envelope.output())
	sc.timer.addOutput(int8(out))
}

func (sc *squareChannel) run(target uint32) {
	for sc.timer.run(target) {
		sc.dutyPos = (sc.dutyPos - 1) & 0x07
		sc.updateOutput()
	}
}

func (sc *squareChannel) reset(soft bool) {
	sc.envelope.reset(soft)
	sc.timer.reset()

	sc.duty = 0
	sc.dutyPos = 0
	sc.realPeriod = 0

	sc.sweepEnabled = false
	sc.sweepPeriod = 0
	sc.sweepNegate = false
	sc.sweepShift = 0
	sc.reloadSweep = false
	sc.sweepDivider = 0
	sc.sweepTargetPeriod = 0
	sc.updateTargetPeriod()
}

func (sc *squareChannel) tickSweep() {
	sc.sweepDivider--
	if sc.sweepDivider == 0 {
		if sc.sweepShift > 0 && sc.sweepEnabled && sc.realPeriod >= 8 && sc.sweepTargetPeriod <= 0x7FF {
			sc.setPeriod(uint16(sc.sweepTargetPeriod))
		}
		sc.sweepDivider = sc.sweepPeriod
	}

	if sc.reloadSweep {
		sc.sweepDivider = sc.sweepPeriod
		sc.reloadSweep = false
	}
}

func (sc *squareChannel) tickEnvelope()        { sc.envelope.tick() }
func (sc *squareChannel) tickLengthCounter()   { sc.envelope.lenCounter.tick() }
func (sc *squareChannel) reloadLengthCounter() { sc.envelope.lenCounter.reload() }
func (sc *squareChannel) endFrame()            { sc.timer.endFrame() }
func (sc *squareChannel) setEnabled(on bool)   { sc.envelope.lenCounter.setEnabled(on) }
func (sc *squareChannel) status() bool         { return sc.envelope.lenCounter.status() }
func (sc *squareChannel) output() uint8        { return uint8(sc.timer.lastOutput) }
