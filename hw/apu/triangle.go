package apu

import "famicore/emu/log"

// triangleChannel steps through a 32-entry ramp while both its linear and
// length counters are nonzero.
type triangleChannel struct {
	lenCounter lengthCounter
	timer      timer

	linearCounter       uint8
	linearCounterReload uint8
	linearReload        bool
	linearCtrl          bool

	pos uint8 // current position in triangleSequence.
}

func newTriangleChannel(mixer mixer) triangleChannel {
	return triangleChannel{
		lenCounter: lengthCounter{channel: Triangle},
		timer: timer{
			channel: Triangle,
			mixer:   mixer,
		},
	}
}

var triangleSequence = [32]int8{
	15, 14, 13, 12, 11, 10, 9, 8,
	7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7,
	8, 9, 10, 11, 12, 13, 14, 15,
}

func (tc *triangleChannel) writeReg(reg uint16, val uint8) {
	switch reg & 3 {
	case 0:
		// CRRR RRRR: length counter halt / linear counter control, reload value
		tc.linearCtrl = val&0x80 == 0x80
		tc.linearCounterReload = val & 0x7F
		tc.lenCounter.init(tc.linearCtrl)
	case 1:
		// unused
	case 2:
		tc.timer.period = tc.timer.period&0xFF00 | uint16(val)
	case 3:
		tc.lenCounter.load(val >> 3)
		tc.timer.period = tc.timer.period&0xFF | uint16(val&0x07)<<8
		tc.linearReload = true
	}
	log.ModSound.DebugZ("write triangle reg").Hex16("reg", reg).Hex8("val", val).End()
}

func (tc *triangleChannel) run(target uint32) {
	for tc.timer.run(target) {
		// The sequencer is clocked by the timer as long as both the linear
		// counter and the length counter are nonzero.
		if tc.lenCounter.status() && tc.linearCounter > 0 {
			tc.pos = (tc.pos + 1) & 0x1F

			// Ultrasonic periods are not output.
			if tc.timer.period >= 2 {
				tc.timer.addOutput(triangleSequence[tc.pos])
			}
		}
	}
}

func (tc *triangleChannel) reset(soft bool) {
	tc.timer.reset()
	tc.lenCounter.reset(soft)

	tc.linearCounter = 0
	tc.linearCounterReload = 0
	tc.linearReload = false
	tc.linearCtrl = false
	tc.pos = 0
}

func (tc *triangleChannel) tickLinearCounter() {
	if tc.linearReload {
		tc.linearCounter = tc.linearCounterReload
	} else if tc.linearCounter > 0 {
		tc.linearCounter--
	}

	if !tc.linearCtrl {
		tc.linearReload = false
	}
}

func (tc *triangleChannel) tickLengthCounter()   { tc.lenCounter.tick() }
func (tc *triangleChannel) reloadLengthCounter() { tc.lenCounter.reload() }
func (tc *triangleChannel) endFrame()            { tc.timer.endFrame() }
func (tc *triangleChannel) setEnabled(on bool)   { tc.lenCounter.setEnabled(on) }
func (tc *triangleChannel) status() bool         { return tc.lenCounter.status() }
func (tc *triangleChannel) output() uint8        { return uint8(tc.timer.lastOutput) }
