package apu

import "famicore/emu/log"

// noiseChannel outputs the low bit of a 15-bit LFSR, gated by the envelope
// and the length counter.
type noiseChannel struct {
	shiftReg uint16
	mode     bool
	timer    timer
	envelope envelope
}

func newNoiseChannel(mixer mixer) noiseChannel {
	return noiseChannel{
		envelope: envelope{
			lenCounter: lengthCounter{channel: Noise},
		},
		timer: timer{
			channel: Noise,
			mixer:   mixer,
		},
	}
}

var noisePeriodLUT = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}

func (nc *noiseChannel) writeReg(reg uint16, val uint8) {
	switch reg & 3 {
	case 0:
		nc.envelope.init(val)
	case 1:
		// unused
	case 2:
		// M--- PPPP: mode, period index
		nc.timer.period = noisePeriodLUT[val&0x0F] - 1
		nc.mode = val&0x80 != 0
	case 3:
		nc.envelope.lenCounter.load(val >> 3)
		nc.envelope.restart()
	}
	log.ModSound.DebugZ("write noise reg").Hex16("reg", reg).Hex8("val", val).End()
}

func (nc *noiseChannel) run(target uint32) {
	for nc.timer.run(target) {
		// Feedback is calculated as the exclusive-OR of bit 0 and one other
		// bit: bit 6 if Mode flag is set, otherwise bit 1.
		modebit := 1
		if nc.mode {
			modebit = 6
		}

		feedback := nc.shiftReg&0x01 ^ nc.shiftReg>>modebit&0x01
		nc.shiftReg >>= 1
		nc.shiftReg |= feedback << 14

		if nc.isMuted() {
			nc.timer.addOutput(0)
		} else {
			nc.timer.addOutput(int8(nc.envelope.output()))
		}
	}
}

// The mixer receives the current envelope volume except when bit 0 of the
// shift register is set.
func (nc *noiseChannel) isMuted() bool {
	return nc.shiftReg&0x01 == 0x01
}

func (nc *noiseChannel) reset(soft bool) {
	nc.envelope.reset(soft)
	nc.timer.reset()

	nc.timer.period = noisePeriodLUT[0] - 1
	nc.shiftReg = 1
	nc.mode = false
}

func (nc *noiseChannel) tickEnvelope()        { nc.envelope.tick() }
func (nc *noiseChannel) tickLengthCounter()   { nc.envelope.lenCounter.tick() }
func (nc *noiseChannel) reloadLengthCounter() { nc.envelope.lenCounter.reload() }
func (nc *noiseChannel) endFrame()            { nc.timer.endFrame() }
func (nc *noiseChannel) setEnabled(on bool)   { nc.envelope.lenCounter.setEnabled(on) }
func (nc *noiseChannel) status() bool         { return nc.envelope.lenCounter.status() }
func (nc *noiseChannel) output() uint8        { return uint8(nc.timer.lastOutput) }
