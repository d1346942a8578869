package apu

var lengthLUT = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

type lengthCounter struct {
	channel Channel
	newHalt bool

	enabled   bool
	halt      bool
	counter   uint8
	reloadVal uint8
	prevVal   uint8
}

func (lc *lengthCounter) init(halt bool) {
	lc.newHalt = halt
}

func (lc *lengthCounter) load(val uint8) {
	if lc.enabled {
		lc.reloadVal = lengthLUT[val&0x1F]
		lc.prevVal = lc.counter
	}
}

func (lc *lengthCounter) reset(soft bool) {
	lc.enabled = false
	if soft && lc.channel == Triangle {
		// the triangle length counter is unaffected by reset.
		return
	}
	lc.halt = false
	lc.counter = 0
	lc.newHalt = false
	lc.reloadVal = 0
	lc.prevVal = 0
}

func (lc *lengthCounter) status() bool {
	return lc.counter > 0
}

// reload applies the value loaded by the last register write, unless the
// counter has been clocked in the meantime.
func (lc *lengthCounter) reload() {
	if lc.reloadVal != 0 {
		if lc.counter == lc.prevVal {
			lc.counter = lc.reloadVal
		}
		lc.reloadVal = 0
	}
	lc.halt = lc.newHalt
}

func (lc *lengthCounter) tick() {
	if lc.counter > 0 && !lc.halt {
		lc.counter--
	}
}

func (lc *lengthCounter) setEnabled(enabled bool) {
	if !enabled {
		lc.counter = 0
	}
	lc.enabled = enabled
}
