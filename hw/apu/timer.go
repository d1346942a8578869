package apu

// timer is the divider clocking a channel sequencer. It also forwards the
// channel output changes to the mixer, stamped with the cycle they occur at.
type timer struct {
	prevCycle  uint32
	counter    uint16
	period     uint16
	lastOutput int8

	channel Channel
	mixer   mixer
}

func (t *timer) reset() {
	t.counter = 0
	t.period = 0
	t.prevCycle = 0
	t.lastOutput = 0
}

func (t *timer) addOutput(output int8) {
	if output != t.lastOutput {
		t.mixer.addDelta(t.channel, t.prevCycle, int16(output-t.lastOutput))
		t.lastOutput = output
	}
}

// run advances the timer towards target. It returns true each time the
// counter reaches 0, in which case it must be called again.
func (t *timer) run(target uint32) bool {
	cyclesToRun := target - t.prevCycle

	if cyclesToRun > uint32(t.counter) {
		t.prevCycle += uint32(t.counter) + 1
		t.counter = t.period
		return true
	}

	t.counter -= uint16(cyclesToRun)
	t.prevCycle = target
	return false
}

func (t *timer) endFrame() {
	t.prevCycle = 0
}
