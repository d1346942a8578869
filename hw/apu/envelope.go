package apu

type envelope struct {
	constantVolume bool
	volume         uint8

	start   bool
	divider int8
	counter uint8

	lenCounter lengthCounter
}

// init handles a write to the volume/envelope register of a channel:
//
//	7  bit  0
//	---- ----
//	xxLC VVVV
//	  || ||||
//	  || ++++- volume / envelope divider period
//	  |+------ constant volume
//	  +------- length counter halt / envelope loop
func (env *envelope) init(val uint8) {
	env.lenCounter.init(val&0x20 == 0x20)
	env.constantVolume = val&0x10 == 0x10
	env.volume = val & 0x0F
}

func (env *envelope) restart() {
	env.start = true
}

func (env *envelope) output() uint32 {
	if !env.lenCounter.status() {
		return 0
	}
	if env.constantVolume {
		return uint32(env.volume)
	}
	return uint32(env.counter)
}

func (env *envelope) reset(soft bool) {
	env.lenCounter.reset(soft)
	env.constantVolume = false
	env.volume = 0
	env.start = false
	env.divider = 0
	env.counter = 0
}

func (env *envelope) tick() {
	if env.start {
		env.start = false
		env.counter = 15
		env.divider = int8(env.volume)
		return
	}

	env.divider--
	if env.divider < 0 {
		env.divider = int8(env.volume)
		if env.counter > 0 {
			env.counter--
		} else if env.lenCounter.halt {
			env.counter = 15
		}
	}
}
