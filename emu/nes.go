package emu

import (
	"fmt"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/hw/apu"
	"famicore/hw/hwdefs"
	"famicore/hw/mappers"
	"famicore/ines"
)

// FrameCycles is the CPU cycle budget of a NTSC frame (341*262/3, rounded
// up).
const FrameCycles = 29781

// NES is an emulation session. It owns and wires every hardware component.
type NES struct {
	CPU   *hw.CPU
	PPU   *hw.PPU
	APU   *apu.APU
	Bus   *hw.SysBus
	Input *hw.Controller
	Cart  hw.Cartridge
	Rom   *ines.Rom
}

// PowerUp builds a console around rom and powers it up. Audio samples are
// produced at sampleRate and sent to sink, which may be nil.
func PowerUp(rom *ines.Rom, sampleRate int, sink apu.SampleSink) (*NES, error) {
	bus := hw.NewSysBus()
	cpu := hw.NewCPU(bus)

	cart, err := mappers.New(rom, cpu)
	if err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}

	ppu := hw.NewPPU(cart)
	audio := apu.New(apu.NewMixer(sampleRate, sink))
	input := &hw.Controller{}

	ppu.CPU = cpu
	cpu.PPU = ppu
	cpu.Audio = audio

	bus.CPU = cpu
	bus.PPU = ppu
	bus.Audio = audio
	bus.Input = input
	bus.Cart = cart

	nes := &NES{
		CPU:   cpu,
		PPU:   ppu,
		APU:   audio,
		Bus:   bus,
		Input: input,
		Cart:  cart,
		Rom:   rom,
	}
	nes.Reset(hwdefs.HardReset)
	return nes, nil
}

// Reset performs a soft or a hard reset, see hwdefs.
func (nes *NES) Reset(soft bool) {
	nes.PPU.Reset()
	nes.APU.Reset(soft)
	nes.CPU.Cycles = 0
	if soft {
		nes.CPU.Reset()
	} else {
		nes.CPU.PowerUp()
	}
	log.ModEmu.InfoZ("reset").Bool("soft", soft).End()
}

// RunOneFrame runs the CPU for the duration of a frame and flushes the audio
// samples. It reports whether the PPU completed a picture, in which case the
// picture is copied into frame.
func (nes *NES) RunOneFrame(frame []uint32) bool {
	nes.CPU.RunFor(FrameCycles)
	nes.APU.EndFrame(nes.CPU.Cycles)
	nes.CPU.Cycles = 0

	if !nes.PPU.FrameReady() {
		return false
	}
	nes.PPU.ConsumeFrame(frame)
	return true
}
