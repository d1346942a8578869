package hw

import (
	"famicore/emu/log"
	"famicore/hw/hwio"
)

// SysBus routes the CPU accesses to the console devices.
//
//	$0000-$07FF  RAM
//	$0800-$1FFF  RAM mirrors
//	$2000-$3FFF  PPU registers, mirrored every 8 bytes
//	$4000-$4013  audio
//	$4014        OAM DMA
//	$4015        audio status
//	$4016        controllers strobe (w) / port 1 (r)
//	$4017        audio frame counter (w) / port 2 (r)
//	$4018-$5FFF  unused
//	$6000-$7FFF  cartridge RAM
//	$8000-$FFFF  cartridge PRG
type SysBus struct {
	RAM   *hwio.Mem
	CPU   *CPU
	PPU   *PPU
	Audio AudioUnit
	Input *Controller
	Cart  Cartridge

	// last value driven on the data bus.
	openBus uint8
}

// NewSysBus creates a bus with 2k of RAM in its power-up state.
func NewSysBus() *SysBus {
	b := &SysBus{
		RAM:   hwio.NewMem("ram", 0x800, hwio.MemFlagReadWrite),
		Audio: NoAudio{},
	}
	b.RAM.PowerUpFill()
	return b
}

func (b *SysBus) Read8(addr uint16) uint8 {
	var val uint8
	switch {
	case addr < 0x2000:
		val = b.RAM.Read8(addr)
	case addr < 0x4000:
		val = b.PPU.ReadReg(addr)
	case addr == 0x4015:
		// bit 5 is not driven.
		val = b.Audio.ReadStatus(b.CPU.Cycles)&^0x20 | b.openBus&0x20
	case addr == 0x4016 || addr == 0x4017:
		val = 0x40 | b.Input.Read(int(addr&1))
	case addr < 0x6000:
		val = b.openBus
	case addr < 0x8000:
		val = b.Cart.ReadRAM(addr)
	default:
		val = b.Cart.ReadPRG(addr)
	}
	b.openBus = val
	return val
}

func (b *SysBus) Write8(addr uint16, val uint8) {
	b.openBus = val
	switch {
	case addr < 0x2000:
		b.RAM.Write8(addr, val)
	case addr < 0x4000:
		b.PPU.WriteReg(addr, val)
	case addr == 0x4014:
		b.CPU.StartOAMDMA(val)
	case addr == 0x4016:
		b.Input.Write(val)
	case addr < 0x4018:
		b.Audio.WriteRegister(b.CPU.Cycles, addr, val)
	case addr < 0x6000:
		log.ModMem.DebugZ("write to unmapped address").Hex16("addr", addr).Hex8("val", val).End()
	case addr < 0x8000:
		b.Cart.WriteRAM(addr, val)
	default:
		b.Cart.WritePRG(addr, val)
	}
}

// Peek8 reads a byte without side effects, for RAM and cartridge space only.
func (b *SysBus) Peek8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.RAM.Read8(addr)
	case addr >= 0x8000:
		return b.Cart.ReadPRG(addr)
	case addr >= 0x6000:
		return b.Cart.ReadRAM(addr)
	}
	return b.openBus
}
