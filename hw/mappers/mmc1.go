package mappers

import (
	"famicore/hw"
	"famicore/hw/hwio"
	"famicore/ines"
)

var MMC1 = MapperDesc{
	Name:         "MMC1",
	Load:         loadMMC1,
	PRGROMbanksz: 0x4000,
	CHRROMbanksz: 0x1000,
}

type mmc1 struct {
	*base

	prevCycle int64

	serial  shiftReg // shift register
	counter uint8    // count of bits shifted

	// CTRL reg bits
	chrmode uint8
	prgmode uint8
	ntm     uint8

	chrbank0 int
	chrbank1 int

	// PRG reg bits
	disableWRAM bool
	prgbank     int
}

type shiftReg uint8

func (sr shiftReg) push(val uint8) shiftReg {
	sr >>= 1
	sr |= shiftReg(hwio.Biti(val, 0) << 4)
	return sr
}

func (m *mmc1) WritePRG(addr uint16, val uint8) {
	cur := m.clock.CurrentCycle()
	defer func() { m.prevCycle = cur }()

	// On consecutive cycles writes (as performed by read-modify-write
	// instructions) only the first one is taken into account.
	resetbit := hwio.Bit(val, 7)
	if !resetbit && cur-m.prevCycle < 2 {
		return
	}

	if resetbit {
		//	- reset shift register (so that the next write is the "first" write)
		//	- bits 2,3 of control reg are set (16k PRG mode, $8000 swappable)
		//	- other bits of $8000 (and other regs) are unchanged
		m.serial = 0
		m.counter = 0
		m.prgmode = 0b11
		m.remap()
		return
	}

	m.serial = m.serial.push(val)
	m.counter++
	if m.counter == 5 {
		m.writeREG(addr, uint8(m.serial))
		m.remap()
		m.serial = 0
		m.counter = 0
	}
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch (addr & 0x6000) >> 13 {
	case 0:
		m.writeCTRL(val)
	case 1:
		m.writeCHR0(val)
	case 2:
		m.writeCHR1(val)
	case 3:
		m.writePRG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	// 4bit0
	// -----
	// CPPMM
	// |||||
	// |||++- Nametable arrangement: (0: one-screen, lower bank; 1: one-screen, upper bank;
	// |||                            2: vertical arrangement; 3: horizontal arrangement)
	// |++--- PRG ROM bank mode (0, 1: switch 32 KB at $8000, ignoring low bit of bank number;
	// |                         2: fix first bank at $8000 and switch 16 KB bank at $C000;
	// |                         3: fix last bank at $C000 and switch 16 KB bank at $8000)
	// +----- CHR ROM bank mode (0: switch 8 KB at a time; 1: switch two separate 4 KB banks)
	m.chrmode = (val & 0x10) >> 4
	m.prgmode = (val & 0x0C) >> 2
	m.ntm = val & 0x03

	switch m.ntm {
	case 0:
		m.setNTMirroring(ines.OnlyAScreen)
	case 1:
		m.setNTMirroring(ines.OnlyBScreen)
	case 2:
		m.setNTMirroring(ines.VertMirroring)
	case 3:
		m.setNTMirroring(ines.HorzMirroring)
	}

	modMapper.DebugZ("write CTRL reg").String("mapper", m.desc.Name).
		Hex8("val", val).
		Hex8("prgmode", m.prgmode).
		Hex8("chrmode", m.chrmode).
		End()
}

func (m *mmc1) writeCHR0(val uint8) {
	modMapper.DebugZ("write CHR0 reg").String("mapper", m.desc.Name).Hex8("val", val).End()
	m.chrbank0 = int(val & 0b11111)
}

func (m *mmc1) writeCHR1(val uint8) {
	modMapper.DebugZ("write CHR1 reg").String("mapper", m.desc.Name).Hex8("val", val).End()
	m.chrbank1 = int(val & 0b11111)
}

func (m *mmc1) writePRG(val uint8) {
	modMapper.DebugZ("write PRG reg").String("mapper", m.desc.Name).Hex8("val", val).End()

	// 4bit0
	// -----
	// RPPPP
	// |||||
	// |++++- Select 16 KB PRG ROM bank (low bit ignored in 32 KB mode)
	// +----- WRAM disable (0: enabled; 1: disabled)
	m.disableWRAM = hwio.Bit(val, 4)
	m.prgbank = int(val & 0b1111)
}

func (m *mmc1) remap() {
	switch m.prgmode {
	case 0, 1:
		m.selectPRGPage32KB(m.prgbank >> 1)
	case 2:
		m.selectPRGPage16KB(0, 0)
		m.selectPRGPage16KB(1, m.prgbank)
	case 3:
		m.selectPRGPage16KB(0, m.prgbank)
		m.selectPRGPage16KB(1, -1)
	}

	switch m.chrmode {
	case 0:
		m.selectCHRPage8KB(m.chrbank0 >> 1)
	case 1:
		m.selectCHRPage4KB(0, m.chrbank0)
		m.selectCHRPage4KB(1, m.chrbank1)
	}
}

func (m *mmc1) ReadRAM(addr uint16) uint8 {
	if m.disableWRAM {
		return 0
	}
	return m.base.ReadRAM(addr)
}

func (m *mmc1) WriteRAM(addr uint16, val uint8) {
	if m.disableWRAM {
		return
	}
	m.base.WriteRAM(addr, val)
}

func loadMMC1(b *base) (hw.Cartridge, error) {
	m := &mmc1{base: b, prevCycle: -2}

	// On power-up, bits 2,3 of $8000 are set: $8000 is bank 0 and $C000 is
	// the last bank.
	m.writeREG(0x8000, 0x0C)
	m.writeREG(0xA000, 0)
	m.writeREG(0xC000, 0)
	m.writeREG(0xE000, 0)
	m.remap()
	return m, nil
}
