package mappers

import (
	"famicore/hw"
	"famicore/ines"
)

var AxROM = MapperDesc{
	Name:         "AxROM",
	Load:         loadAxROM,
	PRGROMbanksz: 0x8000,
	CHRROMbanksz: 0x2000,
}

type axrom struct {
	*base
}

func (m *axrom) WritePRG(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxM xPPP
	//    |  |||
	//    |  +++- Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	//    +------ Select 1 KB VRAM page for all 4 nametables
	m.selectPRGPage32KB(int(val & 0x07))
	if val&0x10 != 0 {
		m.setNTMirroring(ines.OnlyBScreen)
	} else {
		m.setNTMirroring(ines.OnlyAScreen)
	}
}

func loadAxROM(b *base) (hw.Cartridge, error) {
	m := &axrom{base: b}
	b.selectCHRPage8KB(0)
	b.selectPRGPage32KB(0)
	b.setNTMirroring(ines.OnlyAScreen)
	return m, nil
}
