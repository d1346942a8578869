package mappers

import "famicore/hw"

var UxROM = MapperDesc{
	Name:         "UxROM",
	Load:         loadUxROM,
	PRGROMbanksz: 0x4000,
	CHRROMbanksz: 0x2000,
}

type uxrom struct {
	*base

	prgbank int
}

func (m *uxrom) WritePRG(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxx pPPP
	//      ||||
	//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
	//            (UNROM uses bits 2-0; UOROM uses bits 3-0)
	prev := m.prgbank
	m.prgbank = int(val & 0x0F)
	if prev != m.prgbank {
		m.selectPRGPage16KB(0, m.prgbank)
		modMapper.DebugZ("switch PRG bank").
			String("mapper", m.desc.Name).
			Int("bank", m.prgbank).
			End()
	}
}

func loadUxROM(b *base) (hw.Cartridge, error) {
	m := &uxrom{base: b}
	b.selectCHRPage8KB(0)
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	return m, nil
}
