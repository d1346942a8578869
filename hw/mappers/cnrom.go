package mappers

import "famicore/hw"

var CNROM = MapperDesc{
	Name:         "CNROM",
	Load:         loadCNROM,
	PRGROMbanksz: 0x4000,
	CHRROMbanksz: 0x2000,
}

type cnrom struct {
	*base

	chrbank int
}

func (m *cnrom) WritePRG(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// cccc ccCC
	// |||| ||||
	// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	//            (CNROM uses bits 1-0, bank number is wrapped by the CHR size)
	m.chrbank = int(val)
	m.selectCHRPage8KB(m.chrbank)
	modMapper.DebugZ("switch CHR bank").
		String("mapper", m.desc.Name).
		Int("bank", m.chrbank).
		End()
}

func loadCNROM(b *base) (hw.Cartridge, error) {
	m := &cnrom{base: b}
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	return m, nil
}
