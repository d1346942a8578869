package mappers

import "famicore/hw"

var NROM = MapperDesc{
	Name:         "NROM",
	Load:         loadNROM,
	PRGROMbanksz: 0x4000,
	CHRROMbanksz: 0x2000,
}

type nrom struct {
	*base
}

// NROM-128 has a single 16k bank, mirrored at $C000.
func loadNROM(b *base) (hw.Cartridge, error) {
	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	b.selectCHRPage8KB(0)
	return &nrom{base: b}, nil
}
