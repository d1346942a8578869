package mappers

import (
	"fmt"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/ines"
)

var modMapper = log.NewModule("mapper")

type MapperDesc struct {
	Name         string
	Load         func(*base) (hw.Cartridge, error)
	PRGROMbanksz uint32
	CHRROMbanksz uint32
}

var All = map[uint16]MapperDesc{
	0: NROM,
	1: MMC1,
	2: UxROM,
	3: CNROM,
	7: AxROM,
}

// New creates the cartridge for rom. clock is used by mappers sensitive to
// write timings.
func New(rom *ines.Rom, clock hw.Clock) (hw.Cartridge, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return nil, fmt.Errorf("unsupported mapper %d", rom.Mapper())
	}
	b, err := newbase(desc, rom, clock)
	if err != nil {
		return nil, fmt.Errorf("mapper initialization failed: %w", err)
	}
	cart, err := desc.Load(b)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}
	modMapper.InfoZ("cartridge loaded").
		String("mapper", desc.Name).
		Int("prg", len(rom.PRGROM)).
		Int("chr", len(rom.CHRROM)).
		Stringer("mirroring", rom.Mirroring()).
		End()
	return cart, nil
}
