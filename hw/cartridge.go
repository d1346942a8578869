package hw

// Cartridge translates CPU and PPU accesses to cartridge space into ROM/RAM
// accesses, through the board mapper.
type Cartridge interface {
	// ReadPRG reads from $8000-$FFFF.
	ReadPRG(addr uint16) uint8
	// WritePRG handles a write to $8000-$FFFF, usually a bank switch.
	WritePRG(addr uint16, val uint8)

	// ReadRAM and WriteRAM access the PRG RAM at $6000-$7FFF.
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, val uint8)

	// ReadCHR and WriteCHR access pattern tables at PPU $0000-$1FFF.
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)

	// MirrorNametable maps a PPU nametable address ($2000-$3EFF) to an offset
	// into the console 2k VRAM.
	MirrorNametable(addr uint16) uint16
}

// Clock provides the number of CPU cycles elapsed since power-up.
type Clock interface {
	CurrentCycle() int64
}
