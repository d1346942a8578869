package mappers

import (
	"fmt"

	"famicore/hw"
	"famicore/hw/hwio"
	"famicore/ines"
)

const (
	prgRAMSize = 0x2000
	chrRAMSize = 0x2000
)

// base implements the parts of hw.Cartridge shared by all boards: 8k PRG
// windows at $8000-$FFFF, 1k CHR windows at PPU $0000-$1FFF, 8k of PRG RAM
// and nametable mirroring.
type base struct {
	desc  MapperDesc
	rom   *ines.Rom
	clock hw.Clock

	prg    *hwio.Mem
	chr    *hwio.Mem
	prgRAM *hwio.Mem

	prgmap [4]uint32 // offsets in prg of the 4 8k windows
	chrmap [8]uint32 // offsets in chr of the 8 1k windows

	mirroring ines.NTMirroring
}

func ispow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom, clock hw.Clock) (*base, error) {
	if !ispow2(len(rom.PRGROM)) {
		return nil, fmt.Errorf("only support PRGROM with power of 2 size, got %d", len(rom.PRGROM))
	}

	b := &base{
		desc:   desc,
		rom:    rom,
		clock:  clock,
		prg:    hwio.NewMemFrom("prgrom", rom.PRGROM, hwio.MemFlagReadOnly),
		prgRAM: hwio.NewMem("prgram", prgRAMSize, hwio.MemFlagReadWrite),
	}

	switch {
	case len(rom.CHRROM) == 0:
		b.chr = hwio.NewMem("chrram", chrRAMSize, hwio.MemFlagReadWrite)
	case ispow2(len(rom.CHRROM)):
		b.chr = hwio.NewMemFrom("chrrom", rom.CHRROM, hwio.MemFlagNoROLog)
	default:
		return nil, fmt.Errorf("only support CHRROM with power of 2 size, got %d", len(rom.CHRROM))
	}

	if len(rom.Trainer) > 0 {
		// The trainer is mapped at $7000.
		copy(b.prgRAM.Data[0x1000:], rom.Trainer)
	}

	b.setNTMirroring(rom.Mirroring())
	return b, nil
}

func (b *base) ReadPRG(addr uint16) uint8 {
	return b.prg.ReadAt(b.prgmap[(addr>>13)&3] | uint32(addr&0x1FFF))
}

func (b *base) WritePRG(addr uint16, val uint8) {
	modMapper.DebugZ("write to PRG ROM").
		String("mapper", b.desc.Name).
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

func (b *base) ReadRAM(addr uint16) uint8 {
	return b.prgRAM.Read8(addr & 0x1FFF)
}

func (b *base) WriteRAM(addr uint16, val uint8) {
	b.prgRAM.Write8(addr&0x1FFF, val)
}

func (b *base) ReadCHR(addr uint16) uint8 {
	return b.chr.ReadAt(b.chrmap[(addr>>10)&7] | uint32(addr&0x3FF))
}

func (b *base) WriteCHR(addr uint16, val uint8) {
	b.chr.WriteAt(b.chrmap[(addr>>10)&7]|uint32(addr&0x3FF), val)
}

// MirrorNametable maps $2000-$3EFF to an offset into the 2k of VRAM. The
// 4 logical nametables are 1k each:
//
//	horizontal  A A B B
//	vertical    A B A B
//	single A    A A A A
//	single B    B B B B
func (b *base) MirrorNametable(addr uint16) uint16 {
	switch b.mirroring {
	case ines.HorzMirroring:
		return (addr&0x800)>>1 | addr&0x3FF
	case ines.VertMirroring:
		return addr & 0x7FF
	case ines.OnlyAScreen:
		return addr & 0x3FF
	case ines.OnlyBScreen:
		return 0x400 | addr&0x3FF
	}
	panic(fmt.Sprintf("unsupported mirroring %d", b.mirroring))
}

func (b *base) setNTMirroring(m ines.NTMirroring) {
	if m == ines.FourScreen {
		// Only the console 2k of VRAM is emulated.
		modMapper.WarnZ("four-screen mirroring not supported, using vertical").End()
		m = ines.VertMirroring
	}
	b.mirroring = m
}

// bank returns the absolute index of a bank of the given size, negative
// values count from the end.
func bank(n int, banksz, total int) uint32 {
	count := total / banksz
	if count == 0 {
		count = 1
	}
	n %= count
	if n < 0 {
		n += count
	}
	return uint32(n * banksz)
}

// selectPRGPage8KB maps bank to the 8k window slot (0-3).
func (b *base) selectPRGPage8KB(slot, n int) {
	b.prgmap[slot] = bank(n, 0x2000, b.prg.Len())
}

// selectPRGPage16KB maps bank to the 16k window slot (0: $8000, 1: $C000).
func (b *base) selectPRGPage16KB(slot, n int) {
	off := bank(n, 0x4000, b.prg.Len())
	b.prgmap[slot*2] = off
	b.prgmap[slot*2+1] = off + 0x2000
}

func (b *base) selectPRGPage32KB(n int) {
	off := bank(n, 0x8000, b.prg.Len())
	for i := range b.prgmap {
		b.prgmap[i] = off + uint32(i)*0x2000
	}
}

// selectCHRPage4KB maps bank to the 4k window slot (0: $0000, 1: $1000).
func (b *base) selectCHRPage4KB(slot, n int) {
	off := bank(n, 0x1000, b.chr.Len())
	for i := range 4 {
		b.chrmap[slot*4+i] = off + uint32(i)*0x400
	}
}

func (b *base) selectCHRPage8KB(n int) {
	off := bank(n, 0x2000, b.chr.Len())
	for i := range b.chrmap {
		b.chrmap[i] = off + uint32(i)*0x400
	}
}
