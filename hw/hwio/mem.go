package hwio

import (
	"fmt"

	"famicore/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = 1 << iota // writes are dropped and logged
	MemFlagNoROLog                        // writes are silently dropped
)

// Mem is a linear memory block, mirrored over the whole address space
// through its power of 2 size.
type Mem struct {
	Name  string // for logging
	Data  []byte
	Flags MemFlags

	mask uint32
}

// NewMem allocates a memory block of the given size, which must be a power
// of 2.
func NewMem(name string, size int, flags MemFlags) *Mem {
	if size <= 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("hwio: %s: memory size %d is not a power of 2", name, size))
	}
	return &Mem{
		Name:  name,
		Data:  make([]byte, size),
		Flags: flags,
		mask:  uint32(size - 1),
	}
}

// NewMemFrom creates a memory block backed by buf, whose length must be a
// power of 2.
func NewMemFrom(name string, buf []byte, flags MemFlags) *Mem {
	m := NewMem(name, len(buf), flags)
	m.Data = buf
	return m
}

// PowerUpFill fills the block with the usual power-up content of the NES
// SRAM chips: groups of 4 $00 bytes alternating with 4 $FF bytes.
func (m *Mem) PowerUpFill() {
	for i := range m.Data {
		m.Data[i] = 0
		if i&4 != 0 {
			m.Data[i] = 0xFF
		}
	}
}

func (m *Mem) Read8(addr uint16) uint8 {
	return m.Data[uint32(addr)&m.mask]
}

// ReadAt reads a byte at a 32-bit offset, for blocks larger than 64k.
func (m *Mem) ReadAt(off uint32) uint8 {
	return m.Data[off&m.mask]
}

func (m *Mem) Write8(addr uint16, val uint8) {
	m.WriteAt(uint32(addr), val)
}

// WriteAt writes a byte at a 32-bit offset, for blocks larger than 64k.
func (m *Mem) WriteAt(off uint32, val uint8) {
	switch {
	case m.Flags&MemFlagNoROLog != 0:
		return
	case m.Flags&MemFlagReadOnly != 0:
		log.ModHwIo.WarnZ("write to readonly memory").
			String("name", m.Name).
			Hex32("off", off).
			Hex8("val", val).
			End()
		return
	}
	m.Data[off&m.mask] = val
}

// Len returns the size of the block.
func (m *Mem) Len() int {
	return len(m.Data)
}
