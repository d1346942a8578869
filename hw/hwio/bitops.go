// Package hwio provides the building blocks of memory-mapped hardware: bit
// manipulation helpers and linear memory blocks.
package hwio

type Uint interface {
	~uint8 | ~uint16 | ~uint32
}

// Bit reports whether bit n of v is set.
func Bit[T Uint](v T, n uint) bool {
	return v>>n&1 != 0
}

// Biti returns bit n of v, as 0 or 1.
func Biti[T Uint](v T, n uint) T {
	return v >> n & 1
}

// Reverse8 reverses the bit order of b.
func Reverse8(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

// B2I converts b to 0 or 1.
func B2I(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
