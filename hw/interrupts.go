package hw

type interruptKind uint8

const (
	rstInt interruptKind = iota
	nmiInt
	irqInt
	brkInt
)

// interrupt runs the 7 cycles sequence shared by reset, NMI, IRQ and BRK.
func (c *CPU) interrupt(kind interruptKind) {
	if kind == brkInt {
		// BRK skips its padding byte.
		c.fetch8()
	} else {
		c.Read8(c.PC)
		c.Read8(c.PC)
	}

	if kind == rstInt {
		// Reset goes through the pushes but the bus is in read mode.
		for range 3 {
			c.peekStack()
			c.SP--
		}
	} else {
		c.push8(uint8(c.PC >> 8))
		c.push8(uint8(c.PC))

		p := c.P | Reserved
		if kind == brkInt {
			p |= Break
		} else {
			p &^= Break
		}
		c.push8(uint8(p))
	}

	var vector uint16
	switch {
	case kind == rstInt:
		vector = ResetVector
	case kind == nmiInt:
		vector = NMIVector
		c.needNmi = false
	case c.needNmi:
		// An NMI occurring during an IRQ or BRK sequence hijacks its vector.
		vector = NMIVector
		c.needNmi = false
	default:
		vector = IRQVector
	}

	c.P |= Interrupt
	lo := c.Read8(vector)
	hi := c.Read8(vector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)

	if kind == brkInt {
		// The first instruction of the handler always runs.
		c.prevNeedNmi = false
	}
}
