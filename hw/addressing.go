package hw

// Addressing modes return the effective address of the operand, after having
// performed the exact sequence of bus accesses of the real CPU, dummy reads
// included.

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

func (c *CPU) imm() uint16 {
	addr := c.PC
	c.PC++
	return addr
}

func (c *CPU) zp() uint16 {
	return uint16(c.fetch8())
}

func (c *CPU) zpx() uint16 {
	base := c.fetch8()
	c.Read8(uint16(base))
	return uint16(base + c.X)
}

func (c *CPU) zpy() uint16 {
	base := c.fetch8()
	c.Read8(uint16(base))
	return uint16(base + c.Y)
}

func (c *CPU) abs() uint16 {
	return c.fetch16()
}

// indexed reads add the extra cycle only when the index crosses a page.
func (c *CPU) indexed(base uint16, idx uint8, always bool) uint16 {
	addr := base + uint16(idx)
	if always || pageCrossed(base, addr) {
		c.Read8(base&0xFF00 | addr&0x00FF)
	}
	return addr
}

func (c *CPU) abx() uint16  { return c.indexed(c.fetch16(), c.X, false) }
func (c *CPU) aby() uint16  { return c.indexed(c.fetch16(), c.Y, false) }
func (c *CPU) abxW() uint16 { return c.indexed(c.fetch16(), c.X, true) }
func (c *CPU) abyW() uint16 { return c.indexed(c.fetch16(), c.Y, true) }

// zpPointer reads a 16-bit pointer in zero page, wrapping inside it.
func (c *CPU) zpPointer(zp uint8) uint16 {
	lo := c.Read8(uint16(zp))
	hi := c.Read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) izx() uint16 {
	zp := c.fetch8()
	c.Read8(uint16(zp))
	return c.zpPointer(zp + c.X)
}

func (c *CPU) izy() uint16  { return c.indexed(c.zpPointer(c.fetch8()), c.Y, false) }
func (c *CPU) izyW() uint16 { return c.indexed(c.zpPointer(c.fetch8()), c.Y, true) }

// Instruction shapes, combining an addressing mode and an operation.

type mode func(*CPU) uint16

// read instructions.
func rd(m mode, op func(*CPU, uint8)) func(*CPU) {
	return func(c *CPU) {
		op(c, c.Read8(m(c)))
	}
}

// store instructions.
func st(m mode, reg func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) {
		addr := m(c)
		c.Write8(addr, reg(c))
	}
}

// read-modify-write instructions write the unmodified value back before
// writing the result.
func rmw(m mode, op func(*CPU, uint8) uint8) func(*CPU) {
	return func(c *CPU) {
		addr := m(c)
		val := c.Read8(addr)
		c.Write8(addr, val)
		c.Write8(addr, op(c, val))
	}
}

// accumulator instructions.
func acc(op func(*CPU, uint8) uint8) func(*CPU) {
	return func(c *CPU) {
		c.Read8(c.PC)
		c.A = op(c, c.A)
	}
}

// implied instructions.
func imp(op func(*CPU)) func(*CPU) {
	return func(c *CPU) {
		c.Read8(c.PC)
		op(c)
	}
}

func branch(cond func(P) bool) func(*CPU) {
	return func(c *CPU) {
		off := int8(c.fetch8())
		if !cond(c.P) {
			return
		}
		c.Read8(c.PC)
		dst := c.PC + uint16(off)
		if pageCrossed(c.PC, dst) {
			c.Read8(c.PC&0xFF00 | dst&0x00FF)
		}
		c.PC = dst
	}
}

func rdA(c *CPU) uint8  { return c.A }
func rdX(c *CPU) uint8  { return c.X }
func rdY(c *CPU) uint8  { return c.Y }
func rdAX(c *CPU) uint8 { return c.A & c.X }
