package hw

import (
	"famicore/emu/log"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// Bus is the CPU view of the address space. Each call is one bus cycle.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// Ticker is a device clocked by the CPU, 3 ticks per CPU cycle.
type Ticker interface {
	Tick()
}

type CPU struct {
	Bus   Bus
	PPU   Ticker    // nil when there's no PPU.
	Audio AudioUnit // for the audio interrupt line.

	Cycles      int64  // CPU cycles, reset at each frame by the driver
	TotalCycles uint64 // CPU cycles since power-up

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	// interrupt handling
	nmiLine              bool
	nmiEdge              bool // rising edge not sampled yet
	needNmi, prevNeedNmi bool
	irqLine              bool
	runIRQ, prevRunIRQ   bool

	dmaPending bool
	dmaPage    uint8

	halted bool
}

// NewCPU creates a CPU reading and writing on bus. It still needs to be
// powered up.
func NewCPU(bus Bus) *CPU {
	return &CPU{
		Bus:   bus,
		Audio: NoAudio{},
	}
}

// PowerUp puts the CPU in its power-up state, then runs the reset sequence.
func (c *CPU) PowerUp() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0x00
	c.P = Reserved
	c.PC = 0x0000
	c.halted = false
	c.nmiLine, c.nmiEdge = false, false
	c.needNmi, c.prevNeedNmi = false, false
	c.irqLine, c.runIRQ, c.prevRunIRQ = false, false, false
	c.dmaPending = false

	c.interrupt(rstInt)
}

// Reset runs the reset sequence, registers other than SP, P and PC are left
// untouched.
func (c *CPU) Reset() {
	c.halted = false
	c.interrupt(rstInt)
}

// CurrentCycle implements Clock.
func (c *CPU) CurrentCycle() int64 {
	return int64(c.TotalCycles)
}

// Step executes a single instruction, followed by the interrupt sequence if an
// interrupt was pending before the last cycle of the instruction.
func (c *CPU) Step() {
	opcode := c.fetch8()
	ops[opcode](c)

	if c.halted {
		log.ModCPU.WarnZ("CPU halted").
			Hex16("PC", c.PC-1).
			Hex8("opcode", opcode).
			End()
		return
	}

	switch {
	case c.prevNeedNmi:
		c.interrupt(nmiInt)
	case c.prevRunIRQ:
		c.interrupt(irqInt)
	}
}

// RunFor runs instructions until at least ncycles cycles have elapsed, or the
// CPU halts. The last instruction may overshoot the budget.
func (c *CPU) RunFor(ncycles int64) {
	until := c.Cycles + ncycles
	for c.Cycles < until && !c.halted {
		c.Step()
	}
}

func (c *CPU) halt() {
	c.halted = true
}

func (c *CPU) IsHalted() bool {
	return c.halted
}

// SetNMILine sets the level of the NMI input. The CPU reacts to the rising
// edge of the line; the edge is remembered even if the line goes low again
// before the CPU gets to sample it.
func (c *CPU) SetNMILine(asserted bool) {
	if asserted && !c.nmiLine {
		c.nmiEdge = true
	}
	c.nmiLine = asserted
}

// SuppressNMI drops a rising edge of the NMI line that the CPU hasn't
// sampled yet.
func (c *CPU) SuppressNMI() {
	c.nmiEdge = false
}

// SetIRQLine sets the level of the external IRQ input.
func (c *CPU) SetIRQLine(asserted bool) {
	c.irqLine = asserted
}

func (c *CPU) cycleBegin() {
	c.Cycles++
	c.TotalCycles++
	if c.PPU != nil {
		c.PPU.Tick()
		c.PPU.Tick()
		c.PPU.Tick()
	}
}

func (c *CPU) cycleEnd() {
	c.handleInterrupts()
}

func (c *CPU) handleInterrupts() {
	// The internal NMI signal goes high during the cycle that follows the one
	// where the edge is detected, and stays high until the NMI is handled.
	c.prevNeedNmi = c.needNmi
	if c.nmiEdge {
		c.needNmi = true
		c.nmiEdge = false
	}

	// It's the status of the IRQ line at the end of the second-to-last cycle
	// that matters.
	c.prevRunIRQ = c.runIRQ
	irq := c.irqLine || c.Audio.EarliestIRQ() <= c.Cycles
	c.runIRQ = irq && !c.P.I()
}

func (c *CPU) Read8(addr uint16) uint8 {
	c.cycleBegin()
	val := c.Bus.Read8(addr)
	c.cycleEnd()
	return val
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.cycleBegin()
	c.Bus.Write8(addr, val)
	c.cycleEnd()

	if c.dmaPending {
		c.dmaPending = false
		c.oamDMA(c.dmaPage)
	}
}

// idle is a cycle on which the CPU doesn't drive the bus.
func (c *CPU) idle() {
	c.cycleBegin()
	c.cycleEnd()
}

func (c *CPU) fetch8() uint8 {
	val := c.Read8(c.PC)
	c.PC++
	return val
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	c.Write8(0x0100|uint16(c.SP), val)
	c.SP--
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.Read8(0x0100 | uint16(c.SP))
}

// peekStack performs the dummy stack read of pull sequences.
func (c *CPU) peekStack() {
	c.Read8(0x0100 | uint16(c.SP))
}
