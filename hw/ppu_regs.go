package hw

import "famicore/emu/log"

// ReadReg reads the PPU register at bus offset reg (0-7).
func (p *PPU) ReadReg(reg uint16) uint8 {
	switch reg & 7 {
	case 2:
		return p.readPPUSTATUS()
	case 4:
		return p.readOAMDATA()
	case 7:
		return p.readPPUDATA()
	}
	// write-only registers
	return p.openBus
}

// WriteReg writes the PPU register at bus offset reg (0-7).
func (p *PPU) WriteReg(reg uint16, val uint8) {
	p.refreshOpenBus(val)

	switch reg & 7 {
	case 0:
		p.writePPUCTRL(val)
	case 1:
		log.ModPPU.DebugZ("write PPUMASK").Hex8("val", val).End()
		p.mask = val
	case 2:
		// read-only
	case 3:
		p.oamAddr = val
	case 4:
		p.writeOAMDATA(val)
	case 5:
		p.writePPUSCROLL(val)
	case 6:
		p.writePPUADDR(val)
	case 7:
		p.writePPUDATA(val)
	}
}

func (p *PPU) refreshOpenBus(val uint8) {
	p.openBus = val
	p.openBusTimer = openBusDecay
}

func (p *PPU) writePPUCTRL(val uint8) {
	log.ModPPU.DebugZ("write PPUCTRL").Hex8("val", val).End()
	p.ctrl = val
	// t: ...GH.. ........ <- d: ......GH
	p.t = p.t&^0x0C00 | uint16(val&ctrlNametable)<<10

	// Enabling NMI during vblank raises the line right away.
	p.updateNMI()
}

func (p *PPU) readPPUSTATUS() uint8 {
	val := p.status&0xE0 | p.openBus&0x1F
	// Only the 3 driven bits refresh the open bus, without restarting its
	// decay.
	p.openBus = val
	p.status &^= statusVblank
	p.w = false

	// Reading the status as vblank starts suppresses that frame's NMI.
	if p.Scanline == vblankLine && p.Dot >= 1 && p.Dot <= 3 {
		if p.CPU != nil {
			p.CPU.SuppressNMI()
		}
	}
	p.updateNMI()
	return val
}

func (p *PPU) isRendering() bool {
	return p.renderingEnabled() && (p.Scanline < postRenderLn || p.Scanline == preRenderLine)
}

func (p *PPU) readOAMDATA() uint8 {
	val := p.oam[p.oamAddr]
	if p.oamAddr&3 == 2 {
		// unimplemented bits of the attribute byte
		val &= 0xE3
	}
	p.refreshOpenBus(val)
	return val
}

func (p *PPU) writeOAMDATA(val uint8) {
	if p.isRendering() {
		// Writes during rendering don't reach OAM but bump the address.
		p.oamAddr += 4
		return
	}
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

func (p *PPU) writePPUSCROLL(val uint8) {
	if !p.w {
		// t: ....... ...ABCDE <- d: ABCDE...
		// x:              FGH <- d: .....FGH
		p.t = p.t&^0x001F | uint16(val)>>3
		p.fineX = val & 0x07
	} else {
		// t: FGH..AB CDE..... <- d: ABCDEFGH
		p.t = p.t&^0x73E0 | uint16(val&0x07)<<12 | uint16(val&0xF8)<<2
	}
	p.w = !p.w
}

func (p *PPU) writePPUADDR(val uint8) {
	if !p.w {
		// t: .CDEFGH ........ <- d: ..CDEFGH
		// t: Z...... ........ <- 0
		p.t = p.t&0x00FF | uint16(val&0x3F)<<8
	} else {
		// t: ....... ABCDEFGH <- d: ABCDEFGH
		p.t = p.t&0xFF00 | uint16(val)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) readPPUDATA() uint8 {
	addr := p.v & 0x3FFF

	var val uint8
	if addr >= 0x3F00 {
		// Palette reads are immediate and only drive the 6 low bits. The
		// buffer is filled with the nametable byte 'below' the palette.
		val = p.read(addr) | p.openBus&0xC0
		p.readBuf = p.read(addr - 0x1000)
		p.openBus = p.openBus&0xC0 | val&0x3F
		p.openBusTimer = openBusDecay
	} else {
		val = p.readBuf
		p.readBuf = p.read(addr)
		p.refreshOpenBus(val)
	}

	p.incrVRAMAddr()
	return val
}

func (p *PPU) writePPUDATA(val uint8) {
	p.write(p.v, val)
	p.incrVRAMAddr()
}

func (p *PPU) incrVRAMAddr() {
	if p.isRendering() {
		// During rendering the address is bumped by the rendering counters.
		p.incrCoarseX()
		p.incrY()
		return
	}
	if p.ctrl&ctrlIncr32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}

// Scroll counters: v is laid out as yyy NN YYYYY XXXXX (fine Y, nametable,
// coarse Y, coarse X).

func (p *PPU) incrCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&^0x03E0 | y<<5
}

func (p *PPU) copyHorizontal() {
	p.v = p.v&^0x041F | p.t&0x041F
}

func (p *PPU) copyVertical() {
	p.v = p.v&^0x7BE0 | p.t&0x7BE0
}
