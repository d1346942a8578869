package hw

import (
	"famicore/emu/log"
	"famicore/hw/hwio"
)

const (
	NumDots      = 341
	NumScanlines = 262

	ScreenWidth  = 256
	ScreenHeight = 240

	preRenderLine = 261
	vblankLine    = 241
	postRenderLn  = 240

	// dots during which the open bus keeps the last value driven.
	openBusDecay = 7777
)

// PPUCTRL bits
const (
	ctrlNametable  = 0b0000_0011 // base nametable (0: $2000, 1: $2400, 2: $2800, 3: $2C00)
	ctrlIncr32     = 0b0000_0100 // VRAM address increment per PPUDATA access (0: 1, 1: 32)
	ctrlSprTable   = 0b0000_1000 // sprite pattern table for 8x8 sprites
	ctrlBgTable    = 0b0001_0000 // background pattern table
	ctrlSprSize    = 0b0010_0000 // sprite size (0: 8x8, 1: 8x16)
	ctrlMasterMode = 0b0100_0000
	ctrlNMI        = 0b1000_0000 // generate an NMI at the start of vblank
)

// PPUMASK bits
const (
	maskGreyscale = 0b0000_0001
	maskBgLeft    = 0b0000_0010 // show background in leftmost 8 pixels
	maskSprLeft   = 0b0000_0100 // show sprites in leftmost 8 pixels
	maskBg        = 0b0000_1000
	maskSpr       = 0b0001_0000

	maskRendering = maskBg | maskSpr
)

// PPUSTATUS bits
const (
	statusOverflow = 0b0010_0000
	statusSpr0Hit  = 0b0100_0000
	statusVblank   = 0b1000_0000
)

// NMISink receives the PPU interrupt output.
type NMISink interface {
	SetNMILine(asserted bool)
	SuppressNMI()
}

type PPU struct {
	CPU  NMISink // nil when there's no CPU
	Cart Cartridge

	vram    *hwio.Mem
	palette [32]uint8
	oam     [256]uint8
	secOAM  [32]uint8

	ctrl, mask, status uint8
	oamAddr            uint8

	// loopy registers
	v, t  uint16
	fineX uint8
	w     bool

	readBuf      uint8
	openBus      uint8
	openBusTimer int

	bg  bgPipeline
	spr sprPipeline

	Dot      int // next dot to run, 0-340
	Scanline int // 0-261
	oddFrame bool

	nmiOut     bool
	frameReady bool

	// Frame holds 256x240 pixels in ARGB format.
	Frame [ScreenWidth * ScreenHeight]uint32
}

// NewPPU creates a PPU accessing patterns and nametables through cart.
func NewPPU(cart Cartridge) *PPU {
	p := &PPU{
		Cart: cart,
		vram: hwio.NewMem("vram", 0x800, hwio.MemFlagReadWrite),
	}
	p.vram.PowerUpFill()
	p.Reset()
	return p
}

// Reset puts the PPU in its power-up state, at the start of the pre-render
// scanline.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t, p.fineX, p.w = 0, 0, 0, false
	p.readBuf = 0
	p.openBus, p.openBusTimer = 0, 0
	p.bg = bgPipeline{}
	p.spr = sprPipeline{}
	p.Scanline, p.Dot = preRenderLine, 0
	p.oddFrame = false
	p.nmiOut = false
	p.frameReady = false
}

// renderingEnabled reports whether background or sprites are enabled.
func (p *PPU) renderingEnabled() bool {
	return p.mask&maskRendering != 0
}

// Tick runs one dot.
func (p *PPU) Tick() {
	if p.openBusTimer > 0 {
		p.openBusTimer--
		if p.openBusTimer == 0 {
			p.openBus = 0
		}
	}

	switch {
	case p.Scanline < postRenderLn:
		p.renderLine()
	case p.Scanline == postRenderLn:
		if p.Dot == 0 {
			p.frameReady = true
		}
	case p.Scanline == vblankLine:
		if p.Dot == 0 {
			p.status |= statusVblank
			p.updateNMI()
			log.ModPPU.DebugZ("vblank start").Hex8("ctrl", p.ctrl).End()
		}
	case p.Scanline == preRenderLine:
		if p.Dot == 1 {
			p.status &^= statusVblank | statusSpr0Hit | statusOverflow
			p.updateNMI()
		}
		p.renderLine()
	}

	p.advance()
}

func (p *PPU) advance() {
	// On odd frames, with rendering enabled, the pre-render line skips its
	// dot 339.
	if p.Scanline == preRenderLine && p.Dot == 338 && p.oddFrame && p.renderingEnabled() {
		p.Dot = 340
		return
	}

	p.Dot++
	if p.Dot == NumDots {
		p.Dot = 0
		p.Scanline++
		if p.Scanline == NumScanlines {
			p.Scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}
}

// updateNMI computes the NMI output and forwards its changes to the CPU.
func (p *PPU) updateNMI() {
	out := p.status&statusVblank != 0 && p.ctrl&ctrlNMI != 0
	if out == p.nmiOut {
		return
	}
	p.nmiOut = out
	if p.CPU != nil {
		p.CPU.SetNMILine(out)
	}
}

// FrameReady reports whether a frame has been completed and not consumed.
func (p *PPU) FrameReady() bool {
	return p.frameReady
}

// ConsumeFrame copies the completed frame into dst and clears the frame
// ready flag.
func (p *PPU) ConsumeFrame(dst []uint32) {
	copy(dst, p.Frame[:])
	p.frameReady = false
}

// OddFrame reports the frame parity.
func (p *PPU) OddFrame() bool {
	return p.oddFrame
}

/* PPU memory */

func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	// $3F10/$3F14/$3F18/$3F1C mirror $3F00/$3F04/$3F08/$3F0C.
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.Cart.ReadCHR(addr)
	case addr < 0x3F00:
		return p.vram.Read8(p.Cart.MirrorNametable(addr))
	}
	return p.palette[paletteIndex(addr)]
}

func (p *PPU) write(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.Cart.WriteCHR(addr, val)
	case addr < 0x3F00:
		p.vram.Write8(p.Cart.MirrorNametable(addr), val)
	default:
		p.palette[paletteIndex(addr)] = val & 0x3F
	}
}
