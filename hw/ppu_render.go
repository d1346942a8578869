package hw

type bgPipeline struct {
	faddr            uint16 // address of the fetch in progress
	nt, at, lo, hi   uint8  // latches
	shiftLo, shiftHi uint16
	atShiftLo        uint8
	atShiftHi        uint8
	atLatchLo        uint8 // 1 bit
	atLatchHi        uint8 // 1 bit
}

func (bg *bgPipeline) shift() {
	bg.shiftLo <<= 1
	bg.shiftHi <<= 1
	bg.atShiftLo = bg.atShiftLo<<1 | bg.atLatchLo
	bg.atShiftHi = bg.atShiftHi<<1 | bg.atLatchHi
}

func (bg *bgPipeline) reload() {
	bg.shiftLo = bg.shiftLo&0xFF00 | uint16(bg.lo)
	bg.shiftHi = bg.shiftHi&0xFF00 | uint16(bg.hi)
	bg.atLatchLo = bg.at & 1
	bg.atLatchHi = bg.at >> 1 & 1
}

// pixel returns the 4-bit palette index of the background pixel.
func (bg *bgPipeline) pixel(fineX uint8) uint8 {
	px := uint8(bg.shiftHi>>(15-fineX)&1)<<1 | uint8(bg.shiftLo>>(15-fineX)&1)
	if px == 0 {
		return 0
	}
	at := (bg.atShiftHi>>(7-fineX)&1)<<1 | bg.atShiftLo>>(7-fineX)&1
	return at<<2 | px
}

func (p *PPU) ntAddr() uint16 {
	return 0x2000 | p.v&0x0FFF
}

func (p *PPU) atAddr() uint16 {
	return 0x23C0 | p.v&0x0C00 | p.v>>4&0x38 | p.v>>2&0x07
}

func (p *PPU) bgAddr() uint16 {
	var base uint16
	if p.ctrl&ctrlBgTable != 0 {
		base = 0x1000
	}
	return base + uint16(p.bg.nt)*16 + p.v>>12
}

// renderLine runs one dot of a visible or pre-render scanline.
func (p *PPU) renderLine() {
	dot := p.Dot
	visible := p.Scanline < postRenderLn

	if !p.renderingEnabled() {
		if visible && dot >= 1 && dot <= 256 {
			p.Frame[p.Scanline*ScreenWidth+dot-1] = p.backdrop()
		}
		return
	}

	if visible {
		p.spriteEval()
	}

	if (dot >= 2 && dot <= 257) || (dot >= 322 && dot <= 337) {
		p.bg.shift()
	}
	if visible && dot >= 1 && dot <= 256 {
		p.renderPixel(dot - 1)
	}

	switch {
	case dot == 0:
		// idle
	case dot == 1:
		p.bg.faddr = p.ntAddr()
	case dot <= 257 || (dot >= 321 && dot <= 337):
		p.fetchBackground(dot)
	case dot == 339:
		p.bg.faddr = p.ntAddr()
	case dot == 338 || dot == 340:
		// unused nametable fetches
		p.bg.nt = p.read(p.bg.faddr)
	}

	switch {
	case dot == 256:
		p.incrY()
	case dot == 257:
		p.copyHorizontal()
	case p.Scanline == preRenderLine && dot >= 280 && dot <= 304:
		p.copyVertical()
	}

	if dot >= 257 && dot <= 320 {
		p.oamAddr = 0
		p.spriteFetch(dot)
	}
}

// fetchBackground runs the 8 dots tile fetch cadence.
func (p *PPU) fetchBackground(dot int) {
	bg := &p.bg
	switch (dot - 1) % 8 {
	case 0:
		bg.reload()
		bg.faddr = p.ntAddr()
	case 1:
		bg.nt = p.read(bg.faddr)
	case 2:
		bg.faddr = p.atAddr()
	case 3:
		bg.at = p.read(bg.faddr)
		if p.v&0x40 != 0 {
			bg.at >>= 4
		}
		if p.v&0x02 != 0 {
			bg.at >>= 2
		}
	case 4:
		bg.faddr = p.bgAddr()
	case 5:
		bg.lo = p.read(bg.faddr)
	case 6:
		bg.faddr += 8
	case 7:
		bg.hi = p.read(bg.faddr)
		p.incrCoarseX()
	}
}

func (p *PPU) renderPixel(x int) {
	var bgpx uint8
	if p.mask&maskBg != 0 && (x >= 8 || p.mask&maskBgLeft != 0) {
		bgpx = p.bg.pixel(p.fineX)
	}

	var (
		sprpx   uint8
		sprslot int = -1
		behind  bool
	)
	if p.mask&maskSpr != 0 && (x >= 8 || p.mask&maskSprLeft != 0) {
		sprpx, sprslot, behind = p.spr.pixel(x)
	}

	if bgpx&3 != 0 && sprpx&3 != 0 && sprslot == 0 && p.spr.spr0Line && x != 255 {
		p.status |= statusSpr0Hit
	}

	var idx uint8
	switch {
	case sprpx&3 != 0 && (bgpx&3 == 0 || !behind):
		idx = 0x10 | sprpx
	case bgpx&3 != 0:
		idx = bgpx
	}

	p.Frame[p.Scanline*ScreenWidth+x] = p.color(p.palette[idx])
}

// backdrop returns the color output when rendering is disabled. When v
// points into palette RAM, the palette entry it points to is displayed.
func (p *PPU) backdrop() uint32 {
	if p.v&0x3F00 == 0x3F00 {
		return p.color(p.palette[paletteIndex(p.v)])
	}
	return p.color(p.palette[0])
}

func (p *PPU) color(c uint8) uint32 {
	if p.mask&maskGreyscale != 0 {
		c &= 0x30
	}
	return nesRGB[c&0x3F]
}
