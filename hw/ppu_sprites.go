package hw

import "famicore/hw/hwio"

type sprite struct {
	lo, hi uint8 // pattern, already flipped horizontally
	attr   uint8
	x      uint8
}

type sprPipeline struct {
	// evaluation state
	n, m     uint8 // OAM sprite index and byte index
	secIdx   uint8 // secondary OAM write index
	found    int
	done     bool
	latch    uint8
	spr0Next bool // sprite 0 is in the secondary OAM

	// sprites of the current line
	count    int
	slots    [8]sprite
	spr0Line bool
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSprSize != 0 {
		return 16
	}
	return 8
}

func (p *PPU) inRange(y uint8) bool {
	row := p.Scanline - int(y)
	return row >= 0 && row < p.spriteHeight()
}

// spriteEval runs one dot of the sprite evaluation for the next scanline.
// Dots 1-64 clear the secondary OAM, dots 65-256 look for sprites, reading
// OAM on odd dots and writing secondary OAM on even dots.
func (p *PPU) spriteEval() {
	s := &p.spr
	dot := p.Dot

	switch {
	case dot >= 1 && dot <= 64:
		p.secOAM[(dot-1)>>1] = 0xFF
		return
	case dot < 65 || dot > 256:
		return
	}

	if dot == 65 {
		s.n, s.m, s.secIdx, s.found = 0, 0, 0, 0
		s.done = false
		s.spr0Next = false
	}

	if dot&1 == 1 {
		s.latch = p.oam[s.n*4+s.m]
		return
	}
	if s.done {
		return
	}

	if s.found < 8 {
		p.secOAM[s.secIdx] = s.latch
		if s.m == 0 && !p.inRange(s.latch) {
			s.nextSprite()
			return
		}
		s.secIdx++
		s.m++
		if s.m == 4 {
			if s.n == 0 {
				s.spr0Next = true
			}
			s.found++
			s.m = 0
			s.nextSprite()
		}
		return
	}

	// With 8 sprites found, the hardware keeps looking for a 9th one, but
	// increments both n and m, reading garbage as Y coordinates.
	if p.inRange(s.latch) {
		p.status |= statusOverflow
		s.done = true
		return
	}
	s.m = (s.m + 1) & 3
	s.nextSprite()
}

func (s *sprPipeline) nextSprite() {
	s.n = (s.n + 1) & 63
	if s.n == 0 {
		s.done = true
	}
}

// spriteFetch loads the pattern of the sprites found by the last evaluation,
// one sprite every 8 dots.
func (p *PPU) spriteFetch(dot int) {
	s := &p.spr
	i := (dot - 257) / 8

	switch (dot - 257) % 8 {
	case 0:
		if i == 0 {
			s.count = s.found
			s.spr0Line = s.spr0Next
			if p.Scanline == preRenderLine {
				s.count = 0
				s.spr0Line = false
			}
		}
	case 5:
		addr := p.sprAddr(i)
		s.slots[i].lo = p.read(addr)
	case 7:
		addr := p.sprAddr(i) + 8
		hi := p.read(addr)

		slot := &s.slots[i]
		slot.hi = hi
		slot.attr = p.secOAM[i*4+2]
		slot.x = p.secOAM[i*4+3]
		if i >= s.count {
			// unused slots fetch tile $FF, and are transparent.
			slot.lo, slot.hi = 0, 0
			return
		}
		if slot.attr&0x40 != 0 {
			slot.lo = hwio.Reverse8(slot.lo)
			slot.hi = hwio.Reverse8(slot.hi)
		}
	}
}

// sprAddr returns the pattern address of the low plane of the sprite in the
// given secondary OAM slot, for the next scanline.
func (p *PPU) sprAddr(i int) uint16 {
	y := p.secOAM[i*4]
	tile := p.secOAM[i*4+1]
	attr := p.secOAM[i*4+2]
	if i >= p.spr.count {
		y, tile, attr = 0xFF, 0xFF, 0xFF
	}

	h := p.spriteHeight()
	row := (p.Scanline - int(y)) & (h - 1)
	if attr&0x80 != 0 {
		row = h - 1 - row
	}

	var base uint16
	if h == 16 {
		base = uint16(tile&1) * 0x1000
		tile &^= 1
		if row >= 8 {
			tile++
			row -= 8
		}
	} else if p.ctrl&ctrlSprTable != 0 {
		base = 0x1000
	}
	return base + uint16(tile)*16 + uint16(row)
}

// pixel returns the 4-bit palette index of the first opaque sprite pixel at
// x, its slot and whether it's drawn behind the background.
func (s *sprPipeline) pixel(x int) (px uint8, slot int, behind bool) {
	for i := range s.count {
		spr := &s.slots[i]
		off := x - int(spr.x)
		if off < 0 || off > 7 {
			continue
		}
		bit := 7 - uint(off)
		c := (spr.hi>>bit&1)<<1 | spr.lo>>bit&1
		if c == 0 {
			continue
		}
		return (spr.attr&3)<<2 | c, i, spr.attr&0x20 != 0
	}
	return 0, -1, false
}
