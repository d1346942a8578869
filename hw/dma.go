package hw

import "famicore/emu/log"

// StartOAMDMA schedules a copy of CPU page to PPU OAM, it starts right after
// the current bus write.
func (c *CPU) StartOAMDMA(page uint8) {
	log.ModCPU.DebugZ("start OAM DMA").Hex8("page", page).End()
	c.dmaPage = page
	c.dmaPending = true
}

// oamDMA halts the CPU for one cycle, plus an alignment cycle when the
// transfer would start on an odd cycle, then performs 256 read/write pairs
// to OAMDATA: 513 or 514 cycles.
func (c *CPU) oamDMA(page uint8) {
	c.idle()
	if c.TotalCycles&1 == 1 {
		c.idle()
	}

	base := uint16(page) << 8
	for i := range uint16(256) {
		val := c.Read8(base | i)
		c.Write8(0x2004, val)
	}
}
