package hw

var ops = [256]func(cpu *CPU){
	0x00: BRK,
	0x01: rd((*CPU).izx, ora),
	0x02: jam,
	0x03: rmw((*CPU).izx, slo),
	0x04: rd((*CPU).zp, nop),
	0x05: rd((*CPU).zp, ora),
	0x06: rmw((*CPU).zp, asl),
	0x07: rmw((*CPU).zp, slo),
	0x08: imp(php),
	0x09: rd((*CPU).imm, ora),
	0x0A: acc(asl),
	0x0B: rd((*CPU).imm, anc),
	0x0C: rd((*CPU).abs, nop),
	0x0D: rd((*CPU).abs, ora),
	0x0E: rmw((*CPU).abs, asl),
	0x0F: rmw((*CPU).abs, slo),

	0x10: branch(not(P.N)), // BPL
	0x11: rd((*CPU).izy, ora),
	0x12: jam,
	0x13: rmw((*CPU).izyW, slo),
	0x14: rd((*CPU).zpx, nop),
	0x15: rd((*CPU).zpx, ora),
	0x16: rmw((*CPU).zpx, asl),
	0x17: rmw((*CPU).zpx, slo),
	0x18: imp(clc),
	0x19: rd((*CPU).aby, ora),
	0x1A: imp(nopImp),
	0x1B: rmw((*CPU).abyW, slo),
	0x1C: rd((*CPU).abx, nop),
	0x1D: rd((*CPU).abx, ora),
	0x1E: rmw((*CPU).abxW, asl),
	0x1F: rmw((*CPU).abxW, slo),

	0x20: JSR,
	0x21: rd((*CPU).izx, and),
	0x22: jam,
	0x23: rmw((*CPU).izx, rla),
	0x24: rd((*CPU).zp, bit),
	0x25: rd((*CPU).zp, and),
	0x26: rmw((*CPU).zp, rol),
	0x27: rmw((*CPU).zp, rla),
	0x28: imp(plp),
	0x29: rd((*CPU).imm, and),
	0x2A: acc(rol),
	0x2B: rd((*CPU).imm, anc),
	0x2C: rd((*CPU).abs, bit),
	0x2D: rd((*CPU).abs, and),
	0x2E: rmw((*CPU).abs, rol),
	0x2F: rmw((*CPU).abs, rla),

	0x30: branch(P.N), // BMI
	0x31: rd((*CPU).izy, and),
	0x32: jam,
	0x33: rmw((*CPU).izyW, rla),
	0x34: rd((*CPU).zpx, nop),
	0x35: rd((*CPU).zpx, and),
	0x36: rmw((*CPU).zpx, rol),
	0x37: rmw((*CPU).zpx, rla),
	0x38: imp(sec),
	0x39: rd((*CPU).aby, and),
	0x3A: imp(nopImp),
	0x3B: rmw((*CPU).abyW, rla),
	0x3C: rd((*CPU).abx, nop),
	0x3D: rd((*CPU).abx, and),
	0x3E: rmw((*CPU).abxW, rol),
	0x3F: rmw((*CPU).abxW, rla),

	0x40: imp(rti),
	0x41: rd((*CPU).izx, eor),
	0x42: jam,
	0x43: rmw((*CPU).izx, sre),
	0x44: rd((*CPU).zp, nop),
	0x45: rd((*CPU).zp, eor),
	0x46: rmw((*CPU).zp, lsr),
	0x47: rmw((*CPU).zp, sre),
	0x48: imp(pha),
	0x49: rd((*CPU).imm, eor),
	0x4A: acc(lsr),
	0x4B: rd((*CPU).imm, alr),
	0x4C: JMPabs,
	0x4D: rd((*CPU).abs, eor),
	0x4E: rmw((*CPU).abs, lsr),
	0x4F: rmw((*CPU).abs, sre),

	0x50: branch(not(P.V)), // BVC
	0x51: rd((*CPU).izy, eor),
	0x52: jam,
	0x53: rmw((*CPU).izyW, sre),
	0x54: rd((*CPU).zpx, nop),
	0x55: rd((*CPU).zpx, eor),
	0x56: rmw((*CPU).zpx, lsr),
	0x57: rmw((*CPU).zpx, sre),
	0x58: imp(cli),
	0x59: rd((*CPU).aby, eor),
	0x5A: imp(nopImp),
	0x5B: rmw((*CPU).abyW, sre),
	0x5C: rd((*CPU).abx, nop),
	0x5D: rd((*CPU).abx, eor),
	0x5E: rmw((*CPU).abxW, lsr),
	0x5F: rmw((*CPU).abxW, sre),

	0x60: imp(rts),
	0x61: rd((*CPU).izx, adc),
	0x62: jam,
	0x63: rmw((*CPU).izx, rra),
	0x64: rd((*CPU).zp, nop),
	0x65: rd((*CPU).zp, adc),
	0x66: rmw((*CPU).zp, ror),
	0x67: rmw((*CPU).zp, rra),
	0x68: imp(pla),
	0x69: rd((*CPU).imm, adc),
	0x6A: acc(ror),
	0x6B: rd((*CPU).imm, arr),
	0x6C: JMPind,
	0x6D: rd((*CPU).abs, adc),
	0x6E: rmw((*CPU).abs, ror),
	0x6F: rmw((*CPU).abs, rra),

	0x70: branch(P.V), // BVS
	0x71: rd((*CPU).izy, adc),
	0x72: jam,
	0x73: rmw((*CPU).izyW, rra),
	0x74: rd((*CPU).zpx, nop),
	0x75: rd((*CPU).zpx, adc),
	0x76: rmw((*CPU).zpx, ror),
	0x77: rmw((*CPU).zpx, rra),
	0x78: imp(sei),
	0x79: rd((*CPU).aby, adc),
	0x7A: imp(nopImp),
	0x7B: rmw((*CPU).abyW, rra),
	0x7C: rd((*CPU).abx, nop),
	0x7D: rd((*CPU).abx, adc),
	0x7E: rmw((*CPU).abxW, ror),
	0x7F: rmw((*CPU).abxW, rra),

	0x80: rd((*CPU).imm, nop),
	0x81: st((*CPU).izx, rdA),
	0x82: rd((*CPU).imm, nop),
	0x83: st((*CPU).izx, rdAX),
	0x84: st((*CPU).zp, rdY),
	0x85: st((*CPU).zp, rdA),
	0x86: st((*CPU).zp, rdX),
	0x87: st((*CPU).zp, rdAX),
	0x88: imp(dey),
	0x89: rd((*CPU).imm, nop),
	0x8A: imp(txa),
	0x8B: unstable, // ANE
	0x8C: st((*CPU).abs, rdY),
	0x8D: st((*CPU).abs, rdA),
	0x8E: st((*CPU).abs, rdX),
	0x8F: st((*CPU).abs, rdAX),

	0x90: branch(not(P.C)), // BCC
	0x91: st((*CPU).izyW, rdA),
	0x92: jam,
	0x93: unstable, // SHA
	0x94: st((*CPU).zpx, rdY),
	0x95: st((*CPU).zpx, rdA),
	0x96: st((*CPU).zpy, rdX),
	0x97: st((*CPU).zpy, rdAX),
	0x98: imp(tya),
	0x99: st((*CPU).abyW, rdA),
	0x9A: imp(txs),
	0x9B: unstable, // TAS
	0x9C: unstable, // SHY
	0x9D: st((*CPU).abxW, rdA),
	0x9E: unstable, // SHX
	0x9F: unstable, // SHA

	0xA0: rd((*CPU).imm, ldy),
	0xA1: rd((*CPU).izx, lda),
	0xA2: rd((*CPU).imm, ldx),
	0xA3: rd((*CPU).izx, lax),
	0xA4: rd((*CPU).zp, ldy),
	0xA5: rd((*CPU).zp, lda),
	0xA6: rd((*CPU).zp, ldx),
	0xA7: rd((*CPU).zp, lax),
	0xA8: imp(tay),
	0xA9: rd((*CPU).imm, lda),
	0xAA: imp(tax),
	0xAB: unstable, // LXA
	0xAC: rd((*CPU).abs, ldy),
	0xAD: rd((*CPU).abs, lda),
	0xAE: rd((*CPU).abs, ldx),
	0xAF: rd((*CPU).abs, lax),

	0xB0: branch(P.C), // BCS
	0xB1: rd((*CPU).izy, lda),
	0xB2: jam,
	0xB3: rd((*CPU).izy, lax),
	0xB4: rd((*CPU).zpx, ldy),
	0xB5: rd((*CPU).zpx, lda),
	0xB6: rd((*CPU).zpy, ldx),
	0xB7: rd((*CPU).zpy, lax),
	0xB8: imp(clv),
	0xB9: rd((*CPU).aby, lda),
	0xBA: imp(tsx),
	0xBB: unstable, // LAS
	0xBC: rd((*CPU).abx, ldy),
	0xBD: rd((*CPU).abx, lda),
	0xBE: rd((*CPU).aby, ldx),
	0xBF: rd((*CPU).aby, lax),

	0xC0: rd((*CPU).imm, cpy),
	0xC1: rd((*CPU).izx, cmpa),
	0xC2: rd((*CPU).imm, nop),
	0xC3: rmw((*CPU).izx, dcp),
	0xC4: rd((*CPU).zp, cpy),
	0xC5: rd((*CPU).zp, cmpa),
	0xC6: rmw((*CPU).zp, dec),
	0xC7: rmw((*CPU).zp, dcp),
	0xC8: imp(iny),
	0xC9: rd((*CPU).imm, cmpa),
	0xCA: imp(dex),
	0xCB: rd((*CPU).imm, sbx),
	0xCC: rd((*CPU).abs, cpy),
	0xCD: rd((*CPU).abs, cmpa),
	0xCE: rmw((*CPU).abs, dec),
	0xCF: rmw((*CPU).abs, dcp),

	0xD0: branch(not(P.Z)), // BNE
	0xD1: rd((*CPU).izy, cmpa),
	0xD2: jam,
	0xD3: rmw((*CPU).izyW, dcp),
	0xD4: rd((*CPU).zpx, nop),
	0xD5: rd((*CPU).zpx, cmpa),
	0xD6: rmw((*CPU).zpx, dec),
	0xD7: rmw((*CPU).zpx, dcp),
	0xD8: imp(cld),
	0xD9: rd((*CPU).aby, cmpa),
	0xDA: imp(nopImp),
	0xDB: rmw((*CPU).abyW, dcp),
	0xDC: rd((*CPU).abx, nop),
	0xDD: rd((*CPU).abx, cmpa),
	0xDE: rmw((*CPU).abxW, dec),
	0xDF: rmw((*CPU).abxW, dcp),

	0xE0: rd((*CPU).imm, cpx),
	0xE1: rd((*CPU).izx, sbc),
	0xE2: rd((*CPU).imm, nop),
	0xE3: rmw((*CPU).izx, isb),
	0xE4: rd((*CPU).zp, cpx),
	0xE5: rd((*CPU).zp, sbc),
	0xE6: rmw((*CPU).zp, inc),
	0xE7: rmw((*CPU).zp, isb),
	0xE8: imp(inx),
	0xE9: rd((*CPU).imm, sbc),
	0xEA: imp(nopImp),
	0xEB: rd((*CPU).imm, sbc),
	0xEC: rd((*CPU).abs, cpx),
	0xED: rd((*CPU).abs, sbc),
	0xEE: rmw((*CPU).abs, inc),
	0xEF: rmw((*CPU).abs, isb),

	0xF0: branch(P.Z), // BEQ
	0xF1: rd((*CPU).izy, sbc),
	0xF2: jam,
	0xF3: rmw((*CPU).izyW, isb),
	0xF4: rd((*CPU).zpx, nop),
	0xF5: rd((*CPU).zpx, sbc),
	0xF6: rmw((*CPU).zpx, inc),
	0xF7: rmw((*CPU).zpx, isb),
	0xF8: imp(sed),
	0xF9: rd((*CPU).aby, sbc),
	0xFA: imp(nopImp),
	0xFB: rmw((*CPU).abyW, isb),
	0xFC: rd((*CPU).abx, nop),
	0xFD: rd((*CPU).abx, sbc),
	0xFE: rmw((*CPU).abxW, inc),
	0xFF: rmw((*CPU).abxW, isb),
}

// unstableOps lists the opcodes whose behavior depends on analog effects,
// they halt the CPU like JAM opcodes do.
var unstableOps = [256]uint8{
	0x8B: 1, 0x93: 1, 0x9B: 1, 0x9C: 1, 0x9E: 1, 0x9F: 1, 0xAB: 1, 0xBB: 1,
}

func not(cond func(P) bool) func(P) bool {
	return func(p P) bool { return !cond(p) }
}

/* control flow */

func BRK(cpu *CPU) {
	cpu.interrupt(brkInt)
}

func JSR(cpu *CPU) {
	lo := cpu.fetch8()
	cpu.peekStack()
	cpu.push8(uint8(cpu.PC >> 8))
	cpu.push8(uint8(cpu.PC))
	hi := cpu.Read8(cpu.PC)
	cpu.PC = uint16(hi)<<8 | uint16(lo)
}

func JMPabs(cpu *CPU) {
	cpu.PC = cpu.fetch16()
}

// JMPind doesn't carry into the high byte of the pointer: JMP ($10FF) reads
// its target from $10FF and $1000.
func JMPind(cpu *CPU) {
	ptr := cpu.fetch16()
	lo := cpu.Read8(ptr)
	hi := cpu.Read8(ptr&0xFF00 | (ptr+1)&0x00FF)
	cpu.PC = uint16(hi)<<8 | uint16(lo)
}

func rti(cpu *CPU) {
	cpu.peekStack()
	cpu.P = fromStack(cpu.pull8())
	lo := cpu.pull8()
	hi := cpu.pull8()
	cpu.PC = uint16(hi)<<8 | uint16(lo)
}

func rts(cpu *CPU) {
	cpu.peekStack()
	lo := cpu.pull8()
	hi := cpu.pull8()
	cpu.PC = uint16(hi)<<8 | uint16(lo)
	cpu.fetch8()
}

func jam(cpu *CPU) {
	cpu.halt()
}

func unstable(cpu *CPU) {
	cpu.halt()
}

/* stack */

func pha(cpu *CPU) { cpu.push8(cpu.A) }
func php(cpu *CPU) { cpu.push8(uint8(cpu.P | Break | Reserved)) }

func pla(cpu *CPU) {
	cpu.peekStack()
	cpu.A = cpu.pull8()
	cpu.P.setNZ(cpu.A)
}

func plp(cpu *CPU) {
	cpu.peekStack()
	cpu.P = fromStack(cpu.pull8())
}

/* implied */

func nopImp(*CPU)     {}
func clc(cpu *CPU)    { cpu.P &^= Carry }
func sec(cpu *CPU)    { cpu.P |= Carry }
func cli(cpu *CPU)    { cpu.P &^= Interrupt }
func sei(cpu *CPU)    { cpu.P |= Interrupt }
func clv(cpu *CPU)    { cpu.P &^= Overflow }
func cld(cpu *CPU)    { cpu.P &^= Decimal }
func sed(cpu *CPU)    { cpu.P |= Decimal }
func txs(cpu *CPU)    { cpu.SP = cpu.X }
func tsx(cpu *CPU)    { cpu.X = cpu.SP; cpu.P.setNZ(cpu.X) }
func tax(cpu *CPU)    { cpu.X = cpu.A; cpu.P.setNZ(cpu.X) }
func tay(cpu *CPU)    { cpu.Y = cpu.A; cpu.P.setNZ(cpu.Y) }
func txa(cpu *CPU)    { cpu.A = cpu.X; cpu.P.setNZ(cpu.A) }
func tya(cpu *CPU)    { cpu.A = cpu.Y; cpu.P.setNZ(cpu.A) }
func inx(cpu *CPU)    { cpu.X++; cpu.P.setNZ(cpu.X) }
func iny(cpu *CPU)    { cpu.Y++; cpu.P.setNZ(cpu.Y) }
func dex(cpu *CPU)    { cpu.X--; cpu.P.setNZ(cpu.X) }
func dey(cpu *CPU)    { cpu.Y--; cpu.P.setNZ(cpu.Y) }
func nop(*CPU, uint8) {}

/* read */

func lda(cpu *CPU, val uint8)  { cpu.A = val; cpu.P.setNZ(val) }
func ldx(cpu *CPU, val uint8)  { cpu.X = val; cpu.P.setNZ(val) }
func ldy(cpu *CPU, val uint8)  { cpu.Y = val; cpu.P.setNZ(val) }
func lax(cpu *CPU, val uint8)  { cpu.A = val; cpu.X = val; cpu.P.setNZ(val) }
func and(cpu *CPU, val uint8)  { cpu.A &= val; cpu.P.setNZ(cpu.A) }
func ora(cpu *CPU, val uint8)  { cpu.A |= val; cpu.P.setNZ(cpu.A) }
func eor(cpu *CPU, val uint8)  { cpu.A ^= val; cpu.P.setNZ(cpu.A) }
func cmpa(cpu *CPU, val uint8) { compare(cpu, cpu.A, val) }
func cpx(cpu *CPU, val uint8)  { compare(cpu, cpu.X, val) }
func cpy(cpu *CPU, val uint8)  { compare(cpu, cpu.Y, val) }

func compare(cpu *CPU, reg, val uint8) {
	cpu.P.set(Carry, reg >= val)
	cpu.P.setNZ(reg - val)
}

func bit(cpu *CPU, val uint8) {
	cpu.P.set(Zero, cpu.A&val == 0)
	cpu.P.set(Overflow, val&0x40 != 0)
	cpu.P.set(Negative, val&0x80 != 0)
}

// adc ignores the decimal flag, the 2A03 has no BCD mode.
func adc(cpu *CPU, val uint8) {
	sum := uint16(cpu.A) + uint16(val) + uint16(cpu.P&Carry)
	res := uint8(sum)
	cpu.P.set(Overflow, (cpu.A^res)&(val^res)&0x80 != 0)
	cpu.P.set(Carry, sum > 0xFF)
	cpu.A = res
	cpu.P.setNZ(res)
}

func sbc(cpu *CPU, val uint8) {
	adc(cpu, ^val)
}

func anc(cpu *CPU, val uint8) {
	and(cpu, val)
	cpu.P.set(Carry, cpu.A&0x80 != 0)
}

func alr(cpu *CPU, val uint8) {
	cpu.A = lsr(cpu, cpu.A&val)
}

func arr(cpu *CPU, val uint8) {
	cpu.A = (cpu.A&val)>>1 | uint8(cpu.P&Carry)<<7
	cpu.P.setNZ(cpu.A)
	cpu.P.set(Carry, cpu.A&0x40 != 0)
	cpu.P.set(Overflow, (cpu.A>>6^cpu.A>>5)&1 != 0)
}

func sbx(cpu *CPU, val uint8) {
	ax := cpu.A & cpu.X
	cpu.P.set(Carry, ax >= val)
	cpu.X = ax - val
	cpu.P.setNZ(cpu.X)
}

/* read-modify-write */

func asl(cpu *CPU, val uint8) uint8 {
	cpu.P.set(Carry, val&0x80 != 0)
	val <<= 1
	cpu.P.setNZ(val)
	return val
}

func lsr(cpu *CPU, val uint8) uint8 {
	cpu.P.set(Carry, val&0x01 != 0)
	val >>= 1
	cpu.P.setNZ(val)
	return val
}

func rol(cpu *CPU, val uint8) uint8 {
	carry := uint8(cpu.P & Carry)
	cpu.P.set(Carry, val&0x80 != 0)
	val = val<<1 | carry
	cpu.P.setNZ(val)
	return val
}

func ror(cpu *CPU, val uint8) uint8 {
	carry := uint8(cpu.P&Carry) << 7
	cpu.P.set(Carry, val&0x01 != 0)
	val = val>>1 | carry
	cpu.P.setNZ(val)
	return val
}

func inc(cpu *CPU, val uint8) uint8 { val++; cpu.P.setNZ(val); return val }
func dec(cpu *CPU, val uint8) uint8 { val--; cpu.P.setNZ(val); return val }

func slo(cpu *CPU, val uint8) uint8 { val = asl(cpu, val); ora(cpu, val); return val }
func rla(cpu *CPU, val uint8) uint8 { val = rol(cpu, val); and(cpu, val); return val }
func sre(cpu *CPU, val uint8) uint8 { val = lsr(cpu, val); eor(cpu, val); return val }
func rra(cpu *CPU, val uint8) uint8 { val = ror(cpu, val); adc(cpu, val); return val }
func dcp(cpu *CPU, val uint8) uint8 { val = dec(cpu, val); cmpa(cpu, val); return val }
func isb(cpu *CPU, val uint8) uint8 { val = inc(cpu, val); sbc(cpu, val); return val }
