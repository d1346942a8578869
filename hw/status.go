package hw

// P is the processor status register.
type P uint8

const (
	Carry P = 1 << iota
	Zero
	Interrupt
	Decimal
	Break
	Reserved
	Overflow
	Negative
)

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := range 8 {
		ibit := (uint8(p) >> (7 - i)) & 1
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (p P) C() bool { return p&Carry != 0 }
func (p P) Z() bool { return p&Zero != 0 }
func (p P) I() bool { return p&Interrupt != 0 }
func (p P) D() bool { return p&Decimal != 0 }
func (p P) B() bool { return p&Break != 0 }
func (p P) V() bool { return p&Overflow != 0 }
func (p P) N() bool { return p&Negative != 0 }

func (p *P) set(flags P, on bool) {
	if on {
		*p |= flags
	} else {
		*p &^= flags
	}
}

func (p *P) setNZ(val uint8) {
	p.set(Zero, val == 0)
	p.set(Negative, val&0x80 != 0)
}

// fromStack returns the value of P after it's been pulled from the stack:
// B doesn't exist in the register and the unused bit always reads 1.
func fromStack(val uint8) P {
	return P(val)&^Break | Reserved
}
