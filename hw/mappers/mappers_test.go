package mappers

import (
	"bytes"
	"strings"
	"testing"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/ines"
)

func init() {
	log.Disable()
}

type fakeClock int64

func (c *fakeClock) CurrentCycle() int64 { return int64(*c) }

// advance moves the clock forward so that the next write is not seen as
// part of a read-modify-write sequence.
func (c *fakeClock) advance(n int64) { *c += fakeClock(n) }

// mkrom builds a cartridge image. Every 16k PRG bank is filled with its
// index and every 4k of CHR with its 4k page index.
func mkrom(t *testing.T, mapper uint8, prg, chr int, flags6 byte) *ines.Rom {
	t.Helper()

	hdr := []byte{'N', 'E', 'S', 0x1a, byte(prg), byte(chr), flags6 | mapper<<4, mapper & 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := bytes.NewBuffer(hdr)
	if flags6&0x04 != 0 {
		buf.Write(bytes.Repeat([]byte{0xEE}, 512))
	}
	for i := range prg {
		buf.Write(bytes.Repeat([]byte{byte(i)}, ines.PRGBankSize))
	}
	for i := range chr * 2 {
		buf.Write(bytes.Repeat([]byte{byte(i)}, ines.CHRBankSize/2))
	}

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(buf); err != nil {
		t.Fatal(err)
	}
	return rom
}

func load(t *testing.T, rom *ines.Rom) (hw.Cartridge, *fakeClock) {
	t.Helper()

	clock := new(fakeClock)
	cart, err := New(rom, clock)
	if err != nil {
		t.Fatal(err)
	}
	return cart, clock
}

func wantPRG(t *testing.T, cart hw.Cartridge, addr uint16, want uint8) {
	t.Helper()

	if got := cart.ReadPRG(addr); got != want {
		t.Errorf("PRG[$%04X] = %d, want %d", addr, got, want)
	}
}

func wantCHR(t *testing.T, cart hw.Cartridge, addr uint16, want uint8) {
	t.Helper()

	if got := cart.ReadCHR(addr); got != want {
		t.Errorf("CHR[$%04X] = %d, want %d", addr, got, want)
	}
}

func TestUnsupportedMapper(t *testing.T) {
	rom := mkrom(t, 4, 2, 1, 0)
	_, err := New(rom, new(fakeClock))
	if err == nil || !strings.Contains(err.Error(), "unsupported mapper 4") {
		t.Fatalf("New() error = %v, want unsupported mapper", err)
	}
}

func TestNonPow2PRG(t *testing.T) {
	rom := mkrom(t, 0, 3, 1, 0)
	if _, err := New(rom, new(fakeClock)); err == nil {
		t.Fatal("New() should fail with 48k of PRG ROM")
	}
}

func TestNROM(t *testing.T) {
	t.Run("16k", func(t *testing.T) {
		cart, _ := load(t, mkrom(t, 0, 1, 1, 0))
		wantPRG(t, cart, 0x8000, 0)
		wantPRG(t, cart, 0xC000, 0)
		wantPRG(t, cart, 0xFFFF, 0)
	})
	t.Run("32k", func(t *testing.T) {
		cart, _ := load(t, mkrom(t, 0, 2, 1, 0))
		wantPRG(t, cart, 0x8000, 0)
		wantPRG(t, cart, 0xBFFF, 0)
		wantPRG(t, cart, 0xC000, 1)
		wantPRG(t, cart, 0xFFFF, 1)
	})
	t.Run("prg rom is read-only", func(t *testing.T) {
		cart, _ := load(t, mkrom(t, 0, 1, 1, 0))
		cart.WritePRG(0x8000, 0xAA)
		wantPRG(t, cart, 0x8000, 0)
	})
}

func TestPRGRAM(t *testing.T) {
	cart, _ := load(t, mkrom(t, 0, 1, 1, 0))
	cart.WriteRAM(0x6000, 0x12)
	cart.WriteRAM(0x7FFF, 0x34)
	if got := cart.ReadRAM(0x6000); got != 0x12 {
		t.Errorf("RAM[$6000] = %02X, want 12", got)
	}
	if got := cart.ReadRAM(0x7FFF); got != 0x34 {
		t.Errorf("RAM[$7FFF] = %02X, want 34", got)
	}
}

func TestTrainer(t *testing.T) {
	cart, _ := load(t, mkrom(t, 0, 1, 1, 0x04))
	for _, addr := range []uint16{0x7000, 0x71FF} {
		if got := cart.ReadRAM(addr); got != 0xEE {
			t.Errorf("RAM[$%04X] = %02X, want EE", addr, got)
		}
	}
	if got := cart.ReadRAM(0x7200); got != 0 {
		t.Errorf("RAM[$7200] = %02X, want 00", got)
	}
}

func TestCHRMemory(t *testing.T) {
	t.Run("rom", func(t *testing.T) {
		cart, _ := load(t, mkrom(t, 0, 1, 1, 0))
		wantCHR(t, cart, 0x0000, 0)
		wantCHR(t, cart, 0x1000, 1)
		cart.WriteCHR(0x0000, 0x55)
		wantCHR(t, cart, 0x0000, 0)
	})
	t.Run("ram", func(t *testing.T) {
		cart, _ := load(t, mkrom(t, 0, 1, 0, 0))
		cart.WriteCHR(0x0000, 0x55)
		cart.WriteCHR(0x1FFF, 0x66)
		wantCHR(t, cart, 0x0000, 0x55)
		wantCHR(t, cart, 0x1FFF, 0x66)
	})
}

func TestMirrorNametable(t *testing.T) {
	tests := []struct {
		name   string
		flags6 byte
		addrs  [4]uint16 // $2000, $2400, $2800, $2C00
	}{
		{"horizontal", 0x00, [4]uint16{0x000, 0x000, 0x400, 0x400}},
		{"vertical", 0x01, [4]uint16{0x000, 0x400, 0x000, 0x400}},
		{"four-screen falls back to vertical", 0x08, [4]uint16{0x000, 0x400, 0x000, 0x400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, _ := load(t, mkrom(t, 0, 1, 1, tt.flags6))
			for i, want := range tt.addrs {
				addr := 0x2000 + uint16(i)*0x400
				if got := cart.MirrorNametable(addr + 0x123); got != want+0x123 {
					t.Errorf("MirrorNametable($%04X) = $%03X, want $%03X", addr+0x123, got, want+0x123)
				}
			}
		})
	}
}

func TestUxROM(t *testing.T) {
	cart, _ := load(t, mkrom(t, 2, 4, 0, 0))
	wantPRG(t, cart, 0x8000, 0)
	wantPRG(t, cart, 0xC000, 3)

	cart.WritePRG(0x8000, 2)
	wantPRG(t, cart, 0x8000, 2)
	wantPRG(t, cart, 0xBFFF, 2)
	wantPRG(t, cart, 0xC000, 3)

	// Upper bits are ignored.
	cart.WritePRG(0xFFFF, 0xF1)
	wantPRG(t, cart, 0x8000, 1)
	wantPRG(t, cart, 0xFFFF, 3)
}

func TestCNROM(t *testing.T) {
	cart, _ := load(t, mkrom(t, 3, 2, 4, 0))
	wantCHR(t, cart, 0x0000, 0)
	wantCHR(t, cart, 0x1000, 1)

	cart.WritePRG(0x8000, 2)
	wantCHR(t, cart, 0x0000, 4)
	wantCHR(t, cart, 0x1FFF, 5)

	// Bank numbers wrap around the CHR size.
	cart.WritePRG(0x8000, 7)
	wantCHR(t, cart, 0x0000, 6)

	// PRG is fixed.
	wantPRG(t, cart, 0x8000, 0)
	wantPRG(t, cart, 0xC000, 1)
}

func TestAxROM(t *testing.T) {
	cart, _ := load(t, mkrom(t, 7, 8, 0, 0))
	wantPRG(t, cart, 0x8000, 0)
	wantPRG(t, cart, 0xC000, 1)
	if got := cart.MirrorNametable(0x2C00); got != 0 {
		t.Errorf("MirrorNametable($2C00) = $%03X, want $000", got)
	}

	cart.WritePRG(0x8000, 0x12)
	wantPRG(t, cart, 0x8000, 4)
	wantPRG(t, cart, 0xC000, 5)
	for _, addr := range []uint16{0x2000, 0x2400, 0x2800, 0x2C00} {
		if got := cart.MirrorNametable(addr); got != 0x400 {
			t.Errorf("MirrorNametable($%04X) = $%03X, want $400", addr, got)
		}
	}
}

// mmc1Write performs the 5 serial writes loading val in the register
// selected by addr.
func mmc1Write(cart hw.Cartridge, clock *fakeClock, addr uint16, val uint8) {
	for i := range 5 {
		clock.advance(4)
		cart.WritePRG(addr, (val>>i)&1)
	}
}

func TestMMC1PowerUp(t *testing.T) {
	cart, _ := load(t, mkrom(t, 1, 8, 2, 0))
	wantPRG(t, cart, 0x8000, 0)
	wantPRG(t, cart, 0xC000, 7)
}

func TestMMC1PRGModes(t *testing.T) {
	cart, clock := load(t, mkrom(t, 1, 8, 2, 0))

	// Mode 3: switch $8000, fix last bank at $C000.
	mmc1Write(cart, clock, 0xE000, 5)
	wantPRG(t, cart, 0x8000, 5)
	wantPRG(t, cart, 0xC000, 7)

	// Mode 2: fix first bank at $8000, switch $C000.
	mmc1Write(cart, clock, 0x8000, 0x08)
	wantPRG(t, cart, 0x8000, 0)
	wantPRG(t, cart, 0xC000, 5)

	// Mode 0: 32k, low bit ignored.
	mmc1Write(cart, clock, 0x8000, 0x00)
	wantPRG(t, cart, 0x8000, 4)
	wantPRG(t, cart, 0xC000, 5)
}

func TestMMC1CHRModes(t *testing.T) {
	cart, clock := load(t, mkrom(t, 1, 2, 4, 0))

	// 8k mode, low bit ignored.
	mmc1Write(cart, clock, 0xA000, 3)
	wantCHR(t, cart, 0x0000, 2)
	wantCHR(t, cart, 0x1000, 3)

	// 4k mode.
	mmc1Write(cart, clock, 0x8000, 0x1C)
	mmc1Write(cart, clock, 0xA000, 5)
	mmc1Write(cart, clock, 0xC000, 1)
	wantCHR(t, cart, 0x0000, 5)
	wantCHR(t, cart, 0x1000, 1)
}

func TestMMC1Mirroring(t *testing.T) {
	tests := []struct {
		ctrl uint8
		want [4]uint16
	}{
		{0x0C, [4]uint16{0x000, 0x000, 0x000, 0x000}},
		{0x0D, [4]uint16{0x400, 0x400, 0x400, 0x400}},
		{0x0E, [4]uint16{0x000, 0x400, 0x000, 0x400}},
		{0x0F, [4]uint16{0x000, 0x000, 0x400, 0x400}},
	}
	cart, clock := load(t, mkrom(t, 1, 2, 1, 0))
	for _, tt := range tests {
		mmc1Write(cart, clock, 0x8000, tt.ctrl)
		for i, want := range tt.want {
			addr := 0x2000 + uint16(i)*0x400
			if got := cart.MirrorNametable(addr); got != want {
				t.Errorf("ctrl=%02X: MirrorNametable($%04X) = $%03X, want $%03X", tt.ctrl, addr, got, want)
			}
		}
	}
}

func TestMMC1ConsecutiveWrites(t *testing.T) {
	cart, clock := load(t, mkrom(t, 1, 8, 1, 0))

	// The second write of a read-modify-write pair is dropped, so it takes
	// 5 more proper writes to load the register.
	clock.advance(10)
	cart.WritePRG(0xE000, 1)
	clock.advance(1)
	cart.WritePRG(0xE000, 1)
	for range 4 {
		clock.advance(4)
		cart.WritePRG(0xE000, 0)
	}
	wantPRG(t, cart, 0x8000, 1)
}

func TestMMC1ResetBit(t *testing.T) {
	cart, clock := load(t, mkrom(t, 1, 8, 1, 0))

	mmc1Write(cart, clock, 0x8000, 0x08)
	mmc1Write(cart, clock, 0xE000, 2)
	wantPRG(t, cart, 0x8000, 0)
	wantPRG(t, cart, 0xC000, 2)

	// Partial load then reset: the shift register is cleared and mode 3 is
	// restored.
	clock.advance(4)
	cart.WritePRG(0xE000, 1)
	clock.advance(4)
	cart.WritePRG(0xE000, 1)
	clock.advance(4)
	cart.WritePRG(0x8000, 0x80)
	wantPRG(t, cart, 0x8000, 2)
	wantPRG(t, cart, 0xC000, 7)

	mmc1Write(cart, clock, 0xE000, 3)
	wantPRG(t, cart, 0x8000, 3)
}

func TestMMC1WRAMDisable(t *testing.T) {
	cart, clock := load(t, mkrom(t, 1, 2, 1, 0))
	cart.WriteRAM(0x6000, 0x42)

	mmc1Write(cart, clock, 0xE000, 0x10)
	if got := cart.ReadRAM(0x6000); got != 0 {
		t.Errorf("RAM[$6000] = %02X with WRAM disabled, want 00", got)
	}
	cart.WriteRAM(0x6000, 0x99)

	mmc1Write(cart, clock, 0xE000, 0x00)
	if got := cart.ReadRAM(0x6000); got != 0x42 {
		t.Errorf("RAM[$6000] = %02X, want 42", got)
	}
}
