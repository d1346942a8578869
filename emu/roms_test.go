package emu

import (
	"bytes"
	"path/filepath"
	"testing"

	"famicore/hw/hwdefs"
	"famicore/ines"
	"famicore/tests"
)

func TestNestest(t *testing.T) {
	romPath := filepath.Join(tests.RomsPath(t), "other", "nestest.nes")
	rom, err := ines.Open(romPath)
	if err != nil {
		t.Fatal(err)
	}
	nes, err := PowerUp(rom, 44100, nil)
	if err != nil {
		t.Fatal(err)
	}

	// nestest.nes rom has an 'automation' mode. To enable it,
	// PC must be set to C000 (instead of C004 for graphic mode).
	// The final RTS is at $C66E.
	nes.CPU.PC = 0xC000
	for nes.CPU.PC != 0xC66E {
		if nes.CPU.IsHalted() || nes.CPU.TotalCycles > 30000 {
			t.Fatalf("nestest did not complete, PC=$%04X", nes.CPU.PC)
		}
		nes.CPU.Step()
	}

	if code := nes.Bus.Peek8(0x02); code != 0 {
		t.Errorf("official opcodes test failed with code 0x%02x (check nestest.txt)", code)
	}
	if code := nes.Bus.Peek8(0x03); code != 0 {
		t.Errorf("unofficial opcodes test failed with code 0x%02x (check nestest.txt)", code)
	}
}

func TestInstructionsV5(t *testing.T) {
	dir := filepath.Join(tests.RomsPath(t), "instr_test-v5", "rom_singles")
	files := []string{
		"01-basics.nes",
		"02-implied.nes",
		// "03-immediate.nes", uses unofficial 0xAB (LXA)
		"04-zero_page.nes",
		"05-zp_xy.nes",
		"06-absolute.nes",
		// "07-abs_xy.nes", uses unofficial 0x9C (SHY)
		"08-ind_x.nes",
		"09-ind_y.nes",
		"10-branches.nes",
		"11-stack.nes",
		"12-jmp_jsr.nes",
		"13-rts.nes",
		"14-rti.nes",
		"15-brk.nes",
		"16-special.nes",
	}

	for _, path := range files {
		t.Run(path, runTestRom(filepath.Join(dir, path)))
	}
}

// runTestRom runs a blargg test rom, reporting through PRG RAM.
//
// The test status is written to $6000. $80 means the test is running, $81
// means the test needs the reset button pressed, but delayed by at least 100
// msec from now. $00-$7F means the test has completed and given that result
// code. $DE $B0 $61 is written to $6001-$6003 once the data at $6000 is
// valid. Text output is written starting at $6004, zero terminated.
func runTestRom(path string) func(t *testing.T) {
	return func(t *testing.T) {
		rom, err := ines.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		nes, err := PowerUp(rom, 44100, nil)
		if err != nil {
			t.Fatal(err)
		}

		magic := []byte{0xDE, 0xB0, 0x61}
		var (
			frame    Frame
			magicset bool
			result   uint8
		)

		const maxFrames = 60 * 60
		for i := 0; ; i++ {
			if i == maxFrames {
				t.Fatalf("test did not complete in %d frames", maxFrames)
			}
			nes.RunOneFrame(frame.Pixels[:])
			if nes.CPU.IsHalted() {
				t.Fatalf("CPU halted at $%04X", nes.CPU.PC)
			}

			data := []byte{nes.Bus.Peek8(0x6001), nes.Bus.Peek8(0x6002), nes.Bus.Peek8(0x6003)}
			if !magicset {
				magicset = bytes.Equal(data, magic)
				continue
			}
			// Once magic bytes have been written, they must not be overwritten.
			if !bytes.Equal(data, magic) {
				t.Fatalf("corrupted memory")
			}

			result = nes.Bus.Peek8(0x6000)
			if result <= 0x7F {
				break
			}
			if result == 0x81 {
				for range 6 {
					nes.RunOneFrame(frame.Pixels[:])
				}
				nes.Reset(hwdefs.SoftReset)
			}
		}
		if result != 0x00 {
			t.Fatalf("test failed:\ncode 0x%02x\ntext %s", result, memToString(nes, 0x6004))
		}
	}
}

func memToString(nes *NES, addr uint16) string {
	var buf []byte
	for ; addr < 0x8000; addr++ {
		c := nes.Bus.Peek8(addr)
		if c == 0 {
			break
		}
		buf = append(buf, c)
	}
	return string(buf)
}
