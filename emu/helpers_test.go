package emu

import (
	"bytes"
	"testing"

	"famicore/emu/log"
	"famicore/ines"
)

func init() {
	log.Disable()
}

// nromImage builds a 16k NROM image with prg at $8000 and the reset vector
// pointing at $8000.
func nromImage(prg ...byte) []byte {
	img := []byte{'N', 'E', 'S', 0x1a, 1, 1, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	bank := make([]byte, ines.PRGBankSize)
	copy(bank, prg)
	bank[0x3FFC] = 0x00
	bank[0x3FFD] = 0x80
	img = append(img, bank...)
	return append(img, make([]byte, ines.CHRBankSize)...)
}

func loadROM(tb testing.TB, img []byte) *ines.Rom {
	tb.Helper()

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		tb.Fatal(err)
	}
	return rom
}

// A program enabling rendering then looping forever.
var loopPRG = []byte{
	0xA9, 0x1E, // LDA #$1E
	0x8D, 0x01, 0x20, // STA $2001
	0x4C, 0x05, 0x80, // JMP $8005
}

// A program writing a square wave to the audio unit then looping forever.
var squarePRG = []byte{
	0xA9, 0x01, // LDA #$01
	0x8D, 0x15, 0x40, // STA $4015
	0xA9, 0xBF, // LDA #$BF
	0x8D, 0x00, 0x40, // STA $4000
	0xA9, 0xFD, // LDA #$FD
	0x8D, 0x02, 0x40, // STA $4002
	0xA9, 0x08, // LDA #$08
	0x8D, 0x03, 0x40, // STA $4003
	0x4C, 0x14, 0x80, // JMP $8014
}

type sampleCounter struct {
	n       int
	nonZero bool
}

func (s *sampleCounter) WriteSamples(samples []int16) {
	s.n += len(samples)
	for _, v := range samples {
		if v != 0 {
			s.nonZero = true
		}
	}
}
