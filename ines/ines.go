// Package ines decodes cartridge images in the iNES container format, the
// de-facto distribution format of NES programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	Magic       = "NES\x1a"
	headerSize  = 16
	trainerSize = 512

	PRGBankSize = 16 * 1024
	CHRBankSize = 8 * 1024
)

// NTMirroring is a nametable mirroring arrangement.
type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota // $2000=$2400, $2800=$2C00
	VertMirroring                    // $2000=$2800, $2400=$2C00
	OnlyAScreen                      // single screen, lower bank
	OnlyBScreen                      // single screen, upper bank
	FourScreen
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case OnlyAScreen:
		return "single-screen A"
	case OnlyBScreen:
		return "single-screen B"
	case FourScreen:
		return "four-screen"
	}
	return fmt.Sprintf("NTMirroring(%d)", uint8(m))
}

var (
	ErrMagic     = errors.New("invalid magic number")
	ErrTruncated = errors.New("truncated image")
)

// Rom is a decoded cartridge image.
type Rom struct {
	header
	Trainer []byte // 512 bytes if present, or empty.
	PRGROM  []byte // multiple of 16k
	CHRROM  []byte // multiple of 8k, empty for boards with CHR RAM
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	n := int64(len(buf))
	if err != nil {
		return n, err
	}

	if err := rom.decode(buf); err != nil {
		return n, fmt.Errorf("failed to decode header: %w", err)
	}
	off := headerSize

	if rom.HasTrainer() {
		if len(buf) < off+trainerSize {
			return n, fmt.Errorf("trainer section: %w", ErrTruncated)
		}
		rom.Trainer = buf[off : off+trainerSize]
		off += trainerSize
	}

	if len(buf) < off+rom.prgsz {
		return n, fmt.Errorf("PRG section: %w", ErrTruncated)
	}
	rom.PRGROM = buf[off : off+rom.prgsz]
	off += rom.prgsz

	if len(buf) < off+rom.chrsz {
		return n, fmt.Errorf("CHR section: %w", ErrTruncated)
	}
	rom.CHRROM = buf[off : off+rom.chrsz]

	// Some dumps carry trailing data (title, padding), it's consumed and
	// ignored.
	return n, nil
}

type header struct {
	raw   [headerSize]byte
	prgsz int
	chrsz int
}

func (hdr *header) decode(p []byte) error {
	if len(p) < headerSize {
		return fmt.Errorf("need %d bytes: %w", headerSize, ErrTruncated)
	}
	if string(p[:4]) != Magic {
		return ErrMagic
	}
	copy(hdr.raw[:], p[:headerSize])

	hdr.prgsz = int(hdr.raw[4]) * PRGBankSize
	hdr.chrsz = int(hdr.raw[5]) * CHRBankSize
	if hdr.prgsz == 0 {
		return errors.New("no PRG ROM")
	}
	return nil
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of battery-backed PRG RAM.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// IsNES20 reports whether the header follows the NES 2.0 extension.
func (hdr *header) IsNES20() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// Mapper returns the iNES mapper number.
//
// Headers written by old tools often have garbage in bytes 7-15 (the
// "DiskDude!" signature being the common case). For those the upper nibble
// of the mapper number is ignored.
func (hdr *header) Mapper() uint16 {
	lo := uint16(hdr.raw[6] >> 4)
	if !hdr.IsNES20() && string(hdr.raw[12:16]) != "\x00\x00\x00\x00" {
		return lo
	}
	hi := uint16(hdr.raw[7] & 0xF0)
	if hdr.IsNES20() {
		hi |= uint16(hdr.raw[8]&0x0F) << 8
	}
	return hi | lo
}

// SubMapper returns the NES 2.0 submapper number, or 0.
func (hdr *header) SubMapper() uint8 {
	if !hdr.IsNES20() {
		return 0
	}
	return hdr.raw[8] >> 4
}

// Mirroring returns the hardwired nametable mirroring.
func (hdr *header) Mirroring() NTMirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return VertMirroring
	}
	return HorzMirroring
}

// PRGBanks returns the number of 16k PRG ROM banks.
func (hdr *header) PRGBanks() int { return int(hdr.raw[4]) }

// CHRBanks returns the number of 8k CHR ROM banks (0 means CHR RAM).
func (hdr *header) CHRBanks() int { return int(hdr.raw[5]) }

// Header returns the raw 16 bytes header.
func (hdr *header) Header() [headerSize]byte { return hdr.raw }

// PrintInfos writes a human-readable summary of the rom header to w.
func (rom *Rom) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "mapper:     %d", rom.Mapper())
	if rom.IsNES20() {
		fmt.Fprintf(w, " (submapper %d, NES 2.0)", rom.SubMapper())
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "PRG ROM:    %d x 16KB\n", rom.PRGBanks())
	if rom.CHRBanks() == 0 {
		fmt.Fprintln(w, "CHR:        8KB RAM")
	} else {
		fmt.Fprintf(w, "CHR ROM:    %d x 8KB\n", rom.CHRBanks())
	}
	fmt.Fprintf(w, "mirroring:  %s\n", rom.Mirroring())
	fmt.Fprintf(w, "battery:    %t\n", rom.HasPersistent())
	fmt.Fprintf(w, "trainer:    %t\n", rom.HasTrainer())
}
