package ines

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"famicore/tests"
)

// mkrom builds an image with the given header flags and bank counts. PRG
// banks are filled with their index, CHR banks with 0x80|index.
func mkrom(prg, chr int, flags6, flags7 byte) []byte {
	hdr := []byte{'N', 'E', 'S', 0x1a, byte(prg), byte(chr), flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := bytes.NewBuffer(hdr)
	if flags6&0x04 != 0 {
		buf.Write(bytes.Repeat([]byte{0xEE}, trainerSize))
	}
	for i := range prg {
		buf.Write(bytes.Repeat([]byte{byte(i)}, PRGBankSize))
	}
	for i := range chr {
		buf.Write(bytes.Repeat([]byte{0x80 | byte(i)}, CHRBankSize))
	}
	return buf.Bytes()
}

func TestReadFrom(t *testing.T) {
	tests := []struct {
		name      string
		img       []byte
		mapper    uint16
		mirroring NTMirroring
		prglen    int
		chrlen    int
		trainer   bool
		nes20     bool
	}{
		{
			name:      "nrom horizontal",
			img:       mkrom(1, 1, 0x00, 0x00),
			mapper:    0,
			mirroring: HorzMirroring,
			prglen:    PRGBankSize,
			chrlen:    CHRBankSize,
		},
		{
			name:      "mmc1 vertical",
			img:       mkrom(8, 2, 0x11, 0x00),
			mapper:    1,
			mirroring: VertMirroring,
			prglen:    8 * PRGBankSize,
			chrlen:    2 * CHRBankSize,
		},
		{
			name:      "high nibble",
			img:       mkrom(2, 0, 0x20, 0x40),
			mapper:    0x42,
			mirroring: HorzMirroring,
			prglen:    2 * PRGBankSize,
			chrlen:    0,
		},
		{
			name:      "trainer",
			img:       mkrom(1, 1, 0x04, 0x00),
			mapper:    0,
			mirroring: HorzMirroring,
			prglen:    PRGBankSize,
			chrlen:    CHRBankSize,
			trainer:   true,
		},
		{
			name:      "trailing data",
			img:       append(mkrom(1, 1, 0x00, 0x00), "title"...),
			mapper:    0,
			mirroring: HorzMirroring,
			prglen:    PRGBankSize,
			chrlen:    CHRBankSize,
		},
		{
			name:      "nes 2.0",
			img:       mkrom(2, 1, 0x70, 0x08),
			mapper:    7,
			mirroring: HorzMirroring,
			prglen:    2 * PRGBankSize,
			chrlen:    CHRBankSize,
			nes20:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rom Rom
			n, err := rom.ReadFrom(bytes.NewReader(tt.img))
			if err != nil {
				t.Fatal(err)
			}
			if n != int64(len(tt.img)) {
				t.Errorf("ReadFrom() = %d, want %d", n, len(tt.img))
			}
			if got := rom.Mapper(); got != tt.mapper {
				t.Errorf("Mapper() = %d, want %d", got, tt.mapper)
			}
			if got := rom.Mirroring(); got != tt.mirroring {
				t.Errorf("Mirroring() = %s, want %s", got, tt.mirroring)
			}
			if len(rom.PRGROM) != tt.prglen {
				t.Errorf("len(PRGROM) = %d, want %d", len(rom.PRGROM), tt.prglen)
			}
			if len(rom.CHRROM) != tt.chrlen {
				t.Errorf("len(CHRROM) = %d, want %d", len(rom.CHRROM), tt.chrlen)
			}
			if rom.HasTrainer() != tt.trainer || (len(rom.Trainer) == trainerSize) != tt.trainer {
				t.Errorf("trainer = %t (len %d), want %t", rom.HasTrainer(), len(rom.Trainer), tt.trainer)
			}
			if rom.IsNES20() != tt.nes20 {
				t.Errorf("IsNES20() = %t, want %t", rom.IsNES20(), tt.nes20)
			}
			if rom.PRGROM[0] != 0 || rom.PRGROM[len(rom.PRGROM)-1] != byte(rom.PRGBanks()-1) {
				t.Errorf("PRGROM content is misplaced")
			}
		})
	}
}

func TestReadFromErrors(t *testing.T) {
	valid := mkrom(2, 1, 0, 0)
	tests := []struct {
		name string
		img  []byte
		want error
	}{
		{"short header", valid[:10], ErrTruncated},
		{"bad magic", append([]byte("NES\x00"), valid[4:]...), ErrMagic},
		{"short PRG", valid[:headerSize+PRGBankSize], ErrTruncated},
		{"short CHR", valid[:len(valid)-1], ErrTruncated},
		{"short trainer", mkrom(1, 1, 0x04, 0)[:headerSize+100], ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rom Rom
			_, err := rom.ReadFrom(bytes.NewReader(tt.img))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadFrom() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDiskDudeHeader(t *testing.T) {
	img := mkrom(1, 1, 0x10, 0x44)
	copy(img[7:16], "DiskDude!")

	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(img)); err != nil {
		t.Fatal(err)
	}
	if got := rom.Mapper(); got != 1 {
		t.Errorf("Mapper() = %d, want 1", got)
	}
}

func TestPrintInfos(t *testing.T) {
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(mkrom(2, 0, 0x13, 0))); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	rom.PrintInfos(&sb)
	want := `mapper:     1
PRG ROM:    2 x 16KB
CHR:        8KB RAM
mirroring:  vertical
battery:    true
trainer:    false
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("PrintInfos mismatch (-want +got):\n%s", diff)
	}
}

func TestRomOpen(t *testing.T) {
	dir := filepath.Join(tests.RomsPath(t), "instr_test-v5", "rom_singles")
	for _, path := range []string{"01-basics.nes", "15-brk.nes", "16-special.nes"} {
		t.Run(path, func(t *testing.T) {
			rom, err := Open(filepath.Join(dir, path))
			if err != nil {
				t.Fatal(err)
			}
			if rom.Mapper() != 1 {
				t.Errorf("Mapper() = %d, want 1", rom.Mapper())
			}
		})
	}
}
