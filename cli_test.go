package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"famicore/emu/log"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()

	parser, err := kong.New(cli, kong.Name("famicore"), vars, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatal(err)
	}
	return parser
}

func TestParseRun(t *testing.T) {
	rom := filepath.Join(t.TempDir(), "game.nes")
	if err := os.WriteFile(rom, []byte("NES\x1a"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want RunArgs
	}{
		{
			name: "explicit run",
			args: []string{"run", rom},
			want: RunArgs{RomPath: rom},
		},
		{
			name: "default command",
			args: []string{rom, "--frames=10"},
			want: RunArgs{RomPath: rom, Frames: 10},
		},
		{
			name: "headless outputs",
			args: []string{"run", "--headless", "--frames=3", "--scale=2", "--screenshot=/tmp/a.png", "--wav=/tmp/a.wav", rom},
			want: RunArgs{RomPath: rom, Frames: 3, Headless: true, Scale: 2, Screenshot: "/tmp/a.png", WAV: "/tmp/a.wav"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli CLI
			if _, err := newParser(t, &cli).Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, cli.Run); diff != "" {
				t.Errorf("parsed args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLogModules(t *testing.T) {
	tests := []struct {
		list    string
		want    log.ModuleMask
		off     bool
		wantErr bool
	}{
		{list: "cpu,ppu", want: log.ModCPU.Mask() | log.ModPPU.Mask()},
		{list: "sound, mapper", want: log.ModSound.Mask() | mustModule(t, "mapper").Mask()},
		{list: "all", want: log.ModuleMaskAll},
		{list: "no", off: true},
		{list: "no,cpu", wantErr: true},
		{list: "all,no", wantErr: true},
		{list: "foo", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			mask, off, err := parseLogModules(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogModules(%q) error = %v, wantErr %t", tt.list, err, tt.wantErr)
			}
			if mask != tt.want || off != tt.off {
				t.Errorf("parseLogModules(%q) = %x, %t, want %x, %t", tt.list, mask, off, tt.want, tt.off)
			}
		})
	}
}

func TestLogFlagDecode(t *testing.T) {
	var cli CLI
	if _, err := newParser(t, &cli).Parse([]string{"version", "--log", "cpu,foo"}); err == nil {
		t.Fatal("unknown log module should fail parsing")
	}
	if _, err := newParser(t, &cli).Parse([]string{"version", "--log", "cpu,mem"}); err != nil {
		t.Fatal(err)
	}
	if want := log.ModCPU.Mask() | log.ModMem.Mask(); cli.Log.mask != want {
		t.Errorf("log mask = %x, want %x", cli.Log.mask, want)
	}
}

func mustModule(t *testing.T, name string) log.Module {
	t.Helper()

	mod, ok := log.ModuleByName(name)
	if !ok {
		t.Fatalf("no log module named %q", name)
	}
	return mod
}
