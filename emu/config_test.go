package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), cfgFilename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    func(*Config)
		wantErr bool
	}{
		{
			name:    "empty",
			content: "",
			want:    func(*Config) {},
		},
		{
			name: "partial",
			content: `
[video]
scale = 2
[audio]
disable_audio = true
`,
			want: func(cfg *Config) {
				cfg.Video.Scale = 2
				cfg.Audio.DisableAudio = true
			},
		},
		{
			name: "out of range values",
			content: `
[video]
scale = 100
[audio]
sample_rate = 12
`,
			want: func(*Config) {},
		},
		{
			name: "unknown button",
			content: `
[[input.paddles]]
plugged = true
[input.paddles.buttons]
Turbo = "key T"
`,
			wantErr: true,
		},
		{
			name:    "malformed",
			content: `[video`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(writeConfig(t, tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatal("LoadConfig() should fail")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			want := DefaultConfig()
			tt.want(&want)
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	cfg := DefaultConfig()
	cfg.Video.Scale = 4
	cfg.Audio.SampleRate = 48000
	if err := SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	got := LoadConfigOrDefault()
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config round trip mismatch (-want +got):\n%s", diff)
	}
}
