package input

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"github.com/veandco/go-sdl2/sdl"

	"famicore/hw"
)

func TestInputCodeMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		text string
		code *Code // nil for unmarshal errors
	}{
		{"", &Code{Scancode: sdl.SCANCODE_UNKNOWN}},
		{"key W", &Code{Scancode: sdl.SCANCODE_W}},
		{"key Up", &Code{Scancode: sdl.SCANCODE_UP}},
		{"key Return", &Code{Scancode: sdl.SCANCODE_RETURN}},
		{"key Right Shift", &Code{Scancode: sdl.SCANCODE_RSHIFT}},

		// unmarshal errors
		{"key   ", nil},
		{"key NotAKey", nil},
		{"foocode Return", nil},
		{"joybtn a 030000004c050000cc0900", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var code Code
			if err := code.UnmarshalText([]byte(tt.text)); err != nil {
				if tt.code != nil {
					t.Fatalf("UnmarshalText(%q) error: %v", tt.text, err)
				}
				return
			}
			if tt.code == nil {
				t.Fatalf("UnmarshalText(%q) should fail", tt.text)
			}

			if diff := cmp.Diff(*tt.code, code); diff != "" {
				t.Fatalf("UnmarshalText(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}

			text, err := code.MarshalText()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.text, string(text)); diff != "" {
				t.Fatalf("MarshalText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigDecode(t *testing.T) {
	const doc = `
[[paddles]]
plugged = true
[paddles.buttons]
A = "key K"
Start = "key Space"

[[paddles]]
plugged = true
[paddles.buttons]
B = "key J"
`
	var cfg Config
	if _, err := toml.Decode(doc, &cfg); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Check(); err != nil {
		t.Fatal(err)
	}

	p := NewProvider(cfg)
	keystate := make([]uint8, sdl.NUM_SCANCODES)
	keystate[sdl.SCANCODE_K] = 1
	keystate[sdl.SCANCODE_SPACE] = 1
	keystate[sdl.SCANCODE_J] = 1

	want := [2]uint8{hw.ButtonA | hw.ButtonStart, hw.ButtonB}
	if got := p.State(keystate); got != want {
		t.Errorf("State() = %08b, want %08b", got, want)
	}
}

func TestConfigCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paddles = append(cfg.Paddles, PaddleConfig{
		Plugged: true,
		Buttons: map[string]Code{"Turbo": {Scancode: sdl.SCANCODE_T}},
	})
	if err := cfg.Check(); err == nil {
		t.Fatal("Check() should reject unknown button names")
	}

	cfg = DefaultConfig()
	cfg.Paddles = append(cfg.Paddles, PaddleConfig{}, PaddleConfig{})
	if err := cfg.Check(); err == nil {
		t.Fatal("Check() should reject a third paddle")
	}
}

func TestUnpluggedPaddle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paddles[0].Plugged = false

	keystate := make([]uint8, sdl.NUM_SCANCODES)
	keystate[sdl.SCANCODE_X] = 1
	if got := NewProvider(cfg).State(keystate); got != [2]uint8{} {
		t.Errorf("State() = %v, want no buttons", got)
	}
}
