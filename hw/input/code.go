package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// A Code identifies a keyboard key by its SDL scancode. Codes are written
// as "key <scancode name>" in the configuration file, for example "key Up"
// or "key Right Shift".
type Code struct {
	Scancode sdl.Scancode
}

// IsSet reports whether the code maps a key.
func (mc Code) IsSet() bool {
	return mc.Scancode != sdl.SCANCODE_UNKNOWN
}

// Name returns an user-friendly name for the input code.
func (mc Code) Name() string {
	if !mc.IsSet() {
		return ""
	}
	return sdl.GetScancodeName(mc.Scancode)
}

func (mc Code) MarshalText() ([]byte, error) {
	if !mc.IsSet() {
		return []byte{}, nil
	}
	return []byte("key " + mc.Name()), nil
}

func (mc *Code) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		mc.Scancode = sdl.SCANCODE_UNKNOWN
		return nil
	}

	name, ok := strings.CutPrefix(s, "key ")
	if !ok {
		return fmt.Errorf("unrecognized input code: %s", s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("malformed key code: %q", s)
	}

	mc.Scancode = sdl.GetScancodeFromName(name)
	if mc.Scancode == sdl.SCANCODE_UNKNOWN {
		return fmt.Errorf("unrecognized scancode %q", name)
	}
	return nil
}
