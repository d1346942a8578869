// Package input maps the keyboard to the buttons of the standard
// controllers.
package input

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"famicore/hw"
)

// Config maps keys to the paddles plugged in ports 1 and 2.
type Config struct {
	Paddles []PaddleConfig `toml:"paddles"`
}

// PaddleConfig holds the mapping configuration of a paddle. Buttons are
// keyed by their name: A, B, Select, Start, Up, Down, Left, Right.
type PaddleConfig struct {
	Plugged bool            `toml:"plugged"`
	Buttons map[string]Code `toml:"buttons"`
}

// DefaultConfig plugs a single paddle mapped on the arrow keys.
func DefaultConfig() Config {
	key := func(sc sdl.Scancode) Code { return Code{Scancode: sc} }
	return Config{
		Paddles: []PaddleConfig{
			{
				Plugged: true,
				Buttons: map[string]Code{
					"A":      key(sdl.SCANCODE_X),
					"B":      key(sdl.SCANCODE_Z),
					"Select": key(sdl.SCANCODE_RSHIFT),
					"Start":  key(sdl.SCANCODE_RETURN),
					"Up":     key(sdl.SCANCODE_UP),
					"Down":   key(sdl.SCANCODE_DOWN),
					"Left":   key(sdl.SCANCODE_LEFT),
					"Right":  key(sdl.SCANCODE_RIGHT),
				},
			},
		},
	}
}

// Check verifies that there are at most 2 paddles and that all button
// names are valid.
func (cfg *Config) Check() error {
	if len(cfg.Paddles) > 2 {
		return fmt.Errorf("too many paddles: %d", len(cfg.Paddles))
	}
	for i, pad := range cfg.Paddles {
		for name := range pad.Buttons {
			if _, ok := hw.ButtonByName(name); !ok {
				return fmt.Errorf("paddle %d: unknown button %q", i+1, name)
			}
		}
	}
	return nil
}

type binding struct {
	scancode sdl.Scancode
	mask     uint8
}

// Provider computes the state of the controllers from the keyboard state.
type Provider struct {
	keys [2][]binding
}

// NewProvider creates a provider from a checked config. Unknown buttons
// and unset keys are ignored.
func NewProvider(cfg Config) *Provider {
	var p Provider
	for i, pad := range cfg.Paddles {
		if i >= len(p.keys) {
			break
		}
		if !pad.Plugged {
			continue
		}
		for name, code := range pad.Buttons {
			mask, ok := hw.ButtonByName(name)
			if !ok || !code.IsSet() {
				continue
			}
			p.keys[i] = append(p.keys[i], binding{code.Scancode, mask})
		}
	}
	return &p
}

// State returns the buttons state of both paddles, given the keyboard
// state as returned by sdl.GetKeyboardState.
func (p *Provider) State(keystate []uint8) [2]uint8 {
	var state [2]uint8
	for i, keys := range p.keys {
		for _, b := range keys {
			if int(b.scancode) < len(keystate) && keystate[b.scancode] != 0 {
				state[i] |= b.mask
			}
		}
	}
	return state
}
