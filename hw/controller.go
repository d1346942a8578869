package hw

import "famicore/emu/log"

// Standard controller buttons, in shift order.
const (
	ButtonA uint8 = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = [8]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

// ButtonByName returns the button mask for a button name, as used in the
// configuration file.
func ButtonByName(name string) (uint8, bool) {
	for i, n := range buttonNames {
		if n == name {
			return 1 << i, true
		}
	}
	return 0, false
}

// Controller is the pair of standard controllers plugged into the console.
type Controller struct {
	strobe  bool
	buttons [2]uint8 // current state, set by the frontend
	shift   [2]uint8 // shift registers
}

// SetButtons sets the state of the buttons of a controller port (0 or 1).
func (c *Controller) SetButtons(port int, buttons uint8) {
	c.buttons[port] = buttons
	if c.strobe {
		c.shift[port] = buttons
	}
}

// Write handles a write to $4016.
func (c *Controller) Write(val uint8) {
	c.strobe = val&1 != 0
	if c.strobe {
		c.shift = c.buttons
	}
	log.ModInput.DebugZ("write strobe").Bool("strobe", c.strobe).End()
}

// Read returns the next bit of a controller port (0 or 1). While strobe is
// high, it returns the state of the A button. After 8 reads, it returns 1s.
func (c *Controller) Read(port int) uint8 {
	if c.strobe {
		return c.buttons[port] & 1
	}
	bit := c.shift[port] & 1
	c.shift[port] = c.shift[port]>>1 | 0x80
	return bit
}
