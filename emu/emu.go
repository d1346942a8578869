package emu

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/hw/hwdefs"
)

// ErrHalted is returned by Run when the CPU executed a halting opcode.
var ErrHalted = errors.New("CPU halted")

// Frame is a completed picture, in ARGB format.
type Frame struct {
	Pixels [hw.ScreenWidth * hw.ScreenHeight]uint32
	Number int
}

type Emulator struct {
	NES *NES

	frames  chan *Frame
	pool    sync.Pool
	buttons chan [2]uint8

	maxFrames int

	// These are accessed concurrently by the emulator loop and the UI.
	quit    atomic.Bool
	paused  atomic.Bool
	reset   atomic.Bool
	restart atomic.Bool
}

// New creates an emulator driving nes. If maxFrames is positive, the
// emulation stops after that many frames.
func New(nes *NES, maxFrames int) *Emulator {
	return &Emulator{
		NES:       nes,
		frames:    make(chan *Frame, 1),
		pool:      sync.Pool{New: func() any { return new(Frame) }},
		buttons:   make(chan [2]uint8, 1),
		maxFrames: maxFrames,
	}
}

// Frames returns the channel on which completed frames are sent. It is
// closed when Run returns. Frames should be given back with Release once
// consumed.
func (e *Emulator) Frames() <-chan *Frame { return e.frames }

// Release gives a frame back to the emulator.
func (e *Emulator) Release(f *Frame) { e.pool.Put(f) }

// SetButtons sets the state of both controllers. The state is applied
// before the next frame. Only the most recent state is kept.
func (e *Emulator) SetButtons(buttons [2]uint8) {
	for {
		select {
		case e.buttons <- buttons:
			return
		default:
		}
		select {
		case <-e.buttons:
		default:
		}
	}
}

// Run runs the emulation loop until ctx is done, Stop is called, the frame
// count is reached or the CPU halts.
func (e *Emulator) Run(ctx context.Context) error {
	defer close(e.frames)

	nframes := 0
	for e.maxFrames <= 0 || nframes < e.maxFrames {
		if ctx.Err() != nil || e.quit.Load() {
			break
		}
		e.handleReset()
		e.applyButtons()

		// Don't burn cpu while paused.
		if e.paused.Load() {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		frame := e.pool.Get().(*Frame)
		if !e.NES.RunOneFrame(frame.Pixels[:]) {
			e.pool.Put(frame)
		} else {
			frame.Number = nframes
			nframes++
			select {
			case e.frames <- frame:
			case <-ctx.Done():
				return nil
			}
		}

		if e.NES.CPU.IsHalted() {
			log.ModEmu.WarnZ("emulation stopped").Hex16("PC", e.NES.CPU.PC).End()
			return ErrHalted
		}
	}

	log.ModEmu.InfoZ("emulation loop exited").Int("frames", nframes).End()
	return nil
}

func (e *Emulator) applyButtons() {
	select {
	case b := <-e.buttons:
		e.NES.Input.SetButtons(0, b[0])
		e.NES.Input.SetButtons(1, b[1])
	default:
	}
}

// SetPause, Stop, Reset and Restart allows to control
// the emulator loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.Store(pause) }
func (e *Emulator) IsPaused() bool      { return e.paused.Load() }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Restart()            { e.restart.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing soft reset").End()
		e.NES.Reset(hwdefs.SoftReset)
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing hard reset").End()
		e.NES.Reset(hwdefs.HardReset)
	}
}
