package emu

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sync/errgroup"

	"famicore/emu/log"
	"famicore/hw"
	"famicore/hw/input"
)

// NTSC frame rate.
const frameRate = 60.0988

type WindowConfig struct {
	Title      string
	Video      VideoConfig
	Audio      AudioConfig
	Input      input.Config
	Screenshot string // saved at exit, if set
}

// Window presents frames in a SDL window, plays audio samples through a SDL
// audio queue and reads the keyboard.
//
// All SDL calls are performed on the main thread with sdl.Do, the program
// must run inside sdl.Main.
type Window struct {
	cfg WindowConfig

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	keystate []uint8

	audioDev  sdl.AudioDeviceID
	maxQueued uint32

	input *input.Provider
	last  Frame
	nlast int
}

// NewWindow creates and shows the window, and opens the audio device unless
// audio is disabled.
func NewWindow(cfg WindowConfig) (*Window, error) {
	w := &Window{
		cfg:   cfg,
		input: input.NewProvider(cfg.Input),
	}

	var err error
	sdl.Do(func() { err = w.init() })
	if err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Window) init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL: %s", err)
	}

	scale := int32(w.cfg.Video.Scale)
	var err error
	w.window, err = sdl.CreateWindow(w.cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		hw.ScreenWidth*scale, hw.ScreenHeight*scale,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("failed to create window: %s", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if !w.cfg.Video.DisableVSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	w.renderer, err = sdl.CreateRenderer(w.window, -1, flags)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %s", err)
	}
	if err := w.renderer.SetLogicalSize(hw.ScreenWidth, hw.ScreenHeight); err != nil {
		return fmt.Errorf("failed to set logical size: %s", err)
	}

	w.texture, err = w.renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING, hw.ScreenWidth, hw.ScreenHeight)
	if err != nil {
		return fmt.Errorf("failed to create texture: %s", err)
	}
	w.keystate = sdl.GetKeyboardState()

	if w.cfg.Audio.DisableAudio {
		log.ModEmu.WarnZ("Audio disabled").End()
		return nil
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(w.cfg.Audio.SampleRate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  1024,
	}
	var obtained sdl.AudioSpec
	w.audioDev, err = sdl.OpenAudioDevice("", false, spec, &obtained, 0)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %s", err)
	}
	// Bound the latency to ~100ms of samples.
	w.maxQueued = uint32(w.cfg.Audio.SampleRate/10) * 2
	sdl.PauseAudioDevice(w.audioDev, false)
	log.ModEmu.InfoZ("Audio enabled").Int("rate", int(obtained.Freq)).End()
	return nil
}

// WriteSamples implements apu.SampleSink. It's called from the emulation
// goroutine, SDL audio queues are safe for concurrent use.
func (w *Window) WriteSamples(samples []int16) {
	if w.audioDev == 0 || len(samples) == 0 {
		return
	}
	if sdl.GetQueuedAudioSize(w.audioDev) > w.maxQueued {
		log.ModSound.DebugZ("audio queue full, dropping samples").Int("count", len(samples)).End()
		return
	}

	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	if err := sdl.QueueAudio(w.audioDev, buf); err != nil {
		log.ModSound.DebugZ("failed to queue audio buffer").Error("err", err).End()
	}
}

// Run runs the emulator and presents its frames until the window is closed
// or the emulation stops.
func (w *Window) Run(ctx context.Context, e *Emulator) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return w.loop(ctx, e)
	})
	err := g.Wait()

	if w.cfg.Screenshot != "" && w.nlast > 0 {
		if err := SaveAsPNG(&w.last, w.cfg.Video.Scale, w.cfg.Screenshot); err != nil {
			log.ModEmu.WarnZ("Failed to save screenshot").String("path", w.cfg.Screenshot).Error("err", err).End()
		}
	}
	return err
}

func (w *Window) loop(ctx context.Context, e *Emulator) error {
	// Poll events while paused, and pace frames when vsync is off.
	tick := time.NewTicker(time.Duration(float64(time.Second) / frameRate))
	defer tick.Stop()

	frames := e.Frames()
	for {
		if w.cfg.Video.DisableVSync {
			select {
			case <-tick.C:
			case <-ctx.Done():
				return nil
			}
		}

		select {
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			var err error
			sdl.Do(func() { err = w.present(f) })
			w.last = *f
			w.nlast++
			e.Release(f)
			if err != nil {
				return err
			}
		case <-tick.C:
		case <-ctx.Done():
			return nil
		}

		var quit bool
		sdl.Do(func() { quit = w.pollEvents(e) })
		if quit {
			e.Stop()
			return nil
		}
	}
}

func (w *Window) present(f *Frame) error {
	pix, pitch, err := w.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("texture lock: %s", err)
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&f.Pixels[0])), len(f.Pixels)*4)
	for y := range hw.ScreenHeight {
		copy(pix[y*pitch:y*pitch+hw.ScreenWidth*4], src[y*hw.ScreenWidth*4:])
	}
	w.texture.Unlock()

	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("renderer clear: %s", err)
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("renderer copy: %s", err)
	}
	w.renderer.Present()
	return nil
}

// pollEvents handles the pending window events and forwards the controllers
// state to the emulator. It returns true when the user asked to quit.
func (w *Window) pollEvents(e *Emulator) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if ev.State != sdl.PRESSED || ev.Repeat != 0 {
				continue
			}
			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return true
			case sdl.SCANCODE_P:
				e.SetPause(!e.IsPaused())
			case sdl.SCANCODE_F5:
				e.Reset()
			case sdl.SCANCODE_F6:
				e.Restart()
			}
		}
	}

	e.SetButtons(w.input.State(w.keystate))
	return false
}

// Close releases SDL resources.
func (w *Window) Close() error {
	var err error
	sdl.Do(func() {
		if w.audioDev != 0 {
			sdl.CloseAudioDevice(w.audioDev)
		}
		if w.texture != nil {
			w.texture.Destroy()
		}
		if w.renderer != nil {
			w.renderer.Destroy()
		}
		if w.window != nil {
			err = w.window.Destroy()
		}
		sdl.Quit()
	})
	return err
}
