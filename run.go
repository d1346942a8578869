package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/veandco/go-sdl2/sdl"

	"famicore/emu"
	"famicore/emu/log"
	"famicore/hw/apu"
	"famicore/ines"
)

// runMain runs the emulator with the given rom and returns the process exit
// code.
func runMain(args RunArgs) int {
	rom, err := ines.Open(args.RomPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading ROM: %s\n", err)
		return 1
	}

	cfg := emu.LoadConfigOrDefault()
	if args.Scale > 0 {
		cfg.Video.Scale = args.Scale
	}
	if args.NoAudio {
		cfg.Audio.DisableAudio = true
	}
	if err := cfg.Check(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %s\n", err)
		return 1
	}

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if args.Headless {
		err = runHeadless(ctx, rom, args, cfg)
	} else {
		var exitErr error
		sdl.Main(func() { exitErr = runWindow(ctx, rom, args, cfg) })
		err = exitErr
	}

	switch {
	case errors.Is(err, emu.ErrHalted):
		log.ModEmu.WarnZ("emulation stopped, CPU halted").End()
	case err != nil:
		fmt.Fprintf(os.Stderr, "emulation error: %s\n", err)
		return 1
	}
	return 0
}

// sinks returns the audio sink, combining the optional WAV recorder with
// out. The returned function closes the recorder.
func sinks(args RunArgs, rate int, out apu.SampleSink) (apu.SampleSink, func() error, error) {
	if args.WAV == "" {
		return out, func() error { return nil }, nil
	}
	rec, err := emu.NewWAVRecorder(args.WAV, rate)
	if err != nil {
		return nil, nil, fmt.Errorf("wav: %w", err)
	}
	if out == nil {
		return rec, rec.Close, nil
	}
	return teeSink{out, rec}, rec.Close, nil
}

type teeSink []apu.SampleSink

func (ts teeSink) WriteSamples(samples []int16) {
	for _, s := range ts {
		s.WriteSamples(samples)
	}
}

func runHeadless(ctx context.Context, rom *ines.Rom, args RunArgs, cfg emu.Config) error {
	rate := cfg.Audio.SampleRate
	sink, closeWAV, err := sinks(args, rate, nil)
	if err != nil {
		return err
	}

	nes, err := emu.PowerUp(rom, rate, sink)
	if err != nil {
		closeWAV()
		return fmt.Errorf("power up failed: %w", err)
	}

	e := emu.New(nes, args.Frames)
	_, err = emu.RunHeadless(ctx, e, emu.HeadlessConfig{
		Screenshot: args.Screenshot,
		Scale:      cfg.Video.Scale,
	})
	if cerr := closeWAV(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func runWindow(ctx context.Context, rom *ines.Rom, args RunArgs, cfg emu.Config) error {
	win, err := emu.NewWindow(emu.WindowConfig{
		Title:      "famicore",
		Video:      cfg.Video,
		Audio:      cfg.Audio,
		Input:      cfg.Input,
		Screenshot: args.Screenshot,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	var out apu.SampleSink
	if !cfg.Audio.DisableAudio {
		out = win
	}
	sink, closeWAV, err := sinks(args, cfg.Audio.SampleRate, out)
	if err != nil {
		return err
	}

	nes, err := emu.PowerUp(rom, cfg.Audio.SampleRate, sink)
	if err != nil {
		closeWAV()
		return fmt.Errorf("power up failed: %w", err)
	}

	err = win.Run(ctx, emu.New(nes, args.Frames))
	if cerr := closeWAV(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
