package emu

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"famicore/emu/log"
)

type HeadlessConfig struct {
	Screenshot string // PNG of the last frame, if set
	Scale      int
}

// RunHeadless runs the emulator without presentation, as fast as possible.
// The emulator should have a frame limit. It returns the last frame.
func RunHeadless(ctx context.Context, e *Emulator, cfg HeadlessConfig) (*Frame, error) {
	g, ctx := errgroup.WithContext(ctx)

	var last *Frame
	g.Go(func() error {
		return e.Run(ctx)
	})
	g.Go(func() error {
		for f := range e.Frames() {
			if last != nil {
				e.Release(last)
			}
			last = f
		}
		return nil
	})
	err := g.Wait()

	if last == nil {
		return nil, err
	}
	log.ModEmu.InfoZ("headless run done").Int("frames", last.Number+1).End()

	if cfg.Screenshot != "" {
		if serr := SaveAsPNG(last, cfg.Scale, cfg.Screenshot); serr != nil {
			return last, fmt.Errorf("screenshot: %w", serr)
		}
	}
	return last, err
}
