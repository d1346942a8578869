package apu

import (
	"testing"

	"famicore/emu/log"
	"famicore/hw"
)

func init() {
	log.Disable()
}

type sampleRecorder struct {
	samples []int16
}

func (r *sampleRecorder) WriteSamples(s []int16) {
	r.samples = append(r.samples, s...)
}

func newTestAPU() (*APU, *sampleRecorder) {
	rec := &sampleRecorder{}
	return New(NewMixer(44100, rec)), rec
}

const frameCycles = 29781

func TestFrameIRQ(t *testing.T) {
	tests := []struct {
		name    string
		val     uint8
		readAt  int64
		wantIRQ bool
	}{
		{"4-step before", 0x00, 29830, false},
		{"4-step", 0x00, 29831, true},
		{"4-step inhibited", 0x40, 40000, false},
		{"5-step", 0x80, 40000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAPU()
			a.WriteRegister(0, 0x4017, tt.val)

			if got := a.ReadStatus(tt.readAt)&0x40 != 0; got != tt.wantIRQ {
				t.Errorf("frame interrupt = %t, want %t", got, tt.wantIRQ)
			}
		})
	}
}

func TestFrameIRQPrediction(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0, 0x4017, 0x00)

	at := a.EarliestIRQ()
	if at != 29831 {
		t.Fatalf("EarliestIRQ = %d, want 29831", at)
	}

	if a.ReadStatus(at)&0x40 == 0 {
		t.Fatal("frame interrupt flag should be set")
	}
	// Read clears the flag, it's set again on the 2 following cycles.
	if got := a.EarliestIRQ(); got != at+1 {
		t.Errorf("EarliestIRQ = %d, want %d", got, at+1)
	}

	a.WriteRegister(at+1, 0x4017, 0x40)
	if got := a.EarliestIRQ(); got != hw.NoIRQ {
		t.Errorf("EarliestIRQ = %d, want none once inhibited", got)
	}
}

func TestFrameIRQAcrossFrames(t *testing.T) {
	a, _ := newTestAPU()
	a.WriteRegister(0, 0x4017, 0x00)
	a.EndFrame(frameCycles)

	want := int64(29831 - frameCycles)
	if got := a.EarliestIRQ(); got != want {
		t.Fatalf("EarliestIRQ = %d, want %d", got, want)
	}
	a.EndFrame(frameCycles)
	if got := a.EarliestIRQ(); got != 0 {
		t.Errorf("EarliestIRQ = %d, want 0 with the flag set", got)
	}
	if a.ReadStatus(0)&0x40 == 0 {
		t.Error("frame interrupt flag should be set")
	}
}

func TestLengthCounterStatus(t *testing.T) {
	tests := []struct {
		name   string
		enable uint8
		base   uint16
		bit    uint8
	}{
		{"square1", 0x01, 0x4000, 0x01},
		{"square2", 0x02, 0x4004, 0x02},
		{"triangle", 0x04, 0x4008, 0x04},
		{"noise", 0x08, 0x400C, 0x08},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAPU()

			// Loading while disabled has no effect.
			a.WriteRegister(10, tt.base+3, 0x08)
			if a.ReadStatus(11)&tt.bit != 0 {
				t.Fatal("length counter loaded while channel disabled")
			}

			a.WriteRegister(12, 0x4015, tt.enable)
			a.WriteRegister(13, tt.base+3, 0x08)
			if a.ReadStatus(14)&tt.bit == 0 {
				t.Fatal("length counter not loaded")
			}

			a.WriteRegister(15, 0x4015, 0)
			if a.ReadStatus(16)&tt.bit != 0 {
				t.Error("disabling the channel should clear the length counter")
			}
		})
	}
}

func TestLengthCounterHalt(t *testing.T) {
	tests := []struct {
		name string
		ctrl uint8
		want bool
	}{
		{"counting", 0x00, false},
		{"halted", 0x20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAPU()
			a.WriteRegister(0, 0x4015, 0x08)
			a.WriteRegister(1, 0x400C, tt.ctrl)
			a.WriteRegister(2, 0x400F, 0x00) // length 10

			// 2 half frames per sequence, 10 frames is more than enough.
			for range 10 {
				a.EndFrame(frameCycles)
			}
			if got := a.ReadStatus(0)&0x08 != 0; got != tt.want {
				t.Errorf("noise length counter active = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestSamples(t *testing.T) {
	a, rec := newTestAPU()
	a.WriteRegister(0, 0x4015, 0x01)
	a.WriteRegister(1, 0x4000, 0xBF) // duty 2, constant volume 15
	a.WriteRegister(2, 0x4002, 0xFD)
	a.WriteRegister(3, 0x4003, 0x00)
	a.EndFrame(frameCycles)

	// 29781 cycles at 1.789773MHz is ~734 samples at 44.1kHz.
	if n := len(rec.samples); n < 730 || n > 738 {
		t.Fatalf("got %d samples, want ~734", n)
	}

	nonzero := 0
	for _, s := range rec.samples {
		if s != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Error("all samples are silent")
	}
}

func TestSilence(t *testing.T) {
	a, rec := newTestAPU()
	a.EndFrame(frameCycles)
	for i, s := range rec.samples {
		if s != 0 {
			t.Fatalf("sample %d = %d, want silence", i, s)
		}
	}
}

func TestSweepTargetPeriod(t *testing.T) {
	tests := []struct {
		name   string
		ch     Channel
		period uint16
		sweep  uint8
		want   uint32
	}{
		{"add", Square1, 0x100, 0x81, 0x180},
		{"negate square1", Square1, 0x100, 0x89, 0x7F},
		{"negate square2", Square2, 0x100, 0x89, 0x80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newSquareChannel(NewMixer(44100, nil), tt.ch)
			sc.setPeriod(tt.period)
			sc.initSweep(tt.sweep)
			if sc.sweepTargetPeriod != tt.want {
				t.Errorf("target period = %#x, want %#x", sc.sweepTargetPeriod, tt.want)
			}
		})
	}
}

func TestChannelString(t *testing.T) {
	if got := Triangle.String(); got != "triangle" {
		t.Errorf("Triangle.String() = %q", got)
	}
}
