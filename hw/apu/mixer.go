package apu

import (
	"cmp"
	"slices"

	"github.com/arl/blip"

	"famicore/emu/log"
)

// NTSC CPU clock rate, in Hz.
const ClockRate = 1789773

// SampleSink receives the audio samples produced at the end of each frame.
// samples is only valid for the duration of the call.
type SampleSink interface {
	WriteSamples(samples []int16)
}

type delta struct {
	time uint32
	ch   Channel
	val  int16
}

// Mixer combines the channel outputs with the non-linear mixing formulas
// and resamples the result with a band-limited buffer.
type Mixer struct {
	buf    *blip.Buffer
	outbuf []int16

	deltas    []delta
	curOutput [numChannels]int16
	prevOut   int16

	sampleRate int
	sink       SampleSink
}

// NewMixer creates a mono mixer producing samples at sampleRate. sink may be
// nil, in which case the samples are dropped.
func NewMixer(sampleRate int, sink SampleSink) *Mixer {
	// Room for a few frames.
	nsamples := sampleRate / 10
	m := &Mixer{
		buf:        blip.NewBuffer(nsamples),
		outbuf:     make([]int16, nsamples),
		sampleRate: sampleRate,
		sink:       sink,
	}
	m.buf.SetRates(ClockRate, float64(sampleRate))
	return m
}

func (m *Mixer) SampleRate() int {
	return m.sampleRate
}

func (m *Mixer) reset() {
	m.buf.Clear()
	m.deltas = m.deltas[:0]
	m.prevOut = 0
	clear(m.curOutput[:])
}

func (m *Mixer) addDelta(ch Channel, time uint32, val int16) {
	if val != 0 {
		m.deltas = append(m.deltas, delta{time: time, ch: ch, val: val})
	}
}

func (m *Mixer) outputVolume() int16 {
	sq := float64(m.curOutput[Square1] + m.curOutput[Square2])
	tnd := 2.7516713261*float64(m.curOutput[Triangle]) + 1.8493587125*float64(m.curOutput[Noise])

	var sqVol, tndVol float64
	if sq > 0 {
		sqVol = 95.88 * 5000.0 / (8128.0/sq + 100.0)
	}
	if tnd > 0 {
		tndVol = 159.79 * 5000.0 / (22638.0/tnd + 100.0)
	}
	return int16(sqVol+tndVol) * 4
}

// endFrame converts the output changes of the frame into samples, and hands
// them to the sink.
func (m *Mixer) endFrame(time uint32) {
	slices.SortStableFunc(m.deltas, func(a, b delta) int {
		return cmp.Compare(a.time, b.time)
	})

	for i := 0; i < len(m.deltas); {
		stamp := m.deltas[i].time
		for ; i < len(m.deltas) && m.deltas[i].time == stamp; i++ {
			m.curOutput[m.deltas[i].ch] += m.deltas[i].val
		}

		out := m.outputVolume()
		if out != m.prevOut {
			m.buf.AddDelta(uint64(stamp), int32(out-m.prevOut))
			m.prevOut = out
		}
	}
	m.deltas = m.deltas[:0]

	m.buf.EndFrame(int(time))
	n := m.buf.ReadSamples(m.outbuf, len(m.outbuf), blip.Mono)
	if n == 0 || m.sink == nil {
		return
	}
	m.sink.WriteSamples(m.outbuf[:n])
	log.ModSound.DebugZ("end frame").Int("samples", n).End()
}
