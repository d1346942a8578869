package emu

import (
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"famicore/emu/log"
)

// WAVRecorder is an apu.SampleSink writing 16-bit mono samples to a WAV
// file.
type WAVRecorder struct {
	mu   sync.Mutex
	f    *os.File
	enc  *wav.Encoder
	buf  audio.IntBuffer
	err  error
	nsmp int
}

// NewWAVRecorder creates the WAV file at path.
func NewWAVRecorder(path string, sampleRate int) (*WAVRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &WAVRecorder{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, 16, 1, 1),
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// WriteSamples implements apu.SampleSink.
func (r *WAVRecorder) WriteSamples(samples []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return
	}

	r.buf.Data = r.buf.Data[:0]
	for _, s := range samples {
		r.buf.Data = append(r.buf.Data, int(s))
	}
	if err := r.enc.Write(&r.buf); err != nil {
		log.ModSound.WarnZ("failed to write WAV samples").Error("err", err).End()
		r.err = err
		return
	}
	r.nsmp += len(samples)
}

// Close finalizes the WAV header and closes the file. It returns the first
// error met while recording.
func (r *WAVRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.enc.Close(); err != nil && r.err == nil {
		r.err = err
	}
	if err := r.f.Close(); err != nil && r.err == nil {
		r.err = err
	}
	log.ModSound.InfoZ("WAV recording closed").Int("samples", r.nsmp).End()
	return r.err
}
