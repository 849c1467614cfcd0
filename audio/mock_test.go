// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
)

// mockSource generates frames from a waveform function.
type mockSource struct {
	rate     int
	channels int
	total    int
	pos      int
	wave     func(frame, channel int) float32
	closed   bool
}

func newSine(rate, channels, frames int, freq float64) *mockSource {
	return &mockSource{
		rate: rate, channels: channels, total: frames,
		wave: func(frame, _ int) float32 {
			return float32(math.Sin(2 * math.Pi * freq * float64(frame) / float64(rate)))
		},
	}
}

func newRamp(rate, channels, frames int) *mockSource {
	return &mockSource{
		rate: rate, channels: channels, total: frames,
		wave: func(frame, channel int) float32 {
			return float32(frame*channels+channel) / 1000
		},
	}
}

func (m *mockSource) SampleRate() int { return m.rate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.total {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.total-m.pos)
	for f := range frames {
		for c := range m.channels {
			dst[f*m.channels+c] = m.wave(m.pos+f, c)
		}
	}
	m.pos += frames

	return frames * m.channels, nil
}

// rejectDecoder fails every input.
type rejectDecoder struct{}

func (rejectDecoder) Decode(io.Reader) (Source, error) { return nil, errors.New("rejected") }

// acceptDecoder accepts any input.
type acceptDecoder struct{ channels int }

func (d acceptDecoder) Decode(io.Reader) (Source, error) {
	return newRamp(8000, d.channels, 10), nil
}
