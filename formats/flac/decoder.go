// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	beepflac "github.com/gopxl/beep/v2/flac"
	"github.com/ik5/audplay/audio"
)

// streamer is the part of beep.StreamSeekCloser the source uses.
type streamer interface {
	Stream(samples [][2]float64) (int, bool)
	Err() error
	Len() int
	Seek(p int) error
}

type source struct {
	s          streamer
	sampleRate int
	bitDepth   int
	frames     [][2]float64
	done       bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return 2 }
func (s *source) BufSize() int    { return cap(s.frames) * 2 }
func (s *source) BitDepth() int   { return s.bitDepth }
func (s *source) Close() error    { return nil }

func (s *source) Frames() int64 {
	n := s.s.Len()
	if n <= 0 {
		return -1
	}

	return int64(n)
}

func (s *source) SeekFrame(frame int64) error {
	if err := s.s.Seek(int(frame)); err != nil {
		return fmt.Errorf("flac seek: %w", err)
	}
	s.done = false

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	want := len(dst) / 2
	if want == 0 {
		return 0, nil
	}
	if cap(s.frames) < want {
		s.frames = make([][2]float64, want)
	}
	s.frames = s.frames[:want]

	n, ok := s.s.Stream(s.frames)
	for i := range n {
		dst[2*i] = float32(s.frames[i][0])
		dst[2*i+1] = float32(s.frames[i][1])
	}

	if !ok {
		s.done = true
		if err := s.s.Err(); err != nil {
			return 2 * n, fmt.Errorf("%w", err)
		}
		return 2 * n, io.EOF
	}

	return 2 * n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	s, format, err := beepflac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(s, format), nil
}

func newSource(s streamer, format beep.Format) *source {
	return &source{
		s:          s,
		sampleRate: int(format.SampleRate),
		bitDepth:   format.Precision * 8,
		frames:     make([][2]float64, 1024),
	}
}
