// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audplay/audio"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerFrame = 4
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	pending    []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // sample capacity, not bytes
func (s *source) BitDepth() int   { return 16 }

// Frames is -1 when the input cannot seek, go-mp3 cannot measure it then.
func (s *source) Frames() int64 {
	n := s.dec.Length()
	if n < 0 {
		return -1
	}

	return n / bytesPerFrame
}

func (s *source) SeekFrame(frame int64) error {
	if _, err := s.dec.Seek(frame*bytesPerFrame, io.SeekStart); err != nil {
		return fmt.Errorf("mp3 seek: %w", err)
	}
	s.pending = s.pending[:0]

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Each sample is 2 bytes of int16 little-endian
	bytesNeeded := (len(dst) - len(dst)%channels) * 2
	if bytesNeeded == 0 {
		return 0, nil
	}
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	// Carry a partial trailing frame from the previous read.
	off := copy(s.buf, s.pending)
	s.pending = s.pending[:0]

	n, err := s.dec.Read(s.buf[off:])
	n += off

	usable := n - n%bytesPerFrame
	s.pending = append(s.pending, s.buf[usable:n]...)

	if usable == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	samples := usable / 2
	for i := range samples {
		val := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(val) / 32768.0
	}

	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec), nil
}

func newSource(dec mp3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}
}
