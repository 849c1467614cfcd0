// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audplay/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read returns the number of values decoded (frames * channels).
	Read([]float32) (int, error)
	// Length is the length in frames, 0 when unknown.
	Length() int64
	SetPosition(pos int64) error
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// BitDepth reports 32, vorbis decodes to float samples.
func (s *source) BitDepth() int { return 32 }

func (s *source) Frames() int64 {
	n := s.dec.Length()
	if n <= 0 {
		return -1
	}

	return n
}

func (s *source) SeekFrame(frame int64) error {
	if err := s.dec.SetPosition(frame); err != nil {
		return fmt.Errorf("vorbis seek: %w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Keep reads frame aligned so channels never shift.
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec)
}

func newSource(dec oggReader) (*source, error) {
	if dec.Channels() <= 0 {
		return nil, ErrNoChannels
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
