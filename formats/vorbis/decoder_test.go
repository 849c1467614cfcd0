// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audplay/audio"
)

type mockOgg struct {
	rate     int
	channels int
	data     []float32
	pos      int
	length   int64
}

func (m *mockOgg) SampleRate() int { return m.rate }
func (m *mockOgg) Channels() int   { return m.channels }
func (m *mockOgg) Length() int64   { return m.length }

func (m *mockOgg) Read(p []float32) (int, error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func (m *mockOgg) SetPosition(pos int64) error {
	if m.length == 0 {
		return errors.New("not seekable")
	}
	m.pos = int(pos) * m.channels
	return nil
}

func TestSourceReadSamples(t *testing.T) {
	t.Parallel()

	src, err := newSource(&mockOgg{rate: 48000, channels: 2, data: []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}, length: 3})
	if err != nil {
		t.Fatalf("newSource() error = %v", err)
	}

	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Errorf("ReadSamples() = %d, want 4 (frame aligned)", n)
	}

	if src.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", src.Frames())
	}
}

func TestSourceSeek(t *testing.T) {
	t.Parallel()

	src, _ := newSource(&mockOgg{rate: 48000, channels: 2, data: []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}, length: 3})

	var s audio.Seeker = src
	if err := s.SeekFrame(2); err != nil {
		t.Fatalf("SeekFrame() error = %v", err)
	}

	dst := make([]float32, 4)
	n, _ := src.ReadSamples(dst)
	if n != 2 || dst[0] != 0.3 {
		t.Errorf("after seek = %v (%d)", dst[:n], n)
	}
}

func TestSourceUnknownLength(t *testing.T) {
	t.Parallel()

	src, _ := newSource(&mockOgg{rate: 44100, channels: 1})
	if src.Frames() != -1 {
		t.Errorf("Frames() = %d, want -1", src.Frames())
	}
	if err := src.SeekFrame(10); err == nil {
		t.Errorf("SeekFrame() error = nil, want error")
	}
}

func TestNewSourceNoChannels(t *testing.T) {
	t.Parallel()

	if _, err := newSource(&mockOgg{rate: 44100}); !errors.Is(err, ErrNoChannels) {
		t.Errorf("newSource() error = %v, want %v", err, ErrNoChannels)
	}
}

func TestDecoderRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS but not really"))); err == nil {
		t.Errorf("Decode() error = nil, want error")
	}
}
