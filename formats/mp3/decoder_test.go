// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audplay/audio"
)

// mockMP3 serves a fixed PCM byte stream the way go-mp3 does.
type mockMP3 struct {
	data     []byte
	pos      int64
	rate     int
	seekable bool
	chunk    int
}

func newMockMP3(samples []int16, rate int) *mockMP3 {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}

	return &mockMP3{data: data, rate: rate, seekable: true}
}

func (m *mockMP3) SampleRate() int { return m.rate }

func (m *mockMP3) Length() int64 {
	if !m.seekable {
		return -1
	}
	return int64(len(m.data))
}

func (m *mockMP3) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	if m.chunk > 0 && len(p) > m.chunk {
		p = p[:m.chunk]
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *mockMP3) Seek(offset int64, whence int) (int64, error) {
	if !m.seekable || whence != io.SeekStart {
		return 0, errors.New("not seekable")
	}
	m.pos = offset
	return offset, nil
}

func TestSourceReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(newMockMP3([]int16{0, 16384, -16384, 32767}, 44100))

	if src.Channels() != 2 || src.SampleRate() != 44100 || src.BitDepth() != 16 {
		t.Fatalf("format = %d ch, %d Hz, %d bits", src.Channels(), src.SampleRate(), src.BitDepth())
	}

	dst := make([]float32, 8)
	n, err := src.ReadSamples(dst)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() = %d, want 4", n)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if _, err := src.ReadSamples(dst); !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() at end error = %v, want io.EOF", err)
	}
}

func TestSourceOddByteReads(t *testing.T) {
	t.Parallel()

	mock := newMockMP3([]int16{1000, -1000, 2000, -2000}, 44100)
	mock.chunk = 3
	src := newSource(mock)

	var got []float32
	dst := make([]float32, 4)
	for {
		n, err := src.ReadSamples(dst)
		got = append(got, dst[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != 4 || got[3] != float32(-2000)/32768 {
		t.Errorf("samples = %v", got)
	}
}

func TestSourceSeek(t *testing.T) {
	t.Parallel()

	src := newSource(newMockMP3([]int16{1, 2, 3, 4, 5, 6}, 8000))

	var _ audio.Seeker = src
	var _ audio.Lengther = src

	if src.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", src.Frames())
	}

	if err := src.SeekFrame(2); err != nil {
		t.Fatalf("SeekFrame() error = %v", err)
	}

	dst := make([]float32, 2)
	if n, _ := src.ReadSamples(dst); n != 2 || dst[0] != float32(5)/32768 {
		t.Errorf("after seek got %v (%d)", dst, n)
	}
}

func TestSourceNotSeekable(t *testing.T) {
	t.Parallel()

	mock := newMockMP3([]int16{1, 2}, 8000)
	mock.seekable = false
	src := newSource(mock)

	if src.Frames() != -1 {
		t.Errorf("Frames() = %d, want -1", src.Frames())
	}
	if err := src.SeekFrame(0); err == nil {
		t.Errorf("SeekFrame() error = nil, want error")
	}
}

func TestDecoderRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("definitely not mpeg audio"))); err == nil {
		t.Errorf("Decode() error = nil, want error")
	}
}
