// SPDX-License-Identifier: EPL-2.0

package wavfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audplay/formats/wav"
	"github.com/ik5/audplay/playback"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	f := New(zerolog.Nop(), path)

	_, err := f.Write([]int16{1, 2})
	assert.ErrorIs(t, err, playback.ErrDevice)

	require.NoError(t, f.Prepare())
	require.NoError(t, f.Prepare())

	samples := make([]int16, 2*1000)
	for i := range samples {
		samples[i] = int16(i)
	}
	require.NoError(t, playback.WriteAll(f, samples))
	require.NoError(t, f.Pause())
	require.NoError(t, f.Drain())
	assert.Equal(t, int64(1000), f.Frames())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err = f.Write(samples)
	assert.ErrorIs(t, err, playback.ErrClosed)

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	src, err := wav.Decoder{}.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, 44100, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	assert.InDelta(t, 3.0/32768, buf[3], 1e-9)
}

func TestPrepareFailure(t *testing.T) {
	t.Parallel()

	f := New(zerolog.Nop(), filepath.Join(t.TempDir(), "missing", "out.wav"))
	assert.ErrorIs(t, f.Prepare(), playback.ErrDevice)
	require.NoError(t, f.Close())
}
