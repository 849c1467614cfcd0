// SPDX-License-Identifier: EPL-2.0

package audplay

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/decoder"
	"github.com/ik5/audplay/event"
	"github.com/ik5/audplay/internal/audiotest"
	"github.com/ik5/audplay/model"
	"github.com/ik5/audplay/playback"
	"github.com/ik5/audplay/playback/speaker"
	"github.com/ik5/audplay/playback/wavfile"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Output.Driver = config.DriverNull
	cfg.Animation.StepDelay = time.Millisecond
	cfg.Analysis.Bars = 8

	return cfg
}

// collect reads events until stop returns true or the deadline passes.
func collect(t *testing.T, q *event.Queue, stop func(event.Event) bool) []event.Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var all []event.Event
	for {
		evs, err := q.Wait(ctx)
		require.NoError(t, err, "events so far: %v", all)

		for _, ev := range evs {
			all = append(all, ev)
			if stop(ev) {
				return all
			}
		}
	}
}

func TestNewOutput(t *testing.T) {
	t.Parallel()

	log := zerolog.Nop()

	out, err := NewOutput(log, config.Output{Driver: config.DriverSpeaker, Buffer: 100 * time.Millisecond})
	require.NoError(t, err)
	assert.IsType(t, &speaker.Speaker{}, out)

	out, err = NewOutput(log, config.Output{Driver: config.DriverWAV, File: filepath.Join(t.TempDir(), "x.wav")})
	require.NoError(t, err)
	assert.IsType(t, &wavfile.File{}, out)

	out, err = NewOutput(log, config.Output{Driver: config.DriverNull})
	require.NoError(t, err)
	assert.IsType(t, &playback.Discard{}, out)

	_, err = NewOutput(log, config.Output{Driver: "alsa"})
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestCorePlaysFile(t *testing.T) {
	t.Parallel()

	out := &audiotest.FakePlayback{Pace: 0.25}
	core, err := NewWithOutput(zerolog.Nop(), testConfig(), out)
	require.NoError(t, err)
	defer core.Close()

	path := audiotest.WriteSineWAV(t, "tone.wav", 44100, 2, 1)
	core.Controller.NotifyFileSelection(path)

	events := collect(t, core.Events, func(ev event.Event) bool {
		return ev.ID == event.UpdateSongState && ev.SongState().State == model.Finished
	})

	var (
		song   model.Song
		volume bool
		drawn  bool
	)
	for _, ev := range events {
		switch ev.ID {
		case event.UpdateSongInfo:
			song = ev.Song()
		case event.UpdateVolume:
			volume = true
			assert.InDelta(t, 1.0, ev.Volume().Level(), 1e-9)
		case event.DrawAudioSpectrum:
			assert.Len(t, ev.Spectrum(), 8)
			for _, v := range ev.Spectrum() {
				if v > 0 {
					drawn = true
				}
			}
		}
	}

	assert.Equal(t, "tone", song.Title)
	assert.Equal(t, int64(1), song.Duration)
	assert.True(t, volume, "initial volume posted")
	assert.True(t, drawn, "spectrum drawn")
	assert.Equal(t, 2*44100, out.Samples())
}

func TestCoreReportsErrors(t *testing.T) {
	t.Parallel()

	core, err := NewWithOutput(zerolog.Nop(), testConfig(), &audiotest.FakePlayback{})
	require.NoError(t, err)
	defer core.Close()

	core.Controller.NotifyFileSelection(filepath.Join(t.TempDir(), "missing.mp3"))

	events := collect(t, core.Events, func(ev event.Event) bool {
		return ev.ID == event.NotifyError
	})
	assert.Equal(t, model.FileNotSupported, events[len(events)-1].ErrorCode())
}

func TestCoreHandleEventAndClose(t *testing.T) {
	t.Parallel()

	out := &audiotest.FakePlayback{}
	core, err := NewWithOutput(zerolog.Nop(), testConfig(), out)
	require.NoError(t, err)

	assert.True(t, core.HandleEvent(event.Resize(16)))
	assert.False(t, core.HandleEvent(event.Redraw()))
	assert.False(t, core.HandleEvent(event.Quit()))

	require.NoError(t, core.Close())
	require.NoError(t, core.Close())
	assert.True(t, out.Closed())

	_, err = core.Events.Wait(context.Background())
	require.ErrorIs(t, err, event.ErrClosed)
}

func TestRenderFile(t *testing.T) {
	t.Parallel()

	path := audiotest.WriteSineWAV(t, "render.wav", 22050, 1, 1)

	samples, song, err := RenderFile(path, RenderOptions{Preset: model.RockPreset()})
	require.NoError(t, err)

	assert.Equal(t, "wav", song.Format)
	assert.Equal(t, 1, song.NumChannels)
	assert.InDelta(t, 2*44100, len(samples), 2*64)
	assert.Equal(t, 0, len(samples)%2)
	assert.NotZero(t, peak(samples))
}

func TestRenderFileMuted(t *testing.T) {
	t.Parallel()

	path := audiotest.WriteSineWAV(t, "render.wav", 44100, 2, 0.5)
	silent := model.NewVolume(0)

	samples, _, err := RenderFile(path, RenderOptions{Volume: &silent})
	require.NoError(t, err)
	require.NotEmpty(t, samples)
	assert.Zero(t, peak(samples))
}

func TestRenderFileUnsupported(t *testing.T) {
	t.Parallel()

	_, _, err := RenderFile(filepath.Join(t.TempDir(), "none.flac"), RenderOptions{})
	require.Error(t, err)
	assert.Equal(t, model.FileNotSupported, decoder.CodeOf(err))
}

func peak(samples []int16) int16 {
	var p int16
	for _, s := range samples {
		if s > p {
			p = s
		}
	}

	return p
}
