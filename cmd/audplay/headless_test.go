// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audplay"
	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/internal/audiotest"
	"github.com/ik5/audplay/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T) *audplay.Core {
	t.Helper()

	cfg := config.Default()
	cfg.Animation.StepDelay = time.Millisecond

	core, err := audplay.NewWithOutput(zerolog.Nop(), cfg, &audiotest.FakePlayback{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	return core
}

func TestPlayHeadlessPlaylist(t *testing.T) {
	t.Parallel()

	core := newTestCore(t)

	pl := model.Playlist{Songs: []model.Song{
		{Filepath: audiotest.WriteSineWAV(t, "first.wav", 44100, 2, 0.5)},
		{Filepath: audiotest.WriteSineWAV(t, "second.wav", 22050, 1, 0.5)},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, playHeadless(ctx, zerolog.Nop(), core.Events, core.HandleEvent, pl, &out))

	assert.Equal(t, "first [wav 00:00]\nsecond [wav 00:00]\n", out.String())
}

func TestPlayHeadlessError(t *testing.T) {
	t.Parallel()

	core := newTestCore(t)

	pl := model.Playlist{Songs: []model.Song{{Filepath: filepath.Join(t.TempDir(), "missing.ogg")}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := playHeadless(ctx, zerolog.Nop(), core.Events, core.HandleEvent, pl, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.FileNotSupported.Message())
}

func TestPlayHeadlessCanceled(t *testing.T) {
	t.Parallel()

	core := newTestCore(t)

	pl := model.Playlist{Songs: []model.Song{{Filepath: audiotest.WriteSineWAV(t, "long.wav", 44100, 2, 1)}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, playHeadless(ctx, zerolog.Nop(), core.Events, core.HandleEvent, pl, &bytes.Buffer{}))
}

func TestRootCommandHeadless(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	song := audiotest.WriteSineWAV(t, "cli.wav", 44100, 2, 0.2)
	target := filepath.Join(dir, "render.wav")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--headless", "--driver", "wav", "--output", target, "--log-level", "error", song})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "cli [wav 00:00]")
	assert.FileExists(t, target)
}

func TestRootCommandNothingToPlay(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--headless", "--driver", "null", "--log-level", "error"})

	require.ErrorIs(t, cmd.Execute(), errNothingToPlay)
}

func TestPlaylistFromArgs(t *testing.T) {
	t.Parallel()

	a := audiotest.WriteSineWAV(t, "a.wav", 8000, 1, 0.1)
	dir := filepath.Dir(a)

	pl := playlistFromArgs([]string{filepath.Join(dir, "*.wav"), "http://radio.example/stream"})
	require.Len(t, pl.Songs, 2)
	assert.Equal(t, a, pl.Songs[0].Filepath)
	assert.True(t, pl.Songs[1].IsStream())

	assert.True(t, playlistFromArgs(nil).Empty())
}
