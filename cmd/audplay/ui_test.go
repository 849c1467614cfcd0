// SPDX-License-Identifier: EPL-2.0

package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/event"
	"github.com/ik5/audplay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatched struct {
	events []event.Event
}

func (d *dispatched) send(ev event.Event) bool {
	d.events = append(d.events, ev)
	return true
}

func (d *dispatched) last(t *testing.T) event.Event {
	t.Helper()
	require.NotEmpty(t, d.events)

	return d.events[len(d.events)-1]
}

func newTestUI(t *testing.T, playlist model.Playlist) (*ui, *dispatched) {
	t.Helper()

	q := event.NewQueue(16)
	t.Cleanup(q.Close)

	d := &dispatched{}

	return newUI(q, d.send, config.Default(), playlist), d
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUIKeysDispatch(t *testing.T) {
	t.Parallel()

	u, d := newTestUI(t, model.Playlist{})

	tests := []struct {
		key  tea.KeyMsg
		want event.Identifier
	}{
		{tea.KeyMsg{Type: tea.KeySpace}, event.PauseOrResumeSong},
		{runes("s"), event.StopSong},
		{runes("x"), event.ClearCurrentSong},
		{tea.KeyMsg{Type: tea.KeyRight}, event.SeekForwardPosition},
		{tea.KeyMsg{Type: tea.KeyLeft}, event.SeekBackwardPosition},
		{runes("+"), event.SetAudioVolume},
		{runes("e"), event.ApplyAudioFilters},
	}

	for _, tt := range tests {
		u.Update(tt.key)
		assert.Equal(t, tt.want, d.last(t).ID, tt.key.String())
	}
}

func TestUISeekStepAndVolume(t *testing.T) {
	t.Parallel()

	u, d := newTestUI(t, model.Playlist{})

	u.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 5, d.last(t).Int())

	u.Update(eventsMsg{event.Volume(model.NewVolume(0.5))})
	u.Update(runes("-"))
	assert.InDelta(t, 0.45, d.last(t).Volume().Level(), 1e-9)

	u.Update(runes("m"))
	assert.True(t, d.last(t).Volume().Muted())
}

func TestUIPresetCycles(t *testing.T) {
	t.Parallel()

	u, d := newTestUI(t, model.Playlist{})

	var names []string
	for range len(model.Presets()) + 1 {
		u.Update(runes("e"))
		names = append(names, d.last(t).Preset().Name)
	}

	assert.Equal(t, []string{"Electronic", "Pop", "Rock", "Custom", "Electronic"}, names)
}

func TestUIPlaylistNavigation(t *testing.T) {
	t.Parallel()

	pl := model.Playlist{Songs: []model.Song{{Filepath: "a.mp3"}, {Filepath: "b.mp3"}}}
	u, d := newTestUI(t, pl)

	u.Update(runes("p"))
	assert.Empty(t, d.events)

	u.Update(runes("n"))
	ev := d.last(t)
	assert.Equal(t, event.NotifyPlaylistSelection, ev.ID)
	assert.Equal(t, 1, ev.Playlist().Index)

	u.Update(runes("n"))
	assert.Len(t, d.events, 1)
}

func TestUIAppliesEvents(t *testing.T) {
	t.Parallel()

	u, _ := newTestUI(t, model.Playlist{})

	song := model.Song{Title: "Song", Artist: "Band", Format: "mp3", Duration: 125}
	_, cmd := u.Update(eventsMsg{
		event.SongInfo(song),
		event.SongState(model.SongState{State: model.Play, Position: 61}),
		event.Spectrum([]float64{0.1, 1, 0.5, 0}),
	})
	require.NotNil(t, cmd, "keeps waiting for events")

	view := u.View()
	assert.Contains(t, view, "Band - Song")
	assert.Contains(t, view, "01:01 / 02:05")
	assert.Contains(t, view, "Play")

	u.Update(eventsMsg{event.Error(model.DecodeFileFailed)})
	assert.Contains(t, u.View(), model.DecodeFileFailed.Message())

	u.Update(eventsMsg{event.ClearSong()})
	assert.Contains(t, u.View(), "no song")
}

func TestUIResizeRequestsBars(t *testing.T) {
	t.Parallel()

	u, d := newTestUI(t, model.Playlist{})

	u.Update(tea.WindowSizeMsg{Width: 70, Height: 30})
	assert.Empty(t, d.events, "32 bars are configured already")

	u.Update(tea.WindowSizeMsg{Width: 132, Height: 30})
	ev := d.last(t)
	assert.Equal(t, event.ResizeAnalysis, ev.ID)
	assert.Equal(t, 64, ev.Int())

	n := len(d.events)
	u.Update(tea.WindowSizeMsg{Width: 133, Height: 30})
	assert.Len(t, d.events, n, "same bar count is not requested again")

	u.Update(tea.WindowSizeMsg{Width: 10, Height: 30})
	assert.Equal(t, minBars, d.last(t).Int())
}

func TestUIBarAnimations(t *testing.T) {
	t.Parallel()

	u, _ := newTestUI(t, model.Playlist{})
	u.Update(eventsMsg{event.Spectrum([]float64{0.2, 0.9, 0.4, 1})})

	for range 3 {
		assert.NotEmpty(t, u.renderSpectrum(), u.animation.String())
		u.Update(runes("a"))
	}
	assert.Equal(t, model.HorizontalMirror, u.animation)

	u.animation = model.HorizontalMirror
	up, down := u.columns()
	assert.Equal(t, []float64{0.9, 0.2, 0.4, 1}, up)
	assert.Nil(t, down)

	u.animation = model.MonoVertical
	up, _ = u.columns()
	assert.InDeltaSlice(t, []float64{0.3, 0.95}, up, 1e-9)

	u.animation = model.VerticalMirror
	up, down = u.columns()
	assert.Equal(t, []float64{0.2, 0.9}, up)
	assert.Equal(t, []float64{0.4, 1}, down)
}

func TestUIQuit(t *testing.T) {
	t.Parallel()

	u, d := newTestUI(t, model.Playlist{})

	_, cmd := u.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, event.Exit, d.last(t).ID)
	assert.Empty(t, u.View())
}

func TestUIQueueClosed(t *testing.T) {
	t.Parallel()

	u, _ := newTestUI(t, model.Playlist{})

	_, cmd := u.Update(closedMsg{})
	require.NotNil(t, cmd)
	assert.True(t, u.quitting)
}
