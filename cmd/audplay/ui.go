// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/event"
	"github.com/ik5/audplay/model"
	"github.com/samber/lo"
)

const (
	barWidth     = 2
	spectrumRows = 8
	minBars      = 8
	// frame border and padding
	frameOverhead = 4
)

var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

type (
	eventsMsg []event.Event
	closedMsg struct{}
)

// ui is the bubbletea model. Every change it shows comes from the event
// queue, key presses only dispatch events.
type ui struct {
	events   *event.Queue
	dispatch func(event.Event) bool
	seekStep int

	playlist model.Playlist
	presets  []model.EqualizerPreset
	preset   int

	song      model.Song
	hasSong   bool
	state     model.SongState
	volume    model.Volume
	spectrum  []float64
	animation model.BarAnimation
	focused   model.BlockIdentifier
	bars      int
	errText   string

	width    int
	quitting bool
}

func newUI(events *event.Queue, dispatch func(event.Event) bool, cfg *config.Config, playlist model.Playlist) *ui {
	presets := model.Presets()
	current := cfg.Preset()

	_, idx, _ := lo.FindIndexOf(presets, func(p model.EqualizerPreset) bool {
		return p.Name == current.Name
	})

	return &ui{
		events:   events,
		dispatch: dispatch,
		seekStep: cfg.Player.SeekStep,
		playlist: playlist,
		presets:  presets,
		preset:   max(idx, 0),
		volume:   model.NewVolume(cfg.Player.Volume),
		bars:     cfg.Analysis.Bars,
		focused:  model.MediaPlayer,
	}
}

func (u *ui) Init() tea.Cmd {
	return tea.Batch(waitEvents(u.events), tea.WindowSize())
}

func waitEvents(q *event.Queue) tea.Cmd {
	return func() tea.Msg {
		evs, err := q.Wait(context.Background())
		if err != nil {
			return closedMsg{}
		}

		return eventsMsg(evs)
	}
}

func (u *ui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		u.handleKey(msg)
		if u.quitting {
			return u, tea.Quit
		}

	case tea.WindowSizeMsg:
		u.resize(msg.Width)

	case tea.FocusMsg:
		u.apply(event.Focus(model.MediaPlayer))

	case tea.BlurMsg:
		u.apply(event.Focus(model.ListDirectory))

	case eventsMsg:
		for _, ev := range msg {
			u.apply(ev)
		}
		return u, waitEvents(u.events)

	case closedMsg:
		u.quitting = true
		return u, tea.Quit
	}

	return u, nil
}

// apply folds a queued event into the view state.
func (u *ui) apply(ev event.Event) {
	switch ev.ID {
	case event.ClearSongInfo:
		u.song, u.hasSong = model.Song{}, false
		u.state = model.SongState{}
	case event.UpdateSongInfo:
		u.song, u.hasSong = ev.Song(), true
		u.errText = ""
	case event.UpdateSongState:
		u.state = ev.SongState()
	case event.UpdateVolume:
		u.volume = ev.Volume()
	case event.DrawAudioSpectrum:
		u.spectrum = ev.Spectrum()
	case event.NotifyError:
		u.errText = ev.ErrorCode().Message()
	case event.ChangeBarAnimation:
		u.animation = ev.BarAnimation()
	case event.CalculateNumberOfBars:
		if n := ev.Int(); n != u.bars {
			u.bars = n
			u.dispatch(event.Resize(n))
		}
	case event.SetFocused:
		u.focused = ev.Block()
	case event.Exit:
		u.dispatch(ev)
		u.quitting = true
	}
}

func (u *ui) handleKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "q", "ctrl+c":
		u.apply(event.Quit())
	case " ":
		u.dispatch(event.PauseOrResume())
	case "s":
		u.dispatch(event.Stop())
	case "x":
		u.dispatch(event.ClearCurrent())
	case "right", "l":
		u.dispatch(event.SeekForward(u.seekStep))
	case "left", "h":
		u.dispatch(event.SeekBackward(u.seekStep))
	case "+", "=":
		u.dispatch(event.SetVolume(u.volume.Increase()))
	case "-":
		u.dispatch(event.SetVolume(u.volume.Decrease()))
	case "m":
		u.dispatch(event.SetVolume(u.volume.ToggleMute()))
	case "e":
		u.preset = (u.preset + 1) % len(u.presets)
		u.dispatch(event.ApplyFilters(u.presets[u.preset]))
	case "a":
		u.apply(event.BarAnimation(u.animation.Next()))
	case "n":
		u.selectSong(u.playlist.Index + 1)
	case "p":
		u.selectSong(u.playlist.Index - 1)
	}
}

func (u *ui) selectSong(index int) {
	if index < 0 || index >= len(u.playlist.Songs) {
		return
	}

	u.playlist.Index = index
	u.dispatch(event.PlaylistSelection(u.playlist))
}

func (u *ui) resize(width int) {
	u.width = width

	inner := width - frameOverhead
	// left and right halves of the spectrum, barWidth columns per bar
	n := max(minBars, inner/barWidth)
	n -= n % 2
	u.apply(event.NumberOfBars(n))
}

func (u *ui) View() string {
	if u.quitting {
		return ""
	}

	sections := []string{
		titleStyle.Render("audplay"),
		u.renderTrack(),
		u.renderStatus(),
		u.renderSeekBar(),
		"",
		u.renderSpectrum(),
		"",
		u.renderVolume(),
		u.renderPreset(),
	}
	if u.errText != "" {
		sections = append(sections, errorStyle.Render(u.errText))
	}
	sections = append(sections, "", dimStyle.Render(
		"space pause  s stop  ←/→ seek  +/- volume  m mute  e eq  a bars  n/p song  q quit"))

	style := frameStyle
	if u.focused == model.MediaPlayer {
		style = focusedFrameStyle
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (u *ui) renderTrack() string {
	if !u.hasSong {
		return dimStyle.Render("no song")
	}

	info := fmt.Sprintf("%s  %d Hz  %d ch", strings.ToUpper(u.song.Format), u.song.SampleRate, u.song.NumChannels)
	if u.song.Album != "" {
		info = u.song.Album + "  " + info
	}

	return trackStyle.Render(display(u.song)) + "\n" + dimStyle.Render(info)
}

func (u *ui) renderStatus() string {
	return statusStyle.Render(u.state.State.String()) + "  " +
		textStyle.Render(model.FormatTime(u.state.Position)+" / "+model.FormatTime(u.song.Duration))
}

func (u *ui) innerWidth() int {
	return max(minBars*barWidth, u.width-frameOverhead)
}

func (u *ui) renderSeekBar() string {
	var progress float64
	if u.song.Duration > 0 {
		progress = float64(u.state.Position) / float64(u.song.Duration)
	}
	progress = lo.Clamp(progress, 0, 1)

	w := u.innerWidth()
	filled := int(progress * float64(w-1))

	return seekFillStyle.Render(strings.Repeat("━", filled)+"●") +
		dimStyle.Render(strings.Repeat("━", max(0, w-filled-1)))
}

func (u *ui) renderVolume() string {
	const w = 20

	filled := int(u.volume.Value() * w)
	bar := volBarStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", w-filled))

	label := fmt.Sprintf(" %3.0f%%", u.volume.Level()*100)
	if u.volume.Muted() {
		label = " muted"
	}

	return labelStyle.Render("VOL ") + bar + dimStyle.Render(label)
}

func (u *ui) renderPreset() string {
	return labelStyle.Render("EQ  ") + textStyle.Render(u.presets[u.preset].Name) +
		dimStyle.Render("  bars: "+u.animation.String())
}

// columns arranges the spectrum, left channel bars then right channel
// bars, for the current animation.
func (u *ui) columns() (up, down []float64) {
	half := len(u.spectrum) / 2
	left, right := u.spectrum[:half], u.spectrum[half:]

	switch u.animation {
	case model.VerticalMirror:
		return left, right[:half]
	case model.MonoVertical:
		return lo.Map(left, func(l float64, i int) float64 { return (l + right[i]) / 2 }), nil
	default:
		cols := make([]float64, 0, len(u.spectrum))
		for i := len(left) - 1; i >= 0; i-- {
			cols = append(cols, left[i])
		}
		return append(cols, right...), nil
	}
}

func (u *ui) renderSpectrum() string {
	up, down := u.columns()

	rows := spectrumRows
	if down != nil {
		rows /= 2
	}

	lines := make([]string, 0, spectrumRows)
	for r := rows - 1; r >= 0; r-- {
		lines = append(lines, renderRow(up, r, rows, false))
	}
	for r := 0; down != nil && r < rows; r++ {
		lines = append(lines, renderRow(down, r, rows, true))
	}

	return strings.Join(lines, "\n")
}

// renderRow draws row r, counted from the baseline, of bars that are rows
// cells high. Downward bars use the block that fills from the top.
func renderRow(levels []float64, r, rows int, downward bool) string {
	var sb strings.Builder

	for _, level := range levels {
		fill := lo.Clamp(level*float64(rows)-float64(r), 0, 1)
		idx := int(fill * float64(len(barBlocks)-1))

		block := barBlocks[idx]
		if downward && idx > 0 {
			block = "█"
			if fill < 0.5 {
				block = "▀"
			}
		}

		style := specLowStyle
		switch {
		case level > 0.75:
			style = specHighStyle
		case level > 0.45:
			style = specMidStyle
		}

		sb.WriteString(style.Render(strings.Repeat(block, barWidth)))
	}

	return sb.String()
}
