// SPDX-License-Identifier: EPL-2.0

// Package event carries the tagged values exchanged between the terminal
// front end and the media controller, and the queue that delivers them to
// the front end.
package event

import (
	"fmt"

	"github.com/ik5/audplay/model"
)

// Identifier tags an Event and fixes the type of its payload.
type Identifier int

const (
	Unknown Identifier = iota

	// Front end to controller.
	NotifyFileSelection     // string
	PauseOrResumeSong       // none
	StopSong                // none
	ClearCurrentSong        // none
	SetAudioVolume          // model.Volume
	ResizeAnalysis          // int
	SeekForwardPosition     // int
	SeekBackwardPosition    // int
	ApplyAudioFilters       // model.EqualizerPreset
	NotifyPlaylistSelection // model.Playlist

	// Controller to front end.
	ClearSongInfo     // none
	UpdateSongInfo    // model.Song
	UpdateSongState   // model.SongState
	UpdateVolume      // model.Volume
	DrawAudioSpectrum // []float64
	NotifyError       // model.ErrorCode

	// Front end only.
	Refresh               // none
	CalculateNumberOfBars // int
	ChangeBarAnimation    // model.BarAnimation
	UpdateBarWidth        // none
	SetFocused            // model.BlockIdentifier
	Exit                  // none
)

var identifierNames = map[Identifier]string{
	Unknown:                 "Unknown",
	NotifyFileSelection:     "NotifyFileSelection",
	PauseOrResumeSong:       "PauseOrResumeSong",
	StopSong:                "StopSong",
	ClearCurrentSong:        "ClearCurrentSong",
	SetAudioVolume:          "SetAudioVolume",
	ResizeAnalysis:          "ResizeAnalysis",
	SeekForwardPosition:     "SeekForwardPosition",
	SeekBackwardPosition:    "SeekBackwardPosition",
	ApplyAudioFilters:       "ApplyAudioFilters",
	NotifyPlaylistSelection: "NotifyPlaylistSelection",
	ClearSongInfo:           "ClearSongInfo",
	UpdateSongInfo:          "UpdateSongInfo",
	UpdateSongState:         "UpdateSongState",
	UpdateVolume:            "UpdateVolume",
	DrawAudioSpectrum:       "DrawAudioSpectrum",
	NotifyError:             "NotifyError",
	Refresh:                 "Refresh",
	CalculateNumberOfBars:   "CalculateNumberOfBars",
	ChangeBarAnimation:      "ChangeBarAnimation",
	UpdateBarWidth:          "UpdateBarWidth",
	SetFocused:              "SetFocused",
	Exit:                    "Exit",
}

func (id Identifier) String() string {
	if name, ok := identifierNames[id]; ok {
		return name
	}

	return fmt.Sprintf("Identifier(%d)", int(id))
}

// Droppable reports whether events of this kind may be discarded under
// back-pressure. Only drawing events are.
func (id Identifier) Droppable() bool {
	return id == DrawAudioSpectrum || id == Refresh
}

// Event is an immutable tagged value. Use the constructors below, the
// payload accessors return the zero value for events of another kind.
type Event struct {
	ID      Identifier
	payload any
}

func (e Event) String() string {
	if e.payload == nil {
		return e.ID.String()
	}

	return fmt.Sprintf("%s(%v)", e.ID, e.payload)
}

func (e Event) Path() string {
	v, _ := e.payload.(string)
	return v
}

func (e Event) Int() int {
	v, _ := e.payload.(int)
	return v
}

func (e Event) Song() model.Song {
	v, _ := e.payload.(model.Song)
	return v
}

func (e Event) SongState() model.SongState {
	v, _ := e.payload.(model.SongState)
	return v
}

func (e Event) Volume() model.Volume {
	v, _ := e.payload.(model.Volume)
	return v
}

// Spectrum returns the bars of a DrawAudioSpectrum event. The slice is
// shared with every receiver and must not be modified.
func (e Event) Spectrum() []float64 {
	v, _ := e.payload.([]float64)
	return v
}

func (e Event) Preset() model.EqualizerPreset {
	v, _ := e.payload.(model.EqualizerPreset)
	return v
}

func (e Event) Playlist() model.Playlist {
	v, _ := e.payload.(model.Playlist)
	return v
}

func (e Event) ErrorCode() model.ErrorCode {
	v, _ := e.payload.(model.ErrorCode)
	return v
}

func (e Event) BarAnimation() model.BarAnimation {
	v, _ := e.payload.(model.BarAnimation)
	return v
}

func (e Event) Block() model.BlockIdentifier {
	v, _ := e.payload.(model.BlockIdentifier)
	return v
}

func newEvent(id Identifier, payload any) Event {
	return Event{ID: id, payload: payload}
}

func FileSelection(path string) Event { return newEvent(NotifyFileSelection, path) }
func PauseOrResume() Event { return newEvent(PauseOrResumeSong, nil) }
func Stop() Event { return newEvent(StopSong, nil) }
func ClearCurrent() Event { return newEvent(ClearCurrentSong, nil) }
func SetVolume(v model.Volume) Event { return newEvent(SetAudioVolume, v) }
func Resize(bars int) Event { return newEvent(ResizeAnalysis, bars) }
func SeekForward(seconds int) Event { return newEvent(SeekForwardPosition, seconds) }
func SeekBackward(seconds int) Event { return newEvent(SeekBackwardPosition, seconds) }

func ApplyFilters(p model.EqualizerPreset) Event {
	return newEvent(ApplyAudioFilters, p.Clone())
}

func PlaylistSelection(p model.Playlist) Event {
	p.Songs = append([]model.Song(nil), p.Songs...)
	return newEvent(NotifyPlaylistSelection, p)
}

func ClearSong() Event { return newEvent(ClearSongInfo, nil) }
func SongInfo(s model.Song) Event { return newEvent(UpdateSongInfo, s) }
func SongState(s model.SongState) Event { return newEvent(UpdateSongState, s) }
func Volume(v model.Volume) Event { return newEvent(UpdateVolume, v) }
func Error(code model.ErrorCode) Event { return newEvent(NotifyError, code) }
func Redraw() Event { return newEvent(Refresh, nil) }
func NumberOfBars(n int) Event { return newEvent(CalculateNumberOfBars, n) }
func BarAnimation(a model.BarAnimation) Event { return newEvent(ChangeBarAnimation, a) }
func BarWidth() Event { return newEvent(UpdateBarWidth, nil) }
func Focus(b model.BlockIdentifier) Event { return newEvent(SetFocused, b) }
func Quit() Event { return newEvent(Exit, nil) }

// Spectrum copies bars into a DrawAudioSpectrum event.
func Spectrum(bars []float64) Event {
	return newEvent(DrawAudioSpectrum, append([]float64(nil), bars...))
}
