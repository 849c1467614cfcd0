// SPDX-License-Identifier: EPL-2.0

// Package controller connects the terminal front end to the player. It
// forwards user actions to the player, turns player notifications into
// events for the front end and runs the spectrum analysis of the audio
// being played.
package controller

import (
	"sync"
	"time"

	"github.com/ik5/audplay/analyzer"
	"github.com/ik5/audplay/event"
	"github.com/ik5/audplay/model"
	"github.com/ik5/audplay/player"
	"github.com/rs/zerolog"
)

const (
	DefaultBars            = 32
	DefaultClearSteps      = 10
	DefaultClearMultiplier = 0.45
	DefaultStepDelay       = 40 * time.Millisecond

	regainSteps = 10
	minRingSize = 16384
)

// Listener is the set of user actions the front end reports.
type Listener interface {
	NotifyFileSelection(path string)
	PauseOrResume()
	Stop()
	ClearCurrentSong()
	SetVolume(v model.Volume)
	ResizeAnalysisOutput(bars int)
	SeekForwardPosition(seconds int)
	SeekBackwardPosition(seconds int)
	ApplyAudioFilters(preset model.EqualizerPreset)
	NotifyPlaylistSelection(playlist model.Playlist)
}

// Options tune the spectrum and its animations.
type Options struct {
	Bars            int
	ClearSteps      int
	ClearMultiplier float64
	StepDelay       time.Duration
	// Regain ramps the spectrum back up when a paused song resumes.
	Regain bool
}

// DefaultOptions match the animations of the terminal front end.
func DefaultOptions() Options {
	return Options{
		Bars:            DefaultBars,
		ClearSteps:      DefaultClearSteps,
		ClearMultiplier: DefaultClearMultiplier,
		StepDelay:       DefaultStepDelay,
		Regain:          true,
	}
}

type animation int

const (
	clearWithRegain animation = iota
	clearWithoutRegain
)

type Controller struct {
	log      zerolog.Logger
	player   player.Control
	sender   event.Sender
	analyzer analyzer.Analyzer
	opts     Options

	mu      sync.Mutex
	ring    *ring
	pending []animation
	// last is the latest analyzed spectrum, kept across a pause.
	last   []float64
	regain []float64
	atRest bool

	signal    chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ Listener        = (*Controller)(nil)
	_ player.Notifier = (*Controller)(nil)
)

// New starts the analysis goroutine and posts an empty spectrum. Use Close
// to stop it.
func New(log zerolog.Logger, ctl player.Control, sender event.Sender, an analyzer.Analyzer, opts Options) (*Controller, error) {
	def := DefaultOptions()
	if opts.Bars <= 0 {
		opts.Bars = def.Bars
	}
	if opts.ClearSteps <= 0 {
		opts.ClearSteps = def.ClearSteps
	}
	if opts.ClearMultiplier <= 0 || opts.ClearMultiplier >= 1 {
		opts.ClearMultiplier = def.ClearMultiplier
	}
	if opts.StepDelay < 0 {
		opts.StepDelay = 0
	}

	if err := an.Init(opts.Bars); err != nil {
		return nil, err
	}

	c := &Controller{
		log:      log.With().Str("component", "controller").Logger(),
		player:   ctl,
		sender:   sender,
		analyzer: an,
		opts:     opts,
		ring:     newRing(ringSize(an.BufferSize())),
		atRest:   true,
		signal:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	c.sender.Send(event.Spectrum(make([]float64, an.OutputSize())))

	go c.analysisLoop()

	return c, nil
}

func ringSize(bufferSize int) int {
	return max(minRingSize, 8*bufferSize)
}

// Close stops the analysis goroutine.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() { close(c.quit) })
	<-c.done

	return nil
}

func (c *Controller) wake() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}

func (c *Controller) animate(a animation) {
	c.mu.Lock()
	c.pending = append(c.pending, a)
	c.mu.Unlock()

	c.wake()
}

func (c *Controller) NotifyFileSelection(path string) { c.player.Play(path) }
func (c *Controller) PauseOrResume() { c.player.PauseOrResume() }
func (c *Controller) Stop() { c.player.Stop() }
func (c *Controller) ClearCurrentSong() { c.player.Stop() }
func (c *Controller) SeekForwardPosition(seconds int) { c.player.SeekForward(seconds) }

func (c *Controller) SeekBackwardPosition(seconds int) { c.player.SeekBackward(seconds) }

func (c *Controller) ApplyAudioFilters(preset model.EqualizerPreset) {
	c.player.ApplyFilters(preset)
}

func (c *Controller) NotifyPlaylistSelection(playlist model.Playlist) {
	c.player.PlayPlaylist(playlist)
}

func (c *Controller) SetVolume(v model.Volume) {
	c.player.SetAudioVolume(v)
	c.sender.Send(event.Volume(v))
}

// ResizeAnalysisOutput rebuilds the analyzer for bars output values and
// posts an empty spectrum of that size. A frame being analyzed meanwhile is
// dropped.
func (c *Controller) ResizeAnalysisOutput(bars int) {
	c.mu.Lock()
	if err := c.analyzer.Init(bars); err != nil {
		c.mu.Unlock()
		c.log.Warn().Err(err).Int("bars", bars).Msg("cannot resize analysis")
		return
	}

	c.ring = newRing(ringSize(c.analyzer.BufferSize()))
	c.last, c.regain = nil, nil
	c.atRest = true
	size := c.analyzer.OutputSize()
	c.mu.Unlock()

	c.sender.Send(event.Spectrum(make([]float64, size)))
}

// HandleEvent dispatches a front end action and reports whether ev was
// one.
func (c *Controller) HandleEvent(ev event.Event) bool {
	switch ev.ID {
	case event.NotifyFileSelection:
		c.NotifyFileSelection(ev.Path())
	case event.PauseOrResumeSong:
		c.PauseOrResume()
	case event.StopSong:
		c.Stop()
	case event.ClearCurrentSong:
		c.ClearCurrentSong()
	case event.SetAudioVolume:
		c.SetVolume(ev.Volume())
	case event.ResizeAnalysis:
		c.ResizeAnalysisOutput(ev.Int())
	case event.SeekForwardPosition:
		c.SeekForwardPosition(ev.Int())
	case event.SeekBackwardPosition:
		c.SeekBackwardPosition(ev.Int())
	case event.ApplyAudioFilters:
		c.ApplyAudioFilters(ev.Preset())
	case event.NotifyPlaylistSelection:
		c.NotifyPlaylistSelection(ev.Playlist())
	default:
		return false
	}

	return true
}

// ClearSongInformation posts ClearSongInfo before any clear animation frame.
func (c *Controller) ClearSongInformation(playing bool) {
	c.sender.Send(event.ClearSong())

	if playing {
		c.animate(clearWithoutRegain)
	}
}

func (c *Controller) NotifySongInformation(song model.Song) {
	c.sender.Send(event.SongInfo(song))
}

// NotifySongState posts the state ahead of the animation it starts.
func (c *Controller) NotifySongState(state model.SongState) {
	c.sender.Send(event.SongState(state))

	switch state.State {
	case model.Pause:
		c.animate(clearWithRegain)
	case model.Stop, model.Finished:
		c.animate(clearWithoutRegain)
	}
}

func (c *Controller) SendAudioRaw(samples []int16) {
	c.mu.Lock()
	c.ring.WriteInt16(samples)
	c.mu.Unlock()

	c.wake()
}

func (c *Controller) NotifyError(code model.ErrorCode) {
	c.log.Error().Stringer("code", code).Msg(code.Message())
	c.sender.Send(event.Error(code))
}
