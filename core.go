// SPDX-License-Identifier: EPL-2.0

package audplay

import (
	"fmt"
	"sync"

	"github.com/ik5/audplay/analyzer"
	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/controller"
	"github.com/ik5/audplay/decoder"
	"github.com/ik5/audplay/event"
	"github.com/ik5/audplay/model"
	"github.com/ik5/audplay/playback"
	"github.com/ik5/audplay/playback/speaker"
	"github.com/ik5/audplay/playback/wavfile"
	"github.com/ik5/audplay/player"
	"github.com/rs/zerolog"
)

// Core owns the components of a running player. The UI reads Events and
// talks back through Controller.
type Core struct {
	Config     *config.Config
	Decoder    *decoder.Engine
	Player     *player.Player
	Controller *controller.Controller
	Events     *event.Queue

	log       zerolog.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewOutput builds the sink selected by cfg.Driver.
func NewOutput(log zerolog.Logger, cfg config.Output) (playback.Playback, error) {
	switch cfg.Driver {
	case config.DriverSpeaker:
		return speaker.New(log, cfg.Buffer), nil
	case config.DriverWAV:
		return wavfile.New(log, cfg.File), nil
	case config.DriverNull:
		return playback.NewDiscard(true), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// New starts a Core writing to the configured output driver.
func New(log zerolog.Logger, cfg *config.Config) (*Core, error) {
	out, err := NewOutput(log, cfg.Output)
	if err != nil {
		return nil, err
	}

	return NewWithOutput(log, cfg, out)
}

// NewWithOutput starts a Core writing to out. The Core closes out.
func NewWithOutput(log zerolog.Logger, cfg *config.Config, out playback.Playback) (*Core, error) {
	dec := decoder.New(log, decoder.Options{
		Reconnect:      cfg.Stream.Reconnect,
		ReconnectDelay: cfg.Stream.ReconnectDelay,
		Timeout:        cfg.Stream.Timeout,
		UserAgent:      cfg.Stream.UserAgent,
	})
	events := event.NewQueue(cfg.Events.Capacity)
	p := player.New(log, dec, out, player.Options{ChunkFrames: cfg.Player.ChunkFrames})

	ctl, err := controller.New(log, p, events, analyzer.New(cfg.Analysis.Window), controller.Options{
		Bars:            cfg.Analysis.Bars,
		ClearSteps:      cfg.Animation.ClearSteps,
		ClearMultiplier: cfg.Animation.ClearMultiplier,
		StepDelay:       cfg.Animation.StepDelay,
		Regain:          cfg.Animation.Regain,
	})
	if err != nil {
		_ = p.Close()
		_ = dec.Close()
		events.Close()

		return nil, fmt.Errorf("start controller: %w", err)
	}

	p.RegisterNotifier(ctl)

	ctl.SetVolume(model.NewVolume(cfg.Player.Volume))
	ctl.ApplyAudioFilters(cfg.Preset())

	c := &Core{
		Config:     cfg,
		Decoder:    dec,
		Player:     p,
		Controller: ctl,
		Events:     events,
		log:        log.With().Str("component", "core").Logger(),
	}

	c.log.Info().
		Str("driver", cfg.Output.Driver).
		Int("bars", cfg.Analysis.Bars).
		Str("preset", cfg.Player.Preset).
		Msg("core started")

	return c, nil
}

// HandleEvent hands a front end action to the controller and reports
// whether it was one. Drawing events and Exit stay with the host.
func (c *Core) HandleEvent(ev event.Event) bool {
	return c.Controller.HandleEvent(ev)
}

// Close stops playback and every goroutine, then closes the event queue.
// It is safe to call more than once.
func (c *Core) Close() error {
	c.closeOnce.Do(func() {
		// the player goes first, it is the only caller of the controller
		// notifier methods
		if err := c.Player.Close(); err != nil {
			c.closeErr = fmt.Errorf("close player: %w", err)
		}
		if err := c.Controller.Close(); err != nil && c.closeErr == nil {
			c.closeErr = fmt.Errorf("close controller: %w", err)
		}
		if err := c.Decoder.Close(); err != nil && c.closeErr == nil {
			c.closeErr = fmt.Errorf("close decoder: %w", err)
		}
		c.Events.Close()

		c.log.Info().Msg("core closed")
	})

	return c.closeErr
}
