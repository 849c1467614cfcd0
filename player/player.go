// SPDX-License-Identifier: EPL-2.0

// Package player runs the playback goroutine: it opens songs on the
// decoder, writes the decoded chunks to the output sink and reports every
// state change to a Notifier.
package player

import (
	"errors"
	"sync"

	"github.com/ik5/audplay/decoder"
	"github.com/ik5/audplay/model"
	"github.com/ik5/audplay/playback"
	"github.com/rs/zerolog"
)

// Notifier receives the playback events, always from the playback
// goroutine.
type Notifier interface {
	// ClearSongInformation tells the song is gone. playing is false when
	// no audio was played yet.
	ClearSongInformation(playing bool)
	NotifySongInformation(song model.Song)
	NotifySongState(state model.SongState)
	// SendAudioRaw hands over the interleaved s16 stereo samples just
	// written to the sink. samples is reused after the call returns.
	SendAudioRaw(samples []int16)
	NotifyError(code model.ErrorCode)
}

// Control is the command surface of the player. Every method queues a
// command and returns at once.
type Control interface {
	Play(path string)
	PlayPlaylist(playlist model.Playlist)
	PauseOrResume()
	Stop()
	SetAudioVolume(v model.Volume)
	AudioVolume() model.Volume
	SeekForward(seconds int)
	SeekBackward(seconds int)
	ApplyFilters(preset model.EqualizerPreset)
	Exit()
}

// Options tune a Player.
type Options struct {
	// ChunkFrames is the number of stereo frames per decoded chunk.
	ChunkFrames int
}

type Player struct {
	log   zerolog.Logger
	dec   decoder.Decoder
	out   playback.Playback
	opts  Options
	queue *commandQueue
	done  chan struct{}

	mu       sync.Mutex
	notifier Notifier
	state    model.SongState
	song     model.Song
	volume   model.Volume
	playlist *model.Playlist
}

var _ Control = (*Player)(nil)

// New starts the playback goroutine. Use Close to stop it.
func New(log zerolog.Logger, dec decoder.Decoder, out playback.Playback, opts Options) *Player {
	if opts.ChunkFrames <= 0 {
		opts.ChunkFrames = decoder.DefaultChunkFrames
	}

	p := &Player{
		log:    log.With().Str("component", "player").Logger(),
		dec:    dec,
		out:    out,
		opts:   opts,
		queue:  newCommandQueue(),
		done:   make(chan struct{}),
		volume: dec.Volume(),
	}

	go p.loop()

	return p
}

// RegisterNotifier sets the receiver of playback events.
func (p *Player) RegisterNotifier(n Notifier) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.notifier = n
}

func (p *Player) Play(path string) {
	p.log.Debug().Str("path", path).Msg("queue play")
	p.queue.Push(command{id: cmdPlay, path: path})
}

func (p *Player) PlayPlaylist(playlist model.Playlist) {
	p.log.Debug().Str("playlist", playlist.Name).Int("index", playlist.Index).Msg("queue playlist")
	playlist.Songs = append([]model.Song(nil), playlist.Songs...)
	p.queue.Push(command{id: cmdPlayPlaylist, playlist: playlist})
}

func (p *Player) PauseOrResume() {
	p.log.Debug().Msg("queue pause or resume")
	p.queue.Push(command{id: cmdPauseOrResume})
}

func (p *Player) Stop() {
	p.log.Debug().Msg("queue stop")
	p.queue.Push(command{id: cmdStop})
}

// SetAudioVolume records v at once and queues it for the decoder.
func (p *Player) SetAudioVolume(v model.Volume) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()

	p.log.Debug().Stringer("volume", v).Msg("queue volume")
	p.queue.Push(command{id: cmdSetVolume, volume: v})
}

func (p *Player) AudioVolume() model.Volume {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.volume
}

func (p *Player) SeekForward(seconds int) {
	p.log.Debug().Int("seconds", seconds).Msg("queue seek forward")
	p.queue.Push(command{id: cmdSeekForward, seconds: seconds})
}

func (p *Player) SeekBackward(seconds int) {
	p.log.Debug().Int("seconds", seconds).Msg("queue seek backward")
	p.queue.Push(command{id: cmdSeekBackward, seconds: seconds})
}

func (p *Player) ApplyFilters(preset model.EqualizerPreset) {
	p.log.Debug().Str("preset", preset.Name).Msg("queue filters")
	p.queue.Push(command{id: cmdApplyFilters, preset: preset.Clone()})
}

// Exit drops every queued command and ends the playback goroutine.
func (p *Player) Exit() {
	p.log.Debug().Msg("queue exit")
	p.queue.Push(command{id: cmdExit})
}

// Done is closed when the playback goroutine returned.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Close exits, waits for the playback goroutine and closes the sink.
func (p *Player) Close() error {
	p.Exit()
	<-p.done

	return p.out.Close()
}

// State returns the current song state.
func (p *Player) State() model.SongState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Song returns the song being played, with its metadata.
func (p *Player) Song() model.Song {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.song
}

func (p *Player) notify() Notifier {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.notifier == nil {
		return discardNotifier{}
	}

	return p.notifier
}

func (p *Player) setState(s model.SongState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Player) publishState(s model.SongState) {
	p.setState(s)
	p.notify().NotifySongState(s)
}

// loop waits for something to play. Commands that need a song are
// dropped while idle, volume and filters still reach the decoder.
func (p *Player) loop() {
	defer close(p.done)
	defer p.queue.Close()

	p.log.Debug().Msg("playback loop started")

	for {
		cmd, ok := p.queue.Pop()
		if !ok {
			return
		}

		switch cmd.id {
		case cmdPlay:
			p.setPlaylist(nil)
			if p.playSongs(model.Song{Filepath: cmd.path}) {
				return
			}

		case cmdPlayPlaylist:
			song, ok := cmd.playlist.Current()
			if !ok {
				p.log.Warn().Str("playlist", cmd.playlist.Name).Msg("playlist has no song at index")
				continue
			}
			p.setPlaylist(&cmd.playlist)
			if p.playSongs(song) {
				return
			}

		case cmdSetVolume:
			if err := p.dec.SetVolume(cmd.volume); err != nil {
				p.notify().NotifyError(decoder.CodeOf(err))
			}

		case cmdApplyFilters:
			if err := p.dec.UpdateFilters(cmd.preset); err != nil {
				p.notify().NotifyError(decoder.CodeOf(err))
			}

		case cmdExit:
			p.log.Debug().Msg("playback loop finished")
			return

		default:
			p.log.Debug().Stringer("command", cmd.id).Msg("ignored while idle")
		}
	}
}

func (p *Player) setPlaylist(pl *model.Playlist) {
	p.mu.Lock()
	p.playlist = pl
	p.mu.Unlock()
}

// nextInPlaylist advances the playlist, if any.
func (p *Player) nextInPlaylist() (model.Song, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playlist == nil {
		return model.Song{}, false
	}

	next, ok := p.playlist.Next()
	if !ok {
		p.playlist = nil
		return model.Song{}, false
	}

	p.playlist = &next
	song, _ := next.Current()

	return song, true
}

// playSongs plays song and, while a playlist is active, the songs after
// it. It reports whether the player must exit.
func (p *Player) playSongs(song model.Song) bool {
	for {
		end := p.playSong(song)

		switch end {
		case endExit:
			return true
		case endFinished:
			next, ok := p.nextInPlaylist()
			if !ok {
				p.notify().ClearSongInformation(true)
				return false
			}
			song = next
		default:
			return false
		}
	}
}

func errorCode(err error) model.ErrorCode {
	if errors.Is(err, playback.ErrDevice) {
		return model.SetupAudioParamsFailed
	}

	return decoder.CodeOf(err)
}

type discardNotifier struct{}

func (discardNotifier) ClearSongInformation(bool) {}
func (discardNotifier) NotifySongInformation(model.Song) {}
func (discardNotifier) NotifySongState(model.SongState) {}
func (discardNotifier) SendAudioRaw([]int16) {}
func (discardNotifier) NotifyError(model.ErrorCode) {}
