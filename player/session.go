// SPDX-License-Identifier: EPL-2.0

package player

import (
	"github.com/ik5/audplay/decoder"
	"github.com/ik5/audplay/model"
	"github.com/ik5/audplay/playback"
)

// songEnd tells why a song stopped playing.
type songEnd int

const (
	endFinished songEnd = iota
	endStopped
	endReplaced
	endFailed
	endExit
)

// playing is the bookkeeping of the song on the playback goroutine.
type playing struct {
	song model.Song
	// last is the last published position, -1 before the first chunk.
	last int64
	// pending is the target of a seek not reflected by a chunk yet, or -1.
	pending int64

	end songEnd
	err error
}

func (s *playing) fail(err error) bool {
	s.err = err
	s.end = endFailed

	return false
}

// playSong opens song, plays it to the end or until a command ends it, and
// tears the session down.
func (p *Player) playSong(song model.Song) songEnd {
	p.notify().ClearSongInformation(false)

	if err := p.dec.Open(&song); err != nil {
		p.log.Error().Err(err).Str("song", song.Source()).Msg("cannot open song")
		p.dec.ClearCache()
		p.clearSong()
		p.notify().NotifyError(decoder.CodeOf(err))

		return endFailed
	}

	p.mu.Lock()
	p.song = song
	p.state = model.SongState{State: model.Play}
	p.mu.Unlock()

	p.notify().NotifySongInformation(song)

	s := &playing{song: song, last: -1, pending: -1}

	if err := p.out.Prepare(); err != nil {
		s.fail(err)
	} else {
		err := p.dec.Decode(p.opts.ChunkFrames, func(samples []int16, position int64) bool {
			return p.handleChunk(s, samples, position)
		})
		if err != nil && s.err == nil {
			s.fail(err)
		}
	}

	return p.teardown(s)
}

func (p *Player) teardown(s *playing) songEnd {
	log := p.log.With().Str("song", s.song.Source()).Logger()

	switch s.end {
	case endFailed:
		log.Error().Err(s.err).Msg("playback failed")
		_ = p.out.Pause()
		p.dec.ClearCache()
		p.clearSong()
		p.notify().ClearSongInformation(s.last >= 0)
		p.notify().NotifyError(errorCode(s.err))

	case endStopped:
		log.Info().Int64("position", max(s.last, 0)).Msg("stopped")
		_ = p.out.Pause()
		p.publishState(model.SongState{State: model.Stop, Position: max(s.last, 0)})
		p.dec.ClearCache()
		p.clearSong()
		p.notify().ClearSongInformation(true)

	case endReplaced, endExit:
		log.Debug().Msg("interrupted")
		_ = p.out.Pause()
		p.dec.ClearCache()
		p.clearSong()

	case endFinished:
		if err := p.out.Drain(); err != nil {
			log.Warn().Err(err).Msg("drain failed")
		}

		position := s.song.Duration
		if position <= 0 {
			position = max(s.last, 0)
		}

		log.Info().Msg("finished")
		p.publishState(model.SongState{State: model.Finished, Position: position})
		p.dec.ClearCache()
		p.clearSong()
	}

	return s.end
}

// clearSong returns to Empty.
func (p *Player) clearSong() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.song = model.Song{}
	p.state = model.SongState{State: model.Empty}
}

// handleChunk runs pending commands, then plays one decoded chunk.
func (p *Player) handleChunk(s *playing, samples []int16, position int64) bool {
	seeked := false

	for {
		cmd, ok := p.queue.TryPop()
		if !ok {
			break
		}
		if !p.handleCommand(s, cmd, &seeked) {
			return false
		}
	}

	// The chunk was decoded before the seek.
	if seeked {
		return true
	}

	if err := playback.WriteAll(p.out, samples); err != nil {
		return s.fail(err)
	}

	p.notify().SendAudioRaw(samples)

	s.pending = -1
	if position != s.last {
		s.last = position
		p.publishState(model.SongState{State: model.Play, Position: position})
	}

	return true
}

// handleCommand applies cmd to the playing song and reports whether
// decoding goes on.
func (p *Player) handleCommand(s *playing, cmd command, seeked *bool) bool {
	switch cmd.id {
	case cmdPlay, cmdPlayPlaylist:
		p.queue.PushFront(cmd)
		s.end = endReplaced
		return false

	case cmdStop:
		p.setPlaylist(nil)
		s.end = endStopped
		return false

	case cmdExit:
		s.end = endExit
		return false

	case cmdPauseOrResume:
		return p.pause(s, seeked)

	case cmdSeekForward:
		p.seek(s, int64(cmd.seconds))
		*seeked = true

	case cmdSeekBackward:
		p.seek(s, -int64(cmd.seconds))
		*seeked = true

	case cmdSetVolume:
		if err := p.dec.SetVolume(cmd.volume); err != nil {
			return s.fail(err)
		}

	case cmdApplyFilters:
		if err := p.dec.UpdateFilters(cmd.preset); err != nil {
			return s.fail(err)
		}
	}

	return true
}

// pause silences the sink and blocks on the command queue until the song
// is resumed, replaced or stopped. Other commands still apply while paused.
func (p *Player) pause(s *playing, seeked *bool) bool {
	if err := p.out.Pause(); err != nil {
		return s.fail(err)
	}

	position := max(s.last, 0)
	p.publishState(model.SongState{State: model.Pause, Position: position})

	for {
		cmd, ok := p.queue.Pop()
		if !ok {
			s.end = endExit
			return false
		}

		if cmd.id != cmdPauseOrResume {
			if !p.handleCommand(s, cmd, seeked) {
				return false
			}
			continue
		}

		if err := p.out.Prepare(); err != nil {
			return s.fail(err)
		}
		p.publishState(model.SongState{State: model.Play, Position: position})

		return true
	}
}

// seek moves the playing position by delta seconds, within the song.
func (p *Player) seek(s *playing, delta int64) {
	base := max(s.last, 0)
	if s.pending >= 0 {
		base = s.pending
	}

	target := max(base+delta, 0)
	if s.song.Duration > 0 {
		target = min(target, s.song.Duration)
	}

	p.log.Debug().Int64("from", base).Int64("to", target).Msg("seek")

	s.pending = target
	p.dec.SetPosition(target)
}
