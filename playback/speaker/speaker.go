// SPDX-License-Identifier: EPL-2.0

// Package speaker plays audio on the default output device.
package speaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/ik5/audplay/playback"
	"github.com/ik5/audplay/utils"
	"github.com/rs/zerolog"
)

// DefaultBuffer is the device latency used when none is given.
const DefaultBuffer = 100 * time.Millisecond

// Speaker queues written samples in a ring that the device pulls from.
// Write blocks while the ring is full. The device plays silence when the
// ring runs dry or while paused.
type Speaker struct {
	log    zerolog.Logger
	buffer time.Duration

	mu     sync.Mutex
	cond   *sync.Cond
	ring   []int16
	start  int
	count  int
	paused bool
	closed bool
	open   bool
}

var (
	_ playback.Playback = (*Speaker)(nil)
	_ beep.Streamer     = (*Speaker)(nil)
)

// New returns a speaker with a queue of twice the device buffer. The device
// is opened by the first Prepare.
func New(log zerolog.Logger, buffer time.Duration) *Speaker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	frames := beep.SampleRate(playback.SampleRate).N(buffer)
	s := &Speaker{
		log:    log.With().Str("component", "speaker").Logger(),
		buffer: buffer,
		ring:   make([]int16, 2*frames*playback.Channels),
	}
	s.cond = sync.NewCond(&s.mu)

	return s
}

func (s *Speaker) Prepare() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return playback.ErrClosed
	}
	s.paused = false
	open := s.open
	s.mu.Unlock()

	if open {
		return nil
	}

	sr := beep.SampleRate(playback.SampleRate)
	if err := speaker.Init(sr, sr.N(s.buffer)); err != nil {
		return fmt.Errorf("init speaker: %w: %w", playback.ErrDevice, err)
	}
	speaker.Play(s)

	s.mu.Lock()
	s.open = true
	s.mu.Unlock()

	s.log.Debug().Dur("buffer", s.buffer).Msg("speaker opened")

	return nil
}

func (s *Speaker) Write(samples []int16) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.closed && s.count == len(s.ring) {
		s.cond.Wait()
	}
	if s.closed {
		return 0, playback.ErrClosed
	}

	n := min(len(samples), len(s.ring)-s.count)
	n -= n % playback.Channels

	end := (s.start + s.count) % len(s.ring)
	for i := range n {
		s.ring[(end+i)%len(s.ring)] = samples[i]
	}
	s.count += n

	return n, nil
}

// Stream feeds the device. It never ends the stream.
func (s *Speaker) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range samples {
		if s.paused || s.count < playback.Channels {
			samples[i] = [2]float64{}
			continue
		}

		samples[i][0] = float64(utils.Int16ToFloat32(s.ring[s.start]))
		samples[i][1] = float64(utils.Int16ToFloat32(s.ring[(s.start+1)%len(s.ring)]))
		s.start = (s.start + playback.Channels) % len(s.ring)
		s.count -= playback.Channels
	}

	s.cond.Broadcast()

	return len(samples), true
}

func (s *Speaker) Err() error { return nil }

func (s *Speaker) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = true
	s.start, s.count = 0, 0
	s.cond.Broadcast()

	return nil
}

func (s *Speaker) Drain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.closed && !s.paused && s.count > 0 {
		s.cond.Wait()
	}

	return nil
}

// Queued is the number of samples waiting for the device.
func (s *Speaker) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

func (s *Speaker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	open := s.open
	s.cond.Broadcast()
	s.mu.Unlock()

	if open {
		speaker.Clear()
		speaker.Close()
	}

	return nil
}
