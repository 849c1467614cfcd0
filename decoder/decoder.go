// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/filter"
	"github.com/ik5/audplay/model"
	"github.com/rs/zerolog"
)

// DefaultChunkFrames is used when Decode gets a non-positive chunk size.
const DefaultChunkFrames = 1024

const noSeek = -1

// FrameFunc receives each chunk of interleaved s16 stereo samples at
// 44100 Hz and the position, in seconds, of its first frame. samples is
// reused after the call returns. Returning false stops decoding.
type FrameFunc = func(samples []int16, position int64) bool

// Decoder turns songs into fixed format PCM chunks with live volume and
// equalization.
type Decoder interface {
	// ContainsAudioStream reports whether path can be decoded.
	ContainsAudioStream(path string) bool
	// Open replaces the current session with one for song and fills the
	// song metadata.
	Open(song *model.Song) error
	// Decode runs the pull loop of the open session until end of input,
	// until fn returns false or until an error.
	Decode(samplesPerChunk int, fn FrameFunc) error
	// SetPosition requests a seek to seconds, applied at the next chunk.
	SetPosition(seconds int64)
	ClearCache()
	SetVolume(v model.Volume) error
	Volume() model.Volume
	UpdateFilters(preset model.EqualizerPreset) error
}

// Options configure an Engine.
type Options struct {
	Registry       *audio.Registry
	HTTPClient     *http.Client
	Reconnect      int
	ReconnectDelay time.Duration
	Timeout        time.Duration
	UserAgent      string
}

// Engine is the Decoder built on the format registry and the filter graph.
type Engine struct {
	log  zerolog.Logger
	opts Options
	ctx  context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	sess    *session
	volume  model.Volume
	filters []model.AudioFilter

	resetFilters atomic.Bool
	seekTarget   atomic.Int64
}

func New(log zerolog.Logger, opts Options) *Engine {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: opts.Timeout}).DialContext,
				TLSHandshakeTimeout:   opts.Timeout,
				ResponseHeaderTimeout: opts.Timeout,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConnsPerHost:   2,
			},
		}
	}

	ctx, stop := context.WithCancel(context.Background())

	e := &Engine{
		log:     log.With().Str("component", "decoder").Logger(),
		opts:    opts,
		ctx:     ctx,
		stop:    stop,
		volume:  model.NewVolume(1),
		filters: model.CustomPreset().Filters,
	}
	e.seekTarget.Store(noSeek)

	return e
}

// Close aborts pending network reads and releases the session.
func (e *Engine) Close() error {
	e.stop()
	e.ClearCache()

	return nil
}

func (e *Engine) current() *session {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sess
}

func (e *Engine) ContainsAudioStream(path string) bool {
	s, err := e.openSession(e.ctx, path, nil)
	if err != nil {
		return false
	}
	s.close()

	return true
}

func (e *Engine) Open(song *model.Song) error {
	e.ClearCache()

	s, err := e.openSession(e.ctx, song.Source(), song.Stream.Headers)
	if err != nil {
		e.ClearCache()
		return err
	}

	e.mu.Lock()
	volume, filters := e.volume, e.filters
	e.mu.Unlock()

	s.graph, err = filter.New(s.src, filter.Options{Volume: volume.Value(), Filters: filters})
	if err != nil {
		s.close()
		e.ClearCache()
		return newError(model.UnknownError, "build graph", err)
	}

	song.Artist = s.tags.artist
	song.Title = s.tags.title
	song.Album = s.tags.album
	if song.Title == "" {
		song.Title = fallbackTitle(song.Source())
	}
	song.Format = s.format
	song.NumChannels = s.src.Channels()
	song.SampleRate = s.rate
	song.Duration = s.duration
	song.BitDepth = 0
	if bd, ok := s.src.(audio.BitDepther); ok {
		song.BitDepth = bd.BitDepth()
	}
	song.BitRate = 0
	if size := s.in.Size(); size > 0 && s.duration > 0 {
		song.BitRate = int(size * 8 / s.duration)
	}

	e.resetFilters.Store(false)
	e.seekTarget.Store(noSeek)

	e.mu.Lock()
	e.sess = s
	e.mu.Unlock()

	e.log.Info().Str("song", song.Source()).Str("format", s.format).
		Int("rate", s.rate).Int64("duration", s.duration).Msg("opened song")

	return nil
}

func (e *Engine) Decode(samplesPerChunk int, fn FrameFunc) error {
	s := e.current()
	if s == nil || s.graph == nil {
		return newError(model.DecodeFileFailed, "decode", ErrNoSession)
	}

	if samplesPerChunk <= 0 {
		samplesPerChunk = DefaultChunkFrames
	}
	buf := make([]int16, samplesPerChunk*filter.Channels)

	for {
		if e.resetFilters.Swap(false) {
			if err := e.rebuild(s); err != nil {
				return newError(model.UnknownError, "reset filters", err)
			}
		}

		if target := e.seekTarget.Swap(noSeek); target != noSeek {
			if err := e.seek(e.ctx, s, target); err != nil {
				return newError(model.SeekFrameFailed, "seek", err)
			}
		}

		n, err := s.graph.Pull(buf)
		if n > 0 {
			pos := s.position()
			s.emitted += int64(n)

			if !fn(buf[:n*filter.Channels], pos) {
				return nil
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// Corrupt data right at the end of the song, as after a seek
			// to the end, just ends it.
			if s.duration > 0 && s.position() >= s.duration {
				return nil
			}
			return newError(model.DecodeFileFailed, "decode", err)
		}
	}
}

// rebuild replaces the graph of s, keeping the decoder source.
func (e *Engine) rebuild(s *session) error {
	e.mu.Lock()
	volume, filters := e.volume, e.filters
	e.mu.Unlock()

	g, err := filter.New(s.src, filter.Options{Volume: volume.Value(), Filters: filters})
	if err != nil {
		return fmt.Errorf("rebuild graph: %w", err)
	}

	e.mu.Lock()
	s.graph = g
	e.mu.Unlock()

	return nil
}

func (e *Engine) SetPosition(seconds int64) {
	e.seekTarget.Store(max(0, seconds))
}

func (e *Engine) ClearCache() {
	e.mu.Lock()
	s := e.sess
	e.sess = nil
	e.mu.Unlock()

	if s != nil {
		s.close()
	}

	e.resetFilters.Store(false)
	e.seekTarget.Store(noSeek)
}

func (e *Engine) Volume() model.Volume {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.volume
}

func (e *Engine) SetVolume(v model.Volume) error {
	e.mu.Lock()
	e.volume = v
	var g *filter.Graph
	if e.sess != nil {
		g = e.sess.graph
	}
	e.mu.Unlock()

	if g == nil {
		return nil
	}

	if err := g.SetVolume(v.Value()); err != nil {
		return newError(model.UnknownError, "set volume", err)
	}

	return nil
}

// Filters returns a copy of the equalizer bands used for new graphs.
func (e *Engine) Filters() []model.AudioFilter {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]model.AudioFilter(nil), e.filters...)
}

func (e *Engine) UpdateFilters(preset model.EqualizerPreset) error {
	if err := preset.Validate(); err != nil {
		return newError(model.UnknownError, "update filters", err)
	}

	e.mu.Lock()
	e.filters = append([]model.AudioFilter(nil), preset.Filters...)
	live := e.sess != nil
	e.mu.Unlock()

	if live {
		e.resetFilters.Store(true)
	}

	return nil
}

// Graph exposes the live filter graph for inspection, nil when idle.
func (e *Engine) Graph() *filter.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil
	}

	return e.sess.graph
}
