// SPDX-License-Identifier: EPL-2.0

package player

import (
	"sync"
	"testing"
	"time"

	"github.com/ik5/audplay/decoder"
	"github.com/ik5/audplay/internal/audiotest"
	"github.com/ik5/audplay/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type recordKind int

const (
	kindClear recordKind = iota
	kindInfo
	kindState
	kindError
)

type record struct {
	kind    recordKind
	playing bool
	song    model.Song
	state   model.SongState
	code    model.ErrorCode
}

// recorder is a Notifier keeping every call but SendAudioRaw in order.
type recorder struct {
	mu      sync.Mutex
	records []record
	samples int
}

func (r *recorder) add(rec record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
}

func (r *recorder) ClearSongInformation(playing bool) {
	r.add(record{kind: kindClear, playing: playing})
}

func (r *recorder) NotifySongInformation(song model.Song) {
	r.add(record{kind: kindInfo, song: song})
}

func (r *recorder) NotifySongState(state model.SongState) {
	r.add(record{kind: kindState, state: state})
}

func (r *recorder) NotifyError(code model.ErrorCode) {
	r.add(record{kind: kindError, code: code})
}

func (r *recorder) SendAudioRaw(samples []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples += len(samples)
}

func (r *recorder) snapshot() []record {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]record(nil), r.records...)
}

func (r *recorder) rawSamples() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.samples
}

func (r *recorder) states() []model.SongState {
	var states []model.SongState
	for _, rec := range r.snapshot() {
		if rec.kind == kindState {
			states = append(states, rec.state)
		}
	}

	return states
}

// waitState blocks until a state matching fn was notified and returns it.
func (r *recorder) waitState(t *testing.T, fn func(model.SongState) bool) model.SongState {
	t.Helper()

	var found model.SongState
	require.Eventually(t, func() bool {
		for _, s := range r.states() {
			if fn(s) {
				found = s
				return true
			}
		}
		return false
	}, 10*time.Second, 2*time.Millisecond)

	return found
}

func (r *recorder) waitRecord(t *testing.T, fn func(record) bool) {
	t.Helper()

	require.Eventually(t, func() bool {
		for _, rec := range r.snapshot() {
			if fn(rec) {
				return true
			}
		}
		return false
	}, 10*time.Second, 2*time.Millisecond)
}

func is(state model.MediaState) func(model.SongState) bool {
	return func(s model.SongState) bool { return s.State == state }
}

// newPlayer builds a player on the real decoder.
func newPlayer(t *testing.T, out *audiotest.FakePlayback) (*Player, *decoder.Engine, *recorder) {
	t.Helper()

	dec := decoder.New(zerolog.Nop(), decoder.Options{})
	p := New(zerolog.Nop(), dec, out, Options{})
	rec := &recorder{}
	p.RegisterNotifier(rec)

	t.Cleanup(func() {
		_ = p.Close()
		_ = dec.Close()
	})

	return p, dec, rec
}

// fakeDecoder emits silent chunks for duration seconds.
type fakeDecoder struct {
	mu        sync.Mutex
	duration  int64
	openErr   error
	volumeErr error
	volume    model.Volume
	seeks     []int64
	seek      int64
	cleared   int
	opened    bool
}

func newFakeDecoder(duration int64) *fakeDecoder {
	return &fakeDecoder{duration: duration, seek: -1, volume: model.NewVolume(1)}
}

func (f *fakeDecoder) ContainsAudioStream(string) bool { return true }

func (f *fakeDecoder) Open(song *model.Song) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openErr != nil {
		return f.openErr
	}
	song.Duration = f.duration
	song.Title = "fake"
	f.opened = true

	return nil
}

func (f *fakeDecoder) Decode(samplesPerChunk int, fn decoder.FrameFunc) error {
	buf := make([]int16, samplesPerChunk*2)
	total := f.duration * 44100

	for frame := int64(0); frame < total; {
		f.mu.Lock()
		if f.seek >= 0 {
			frame = f.seek * 44100
			f.seek = -1
		}
		f.mu.Unlock()

		if frame >= total {
			break
		}
		if !fn(buf, frame/44100) {
			return nil
		}
		frame += int64(samplesPerChunk)
	}

	return nil
}

func (f *fakeDecoder) SetPosition(seconds int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seek = seconds
	f.seeks = append(f.seeks, seconds)
}

func (f *fakeDecoder) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cleared++
	f.opened = false
}

func (f *fakeDecoder) SetVolume(v model.Volume) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.volumeErr != nil && f.opened {
		return f.volumeErr
	}
	f.volume = v

	return nil
}

func (f *fakeDecoder) Volume() model.Volume {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.volume
}

func (f *fakeDecoder) UpdateFilters(preset model.EqualizerPreset) error {
	if err := preset.Validate(); err != nil {
		return err
	}

	return nil
}

func (f *fakeDecoder) seekTargets() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]int64(nil), f.seeks...)
}
