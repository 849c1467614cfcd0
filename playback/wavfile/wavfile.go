// SPDX-License-Identifier: EPL-2.0

// Package wavfile is an output sink that records everything played to a
// 16-bit stereo WAV file.
package wavfile

import (
	"fmt"
	"os"
	"sync"

	"github.com/ik5/audplay/formats/wav"
	"github.com/ik5/audplay/playback"
	"github.com/rs/zerolog"
)

type File struct {
	log  zerolog.Logger
	path string

	mu     sync.Mutex
	f      *os.File
	w      *wav.Writer
	closed bool
}

var _ playback.Playback = (*File)(nil)

// New returns a sink writing to path. The file is created by the first
// Prepare and completed by Close.
func New(log zerolog.Logger, path string) *File {
	return &File{
		log:  log.With().Str("component", "wavfile").Str("path", path).Logger(),
		path: path,
	}
}

func (f *File) Prepare() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return playback.ErrClosed
	}
	if f.w != nil {
		return nil
	}

	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create %s: %w: %w", f.path, playback.ErrDevice, err)
	}

	f.f = file
	f.w = wav.NewWriter(file, playback.SampleRate, playback.Channels)

	f.log.Debug().Msg("recording started")

	return nil
}

func (f *File) Write(samples []int16) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, playback.ErrClosed
	}
	if f.w == nil {
		return 0, fmt.Errorf("write before prepare: %w", playback.ErrDevice)
	}

	n, err := f.w.Write(samples[:len(samples)-len(samples)%playback.Channels])
	if err != nil {
		return n, fmt.Errorf("%w: %w", playback.ErrDevice, err)
	}

	return n, nil
}

// Pause has nothing to drop, every write reached the file.
func (f *File) Pause() error { return nil }
func (f *File) Drain() error { return nil }

// Frames is the number of frames recorded so far.
func (f *File) Frames() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.w == nil {
		return 0
	}

	return f.w.Frames()
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	if f.w == nil {
		return nil
	}

	err := f.w.Close()
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("close %s: %w", f.path, err)
	}

	f.log.Debug().Int64("frames", f.w.Frames()).Msg("recording finished")

	return nil
}
