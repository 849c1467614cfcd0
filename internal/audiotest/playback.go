// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"
	"time"
)

var ErrClosed = errors.New("fake playback closed")

// FakePlayback is an output sink that records what it receives. A non-zero
// Pace makes Write block for the real-time duration of the written frames,
// MaxWrite forces short writes.
type FakePlayback struct {
	Pace     float64
	MaxWrite int

	mu       sync.Mutex
	samples  int
	writes   int
	prepares int
	pauses   int
	drains   int
	closed   bool
	failNext error
}

func (f *FakePlayback) Prepare() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prepares++
	return nil
}

func (f *FakePlayback) Write(samples []int16) (int, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, ErrClosed
	}
	if err := f.failNext; err != nil {
		f.failNext = nil
		f.mu.Unlock()
		return 0, err
	}

	n := len(samples)
	if f.MaxWrite > 0 && n > f.MaxWrite {
		n = f.MaxWrite
	}
	f.samples += n
	f.writes++
	pace := f.Pace
	f.mu.Unlock()

	if pace > 0 {
		frames := float64(n / 2)
		time.Sleep(time.Duration(frames / 44100 * pace * float64(time.Second)))
	}

	return n, nil
}

func (f *FakePlayback) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pauses++
	return nil
}

func (f *FakePlayback) Drain() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.drains++
	return nil
}

func (f *FakePlayback) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

// FailNextWrite makes the next Write return err.
func (f *FakePlayback) FailNextWrite(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failNext = err
}

// Samples is the number of int16 samples written so far.
func (f *FakePlayback) Samples() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.samples
}

// Counts returns how many times Prepare, Pause and Drain were called.
func (f *FakePlayback) Counts() (prepares, pauses, drains int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.prepares, f.pauses, f.drains
}

func (f *FakePlayback) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}
