// SPDX-License-Identifier: EPL-2.0

// Package playback defines the output sink the player writes decoded audio
// to, and holds the drivers that implement it.
package playback

import (
	"errors"
	"sync"
	"time"
)

const (
	SampleRate = 44100
	Channels   = 2
)

var (
	// ErrDevice wraps every failure reported by an output device.
	ErrDevice = errors.New("audio device failure")
	ErrClosed = errors.New("playback closed")
)

// Playback consumes interleaved signed 16-bit stereo samples at 44100 Hz.
type Playback interface {
	// Prepare readies the device for writing, again after Pause.
	Prepare() error
	// Write blocks until the device accepted some of samples and reports
	// how many. A short count must be retried with the rest, in order.
	Write(samples []int16) (int, error)
	// Pause drops every queued sample and silences the device.
	Pause() error
	// Drain blocks until every queued sample was played.
	Drain() error
	Close() error
}

// Duration is the play time of n interleaved stereo samples.
func Duration(n int) time.Duration {
	return time.Duration(n/Channels) * time.Second / SampleRate
}

// Discard is a sink without a device. When paced, Write blocks for the play
// time of the samples, so a player feeding it runs in real time.
type Discard struct {
	paced bool

	mu      sync.Mutex
	written int64
	closed  bool
}

var _ Playback = (*Discard)(nil)

func NewDiscard(paced bool) *Discard {
	return &Discard{paced: paced}
}

func (d *Discard) Prepare() error { return nil }

func (d *Discard) Write(samples []int16) (int, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0, ErrClosed
	}
	d.written += int64(len(samples))
	d.mu.Unlock()

	if d.paced {
		time.Sleep(Duration(len(samples)))
	}

	return len(samples), nil
}

func (d *Discard) Pause() error { return nil }
func (d *Discard) Drain() error { return nil }

func (d *Discard) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	return nil
}

// Written is the number of samples consumed so far.
func (d *Discard) Written() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.written
}

// WriteAll writes samples to p, retrying short writes.
func WriteAll(p Playback, samples []int16) error {
	for len(samples) > 0 {
		n, err := p.Write(samples)
		if err != nil {
			return err
		}
		if n == 0 {
			// Nothing accepted and no error, yield before trying again.
			time.Sleep(time.Millisecond)
		}
		samples = samples[n:]
	}

	return nil
}
