// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audplay/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// Window of 4 frames for cubic interpolation:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Position between frames[1] and frames[2], in source frames.
	pos float64

	// Block read from the source, consumed one frame at a time.
	srcBuf []float32
	srcPos int
	srcLen int
	srcErr error

	filterState []float32
	useFilter   bool
	filterWarm  bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, 1024*channels),
		useFilter:   ratio > 1.0,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame copies the next source frame into dst. It returns false once the
// source is exhausted, together with any non EOF error.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	for r.srcPos+r.channels > r.srcLen {
		if r.srcErr != nil {
			if r.srcErr == io.EOF {
				return false, nil
			}
			return false, r.srcErr
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		r.srcLen = n - n%r.channels
		r.srcPos = 0
		r.srcErr = err
	}

	copy(dst, r.srcBuf[r.srcPos:r.srcPos+r.channels])
	r.srcPos += r.channels

	if r.useFilter && !r.filterWarm {
		// Start the filter at the first sample to avoid a warm-up transient.
		copy(r.filterState, dst)
		r.filterWarm = true
	}

	if r.useFilter {
		for c := range r.channels {
			// One-pole low-pass: y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	return true, nil
}

// prime fills frames[1..3] so that the first output frame is the first
// source frame.
func (r *Resampler) prime() error {
	r.primed = true

	for i := 1; i < 4; i++ {
		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		if !ok {
			break
		}
		r.hasFrame[i] = true
	}

	if !r.hasFrame[1] {
		return io.EOF
	}

	// Repeat the edge frame where the window is short.
	for i := 2; i < 4; i++ {
		if !r.hasFrame[i] && r.hasFrame[i-1] {
			copy(r.frames[i], r.frames[i-1])
		}
	}

	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]

	ok, err := r.readFrame(r.frames[3])
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	r.hasFrame[3] = ok

	if !r.hasFrame[1] {
		return io.EOF
	}

	return nil
}

// ReadSamples produces dst samples at the destination rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] {
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		for c := range r.channels {
			y1 := r.frames[1][c]

			y0 := y1
			if r.hasFrame[0] {
				y0 = r.frames[0][c]
			}

			y2 := y1
			if r.hasFrame[2] {
				y2 = r.frames[2][c]
			}

			y3 := y2
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}

			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
