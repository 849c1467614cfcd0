// SPDX-License-Identifier: EPL-2.0

// Package analyzer turns interleaved stereo PCM into a spectrum of bars in
// [0, 1]. The left channel fills the first half of the output, the right
// channel the second half.
package analyzer

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	// SampleRate of the analyzed PCM.
	SampleRate = 44100
	// Channels of the analyzed PCM.
	Channels = 2

	// DefaultWindow is the FFT length in frames.
	DefaultWindow = 2048

	lowCutOff  = 50.0
	highCutOff = 10000.0
	floorDB    = -70.0
)

// Analyzer computes a magnitude spectrum from raw samples.
type Analyzer interface {
	// Init sizes the analyzer for bins output values. Calling it again with
	// another size rebuilds every buffer.
	Init(bins int) error
	// BufferSize is the number of interleaved samples Execute consumes.
	BufferSize() int
	// OutputSize is the number of values Execute produces.
	OutputSize() int
	// Execute consumes BufferSize samples in [-1, 1] and writes OutputSize
	// values in [0, 1].
	Execute(in, out []float64) error
}

// FFT is the Analyzer on a real FFT. It keeps the last window frames of
// each channel, so every Execute sees a full window however small its
// input.
type FFT struct {
	mu sync.Mutex

	window int
	bins   int

	fft    *fourier.FFT
	hann   window.Values
	hist   [Channels][]float64
	seq    []float64
	coeffs []complex128
	mags   []float64

	// band b of a channel spans coefficients [lo[b], hi[b]).
	lo, hi []int
}

var _ Analyzer = (*FFT)(nil)

// New returns an FFT over size frames, rounded up to a power of two.
// Init must be called before Execute.
func New(size int) *FFT {
	if size <= 0 {
		size = DefaultWindow
	}

	return &FFT{window: nextPow2(size)}
}

func (a *FFT) Init(bins int) error {
	if bins <= 0 {
		return fmt.Errorf("%d: %w", bins, ErrInvalidSize)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.bins == bins && a.fft != nil {
		return nil
	}

	n := max(a.window, nextPow2(bins*4))

	a.bins = bins
	a.fft = fourier.NewFFT(n)
	a.hann = window.NewValues(window.Hann, n)
	for ch := range a.hist {
		a.hist[ch] = make([]float64, n)
	}
	a.seq = make([]float64, n)
	a.coeffs = make([]complex128, n/2+1)
	a.mags = make([]float64, n/2+1)
	a.lo, a.hi = bands(max(1, bins/2), n)

	return nil
}

func (a *FFT) BufferSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.bins * Channels
}

func (a *FFT) OutputSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.bins
}

func (a *FFT) Execute(in, out []float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.fft == nil {
		return ErrNotReady
	}
	if len(in) != a.bins*Channels || len(out) != a.bins {
		return fmt.Errorf("in %d out %d, want %d and %d: %w",
			len(in), len(out), a.bins*Channels, a.bins, ErrSizeMismatch)
	}

	frames := len(in) / Channels
	for ch := range a.hist {
		h := a.hist[ch]
		copy(h, h[frames:])

		tail := h[len(h)-frames:]
		for i := range tail {
			tail[i] = in[i*Channels+ch]
		}
	}

	left := a.bins / 2
	if left == 0 {
		// A single bar shows the left channel only.
		a.spectrum(0, out)
		return nil
	}

	a.spectrum(0, out[:left])
	a.spectrum(1, out[left:])

	return nil
}

// spectrum fills out with the bars of channel ch.
func (a *FFT) spectrum(ch int, out []float64) {
	n := len(a.seq)
	a.hann.TransformTo(a.seq, a.hist[ch])

	a.coeffs = a.fft.Coefficients(a.coeffs, a.seq)
	for i, c := range a.coeffs {
		a.mags[i] = cmplx.Abs(c)
	}

	// A full scale sine yields n/4 after the Hann window.
	scale := float64(n) / 4
	for b := range out {
		bi := min(b, len(a.lo)-1)

		peak := 0.0
		for k := a.lo[bi]; k < a.hi[bi]; k++ {
			peak = max(peak, a.mags[k])
		}

		out[b] = level(peak / scale)
	}
}

// level maps a linear amplitude to [0, 1] over the decibel range
// [floorDB, 0].
func level(amp float64) float64 {
	if amp <= 0 {
		return 0
	}

	db := 20 * math.Log10(amp)

	return math.Min(1, math.Max(0, (db-floorDB)/-floorDB))
}

// bands splits [lowCutOff, highCutOff] in count logarithmic bands over
// the coefficients of an n point FFT. Every band holds at least one
// coefficient.
func bands(count, n int) (lo, hi []int) {
	lo = make([]int, count)
	hi = make([]int, count)

	last := n / 2
	ratio := highCutOff / lowCutOff
	binOf := func(freq float64) int {
		return int(math.Round(freq * float64(n) / SampleRate))
	}

	for b := range count {
		fLo := lowCutOff * math.Pow(ratio, float64(b)/float64(count))
		fHi := lowCutOff * math.Pow(ratio, float64(b+1)/float64(count))

		lo[b] = min(binOf(fLo), last)
		hi[b] = min(max(binOf(fHi), lo[b]+1), last+1)
	}

	return lo, hi
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
