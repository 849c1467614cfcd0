// SPDX-License-Identifier: EPL-2.0

package filter

import (
	"math"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/model"
)

// Equalizer is a peaking biquad band (RBJ audio EQ cookbook) run in
// transposed direct form II with float64 state, one state per channel.
type Equalizer struct {
	passthrough
	band model.AudioFilter

	b0, b1, b2, a1, a2 float64
	z1, z2             []float64
	// next is the channel of the next sample when a read ended mid-frame.
	next int
}

func newEqualizer(in audio.Source, band model.AudioFilter) *Equalizer {
	e := &Equalizer{
		passthrough: passthrough{in: in},
		band:        band,
		z1:          make([]float64, in.Channels()),
		z2:          make([]float64, in.Channels()),
	}
	e.b0, e.b1, e.b2, e.a1, e.a2 = peakingCoefficients(band, float64(in.SampleRate()))

	return e
}

// peakingCoefficients returns normalized coefficients. Bands at or above
// Nyquist, or without gain, pass audio unchanged.
func peakingCoefficients(band model.AudioFilter, rate float64) (b0, b1, b2, a1, a2 float64) {
	if band.Gain() == 0 || band.Frequency <= 0 || band.Frequency >= rate/2 || band.Q <= 0 {
		return 1, 0, 0, 0, 0
	}

	a := math.Pow(10, band.Gain()/40)
	w0 := 2 * math.Pi * band.Frequency / rate
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * band.Q)

	a0 := 1 + alpha/a
	b0 = (1 + alpha*a) / a0
	b1 = -2 * cosw / a0
	b2 = (1 - alpha*a) / a0
	a1 = -2 * cosw / a0
	a2 = (1 - alpha/a) / a0

	return b0, b1, b2, a1, a2
}

func (e *Equalizer) Name() string { return e.band.Name() }

// Band returns the parameters the node was built with.
func (e *Equalizer) Band() model.AudioFilter { return e.band }

func (e *Equalizer) ReadSamples(dst []float32) (int, error) {
	n, err := e.in.ReadSamples(dst)

	ch := len(e.z1)
	for i := range n {
		c := (e.next + i) % ch
		x := float64(dst[i])
		y := e.b0*x + e.z1[c]
		e.z1[c] = e.b1*x - e.a1*y + e.z2[c]
		e.z2[c] = e.b2*x - e.a2*y
		dst[i] = float32(y)
	}
	e.next = (e.next + n) % ch

	return n, err
}
