// SPDX-License-Identifier: EPL-2.0

package filter

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/ik5/audplay/audio"
)

// Node is one stage of the graph.
type Node interface {
	audio.Source
	Name() string
}

// Commander is implemented by nodes accepting live commands.
type Commander interface {
	Command(cmd, arg string) error
}

// passthrough forwards the format of the node it wraps. Nodes never close
// their input, the graph does not own the decoder source.
type passthrough struct {
	in audio.Source
}

func (p passthrough) SampleRate() int { return p.in.SampleRate() }
func (p passthrough) Channels() int   { return p.in.Channels() }
func (p passthrough) BufSize() int    { return p.in.BufSize() }
func (p passthrough) Close() error    { return nil }

// bufferSource is the graph entry point.
type bufferSource struct {
	passthrough
}

func newBufferSource(src audio.Source) (*bufferSource, error) {
	if src.Channels() <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidSource
	}

	return &bufferSource{passthrough{in: src}}, nil
}

func (b *bufferSource) Name() string { return "abuffer" }

func (b *bufferSource) ReadSamples(dst []float32) (int, error) {
	ch := b.in.Channels()
	return b.in.ReadSamples(dst[:len(dst)-len(dst)%ch])
}

// Volume scales every sample by a gain that can change while frames flow.
type Volume struct {
	passthrough
	gain atomic.Uint64
}

func newVolume(in audio.Source, gain float64) *Volume {
	v := &Volume{passthrough: passthrough{in: in}}
	v.SetGain(gain)

	return v
}

func (v *Volume) Name() string { return "volume" }

func (v *Volume) Gain() float64 { return math.Float64frombits(v.gain.Load()) }

func (v *Volume) SetGain(gain float64) { v.gain.Store(math.Float64bits(gain)) }

// Command handles "volume" with a decimal gain argument.
func (v *Volume) Command(cmd, arg string) error {
	if cmd != "volume" {
		return fmt.Errorf("%s %q: %w", v.Name(), cmd, ErrUnknownCommand)
	}

	gain, err := strconv.ParseFloat(arg, 64)
	if err != nil || gain < 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return fmt.Errorf("%s %q: %w", v.Name(), arg, ErrInvalidArg)
	}

	v.SetGain(gain)

	return nil
}

func (v *Volume) ReadSamples(dst []float32) (int, error) {
	n, err := v.in.ReadSamples(dst)

	gain := float32(v.Gain())
	if gain != 1 {
		for i := range n {
			dst[i] *= gain
		}
	}

	return n, err
}

// aformat converts to the output layout and rate.
type aformat struct {
	src audio.Source
}

func newFormat(in audio.Source, rate int) (*aformat, error) {
	var src audio.Source = in

	if in.Channels() != Channels {
		mixer, err := audio.NewStereoMixer(in)
		if err != nil {
			return nil, fmt.Errorf("aformat: %w", err)
		}
		src = mixer
	}

	if in.SampleRate() != rate {
		src = audio.NewResampler(src, rate)
	}

	return &aformat{src: src}, nil
}

func (f *aformat) Name() string                           { return "aformat" }
func (f *aformat) SampleRate() int                        { return f.src.SampleRate() }
func (f *aformat) Channels() int                          { return f.src.Channels() }
func (f *aformat) BufSize() int                           { return f.src.BufSize() }
func (f *aformat) Close() error                           { return nil }
func (f *aformat) ReadSamples(dst []float32) (int, error) { return f.src.ReadSamples(dst) }
