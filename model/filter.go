// SPDX-License-Identifier: EPL-2.0

package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// MinGain and MaxGain bound AudioFilter.Gain, in dB.
	MinGain = -24.0
	MaxGain = 24.0

	// DefaultQ is the quality factor used by the built-in presets.
	DefaultQ = 1.41

	// NumBands is the number of equalizer bands in a preset.
	NumBands = 10
)

var (
	ErrZeroFrequency = errors.New("filter frequency must be non-zero")
	ErrZeroQ         = errors.New("filter Q must be non-zero")
	ErrBandCount     = errors.New("preset must have exactly ten filters")
	ErrUnknownPreset = errors.New("unknown equalizer preset")
)

// Frequencies are the center frequencies of the ten equalizer bands.
var Frequencies = [NumBands]float64{32, 64, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// AudioFilter is one band of the parametric equalizer.
type AudioFilter struct {
	Frequency  float64
	Q          float64
	gain       float64
	Modifiable bool
}

// NewAudioFilter builds a band with gain clamped to [MinGain, MaxGain].
func NewAudioFilter(freq, q, gain float64, modifiable bool) AudioFilter {
	f := AudioFilter{Frequency: freq, Q: q, Modifiable: modifiable}
	f.SetGain(gain)

	return f
}

func (f AudioFilter) Gain() float64 { return f.gain }

func (f *AudioFilter) SetGain(gain float64) {
	f.gain = lo.Clamp(gain, MinGain, MaxGain)
}

// Name identifies the band inside a filter graph.
func (f AudioFilter) Name() string {
	return fmt.Sprintf("freq_%d", int(f.Frequency))
}

func (f AudioFilter) Validate() error {
	if f.Frequency == 0 {
		return fmt.Errorf("%s: %w", f.Name(), ErrZeroFrequency)
	}

	if f.Q == 0 {
		return fmt.Errorf("%s: %w", f.Name(), ErrZeroQ)
	}

	return nil
}

// EqualizerPreset is an ordered list of ten bands identified by genre.
type EqualizerPreset struct {
	Name    string
	Filters []AudioFilter
}

// Validate rejects the whole preset when one band is invalid.
func (p EqualizerPreset) Validate() error {
	if len(p.Filters) != NumBands {
		return fmt.Errorf("%s: %w", p.Name, ErrBandCount)
	}

	for _, f := range p.Filters {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}

	return nil
}

// Clone returns a deep copy so callers can mutate the bands.
func (p EqualizerPreset) Clone() EqualizerPreset {
	return EqualizerPreset{
		Name:    p.Name,
		Filters: append([]AudioFilter(nil), p.Filters...),
	}
}

// Gains lists the band gains in order.
func (p EqualizerPreset) Gains() []float64 {
	return lo.Map(p.Filters, func(f AudioFilter, _ int) float64 { return f.Gain() })
}

func newPreset(name string, modifiable bool, gains [NumBands]float64) EqualizerPreset {
	p := EqualizerPreset{Name: name, Filters: make([]AudioFilter, 0, NumBands)}
	for i, freq := range Frequencies {
		p.Filters = append(p.Filters, NewAudioFilter(freq, DefaultQ, gains[i], modifiable))
	}

	return p
}

// CustomPreset is the flat, user editable preset.
func CustomPreset() EqualizerPreset {
	return newPreset("Custom", true, [NumBands]float64{})
}

func ElectronicPreset() EqualizerPreset {
	return newPreset("Electronic", false, [NumBands]float64{2, 3, 2, -2, 0, 1, 3, 1, 2, 2})
}

func PopPreset() EqualizerPreset {
	return newPreset("Pop", false, [NumBands]float64{1, 2, 1, 0, 0, 2, 1, 1, 2, 3})
}

func RockPreset() EqualizerPreset {
	return newPreset("Rock", false, [NumBands]float64{1, 2, 1, -1, -3, -1, 0, 1, 2, 3})
}

// Presets returns fresh copies of every built-in preset, Custom first.
func Presets() []EqualizerPreset {
	return []EqualizerPreset{CustomPreset(), ElectronicPreset(), PopPreset(), RockPreset()}
}

// PresetByName looks up a built-in preset, case insensitive.
func PresetByName(name string) (EqualizerPreset, error) {
	p, ok := lo.Find(Presets(), func(p EqualizerPreset) bool {
		return strings.EqualFold(p.Name, name)
	})
	if !ok {
		return EqualizerPreset{}, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}

	return p, nil
}
