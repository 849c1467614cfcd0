// SPDX-License-Identifier: EPL-2.0

package model

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// VolumeStep is the increment used by Increase and Decrease.
const VolumeStep = 0.05

// Volume is a linear gain in [0, 1] with a mute toggle.
type Volume struct {
	value float64
	muted bool
}

// NewVolume returns a volume clamped to [0, 1].
func NewVolume(v float64) Volume {
	if math.IsNaN(v) {
		v = 0
	}

	return Volume{value: lo.Clamp(v, 0, 1)}
}

// Value is the gain that must be applied, zero when muted.
func (v Volume) Value() float64 {
	if v.muted {
		return 0
	}

	return v.value
}

// Level is the configured gain, ignoring mute.
func (v Volume) Level() float64 { return v.value }

func (v Volume) Muted() bool { return v.muted }

func (v Volume) Increase() Volume {
	n := NewVolume(v.value + VolumeStep)
	n.muted = v.muted
	return n
}

func (v Volume) Decrease() Volume {
	n := NewVolume(v.value - VolumeStep)
	n.muted = v.muted
	return n
}

func (v Volume) ToggleMute() Volume {
	v.muted = !v.muted
	return v
}

// Percent returns the effective volume as an integer percentage.
func (v Volume) Percent() int {
	return int(math.Round(v.Value() * 100))
}

func (v Volume) String() string {
	if v.muted {
		return "muted"
	}

	return fmt.Sprintf("%d%%", v.Percent())
}
