// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StereoMixer converts a source to interleaved left/right frames. Mono input
// is duplicated; surround layouts fold even channels to the left and odd
// channels to the right, averaging each side.
type StereoMixer struct {
	src Source
	tmp []float32
}

func NewStereoMixer(src Source) (*StereoMixer, error) {
	if src.Channels() <= 0 {
		return nil, ErrInvalidChannels
	}

	return &StereoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}, nil
}

func (m *StereoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *StereoMixer) Channels() int   { return 2 }
func (m *StereoMixer) BufSize() int    { return m.src.BufSize() }
func (m *StereoMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *StereoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	in := m.src.Channels()
	if in == 2 {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	samplesNeeded := frames * in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames = n / in

	if in == 1 {
		for f := range frames {
			dst[f*2], dst[f*2+1] = m.tmp[f], m.tmp[f]
		}
	} else {
		m.fold(dst, frames, in)
	}

	return frames * 2, err
}

// fold averages even channels into the left and odd channels into the right.
func (m *StereoMixer) fold(dst []float32, frames, in int) {
	left := float32((in + 1) / 2)
	right := float32(in / 2)

	for f := range frames {
		var l, r float32

		base := f * in
		for c := range in {
			if c%2 == 0 {
				l += m.tmp[base+c]
			} else {
				r += m.tmp[base+c]
			}
		}

		dst[f*2], dst[f*2+1] = l/left, r/right
	}
}
