// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). n may be > 0
	// together with io.EOF; n == 0 with io.EOF means the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Seeker is implemented by sources able to reposition themselves without
// decoding the skipped audio.
type Seeker interface {
	// SeekFrame moves the read cursor to frame (per-channel sample index).
	SeekFrame(frame int64) error
}

// Lengther is implemented by sources that know their length.
type Lengther interface {
	// Frames returns the total number of frames, or -1 when unknown.
	Frames() int64
}

// BitDepther reports the bit depth of the encoded samples.
type BitDepther interface {
	BitDepth() int
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// Formats keep their registration order for probing.
type Registry struct {
	codecs map[string]Decoder
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats lists the registered format keys in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Clone(r.order)
}

// Probe tries every registered decoder, in registration order, on the input
// and returns the first one that accepts it. rs is rewound before each try.
func (r *Registry) Probe(rs io.ReadSeeker) (string, Source, error) {
	for _, format := range r.Formats() {
		d, ok := r.Get(format)
		if !ok {
			continue
		}

		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return "", nil, err
		}

		src, err := d.Decode(rs)
		if err != nil {
			continue
		}

		if src.Channels() <= 0 || src.SampleRate() <= 0 {
			_ = src.Close()
			continue
		}

		return format, src, nil
	}

	return "", nil, ErrNoDecoder
}
