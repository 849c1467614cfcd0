// SPDX-License-Identifier: EPL-2.0

// Package audio provides the pull-based audio primitives the player is built
// on.
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Format decoders produce sources, and every processing stage wraps another
// source, so stages chain into a pipeline. Optional capabilities are
// discovered with type assertions: Seeker for native seeking, Lengther for
// the total length and BitDepther for the encoded bit depth.
//
// # Resampling
//
// The Resampler changes the sample rate using Catmull-Rom cubic
// interpolation, with a one-pole low-pass in front when downsampling:
//
//	resampler := audio.NewResampler(source, 44100)
//
// # Channel Mixing
//
// The StereoMixer turns any layout into interleaved left/right frames:
//
//	stereo, err := audio.NewStereoMixer(source)
//
// # Format Registry
//
// The registry maps format keys to decoders and probes inputs of unknown
// type in registration order:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	format, src, err := registry.Probe(file)
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. Sources return io.EOF once drained;
// a read may return data together with io.EOF.
package audio
