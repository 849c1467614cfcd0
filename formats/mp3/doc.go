// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo. When the input is an
// io.ReadSeeker the source also reports its length in frames and seeks
// natively:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if s, ok := src.(audio.Seeker); ok {
//	    err = s.SeekFrame(60 * int64(src.SampleRate()))
//	}
package mp3
