// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC audio through github.com/gopxl/beep/v2/flac.
//
// beep streams stereo float64 frames, mono inputs come out duplicated on
// both channels. Seeking is native when the input is an io.ReadSeeker.
package flac
