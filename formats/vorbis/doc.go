// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio through
// github.com/jfreymuth/oggvorbis.
//
// Samples are already float32 so no conversion happens. Seeking uses the
// granule index of the stream and needs an io.ReadSeeker input.
package vorbis
