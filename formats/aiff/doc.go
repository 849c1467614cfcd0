// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) audio through
// github.com/go-audio/aiff.
//
// Signed PCM at 8, 16, 24 and 32 bits is supported with any channel count
// and sample rate. Sources report their length but do not seek natively;
// the player repositions them by decoding from the start.
package aiff
