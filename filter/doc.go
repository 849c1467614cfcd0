// SPDX-License-Identifier: EPL-2.0

// Package filter implements the linear filter graph every decoded stream
// goes through before reaching the output:
//
//	abuffer -> volume -> freq_32 ... freq_16000 -> aformat -> abuffersink
//
// Each node is an audio.Source wrapping the previous one, so frames are
// pulled through the chain from the sink. The volume node accepts a live
// "volume" command; equalizer changes require building a new graph.
// aformat pins the output to interleaved stereo at 44100 Hz and the sink
// converts to signed 16-bit samples.
package filter
