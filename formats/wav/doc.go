// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE PCM audio.
//
// Decoding goes through github.com/go-audio/wav and accepts integer PCM at
// 8, 16, 24 or 32 bits. Inputs that are not io.ReadSeeker are buffered in
// memory first.
//
// Two writers are provided. WriteWAV16 encodes a complete buffer to any
// io.Writer. Writer streams to an io.WriteSeeker and fixes the header sizes
// when closed, which is what the file output driver uses:
//
//	w := wav.NewWriter(f, 44100, 2)
//	defer w.Close()
//	_, err := w.Write(samples)
package wav
