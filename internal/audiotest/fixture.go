// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audplay/formats/wav"
)

// SineWAV encodes seconds of a sine tone as 16-bit PCM WAV at amplitude 0.5.
func SineWAV(rate, channels int, seconds float64, freq float64) []byte {
	frames := int(float64(rate) * seconds)
	samples := make([]int16, frames*channels)

	for f := range frames {
		v := int16(0.5 * 32767 * math.Sin(2*math.Pi*freq*float64(f)/float64(rate)))
		for c := range channels {
			samples[f*channels+c] = v
		}
	}

	var buf bytes.Buffer
	_ = wav.WriteWAV16(&buf, rate, channels, samples)

	return buf.Bytes()
}

// WriteSineWAV writes a SineWAV fixture under t.TempDir and returns its path.
func WriteSineWAV(tb testing.TB, name string, rate, channels int, seconds float64) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, SineWAV(rate, channels, seconds, 440), 0o600); err != nil {
		tb.Fatalf("writing fixture: %v", err)
	}

	return path
}

// WriteFile writes arbitrary bytes under t.TempDir and returns the path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("writing fixture: %v", err)
	}

	return path
}
