// SPDX-License-Identifier: EPL-2.0

package utils

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Float32sToInt16s converts min(len(dst), len(src)) samples and returns the
// count.
func Float32sToInt16s(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}

	return n
}

// Int16ToFloat32 maps a 16-bit PCM sample to [-1, 1).
func Int16ToFloat32(s int16) float32 {
	return float32(s) / 32768.0
}

// Int16ToFloat64 maps a 16-bit PCM sample to [-1, 1).
func Int16ToFloat64(s int16) float64 {
	return float64(s) / 32768.0
}
