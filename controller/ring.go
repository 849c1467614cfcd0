// SPDX-License-Identifier: EPL-2.0

package controller

import "github.com/ik5/audplay/utils"

// ring holds the most recent raw samples, normalized to [-1, 1]. When full,
// the oldest samples are overwritten.
type ring struct {
	buf   []float64
	start int
	n     int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float64, capacity)}
}

func (r *ring) Len() int { return r.n }
func (r *ring) Cap() int { return len(r.buf) }

func (r *ring) WriteInt16(samples []int16) {
	for _, s := range samples {
		end := (r.start + r.n) % len(r.buf)
		r.buf[end] = utils.Int16ToFloat64(s)

		if r.n == len(r.buf) {
			r.start = (r.start + 1) % len(r.buf)
		} else {
			r.n++
		}
	}
}

// Read moves the oldest len(dst) samples, at most Len, to dst.
func (r *ring) Read(dst []float64) int {
	n := min(len(dst), r.n)
	for i := range n {
		dst[i] = r.buf[(r.start+i)%len(r.buf)]
	}

	r.start = (r.start + n) % len(r.buf)
	r.n -= n

	return n
}

func (r *ring) Reset() {
	r.start, r.n = 0, 0
}
