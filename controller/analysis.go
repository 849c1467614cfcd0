// SPDX-License-Identifier: EPL-2.0

package controller

import (
	"time"

	"github.com/ik5/audplay/event"
	"github.com/samber/lo"
)

// analysisLoop turns raw audio into spectrum events and runs the clear and
// regain animations.
func (c *Controller) analysisLoop() {
	defer close(c.done)

	var in, out []float64

	for {
		select {
		case <-c.quit:
			return
		case <-c.signal:
		}

		for {
			c.mu.Lock()

			if len(c.pending) > 0 {
				a := c.pending[0]
				c.pending = c.pending[1:]
				c.mu.Unlock()

				if !c.runClear(a) {
					return
				}
				continue
			}

			size := c.analyzer.BufferSize()
			if size == 0 || c.ring.Len() < size {
				c.mu.Unlock()
				break
			}

			// Every complete buffer is analyzed, one spectrum is posted.
			count := c.ring.Len() / size
			if cap(in) < count*size {
				in = make([]float64, count*size)
			}
			in = in[:count*size]
			c.ring.Read(in)

			regain := c.regain
			c.regain = nil
			c.atRest = false
			c.mu.Unlock()

			if regain != nil && !c.runRegain(regain) {
				return
			}

			if n := c.analyzer.OutputSize(); len(out) != n {
				out = make([]float64, n)
			}

			if c.execute(in, size, out) {
				c.mu.Lock()
				c.last = append(c.last[:0], out...)
				c.mu.Unlock()

				c.sender.Send(event.Spectrum(out))
			}
		}
	}
}

func (c *Controller) execute(in []float64, size int, out []float64) bool {
	for off := 0; off+size <= len(in); off += size {
		if err := c.analyzer.Execute(in[off:off+size], out); err != nil {
			c.log.Warn().Err(err).Msg("analysis skipped")
			return false
		}
	}

	return true
}

// runClear decays the last spectrum to zero. It reports false on exit.
func (c *Controller) runClear(a animation) bool {
	c.mu.Lock()
	c.ring.Reset()
	rest := c.atRest
	bars := append([]float64(nil), c.last...)
	if a == clearWithoutRegain {
		c.regain = nil
	}
	c.mu.Unlock()

	if rest {
		return true
	}

	c.log.Debug().Bool("regain", a == clearWithRegain).Msg("clear animation")

	for range c.opts.ClearSteps {
		bars = lo.Map(bars, func(v float64, _ int) float64 { return v * c.opts.ClearMultiplier })
		c.sender.Send(event.Spectrum(bars))

		exit, interrupted := c.pause(c.opts.StepDelay, true)
		if exit {
			return false
		}
		if interrupted {
			break
		}
	}

	c.sender.Send(event.Spectrum(make([]float64, len(bars))))

	c.mu.Lock()
	c.atRest = true
	if a == clearWithRegain && c.opts.Regain && len(c.last) > 0 {
		c.regain = append([]float64(nil), c.last...)
	}
	c.mu.Unlock()

	return true
}

// runRegain ramps from zero up to target. It reports false on exit.
func (c *Controller) runRegain(target []float64) bool {
	c.log.Debug().Msg("regain animation")

	for step := 1; step <= regainSteps; step++ {
		bars := lo.Map(target, func(v float64, _ int) float64 { return v / regainSteps * float64(step) })
		c.sender.Send(event.Spectrum(bars))

		if exit, _ := c.pause(c.opts.StepDelay, false); exit {
			return false
		}
	}

	return true
}

// pause waits d between animation frames. With cancel, fresh audio or a new
// animation ends the wait early and interrupted is set.
func (c *Controller) pause(d time.Duration, cancel bool) (exit, interrupted bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-c.quit:
			return true, false
		case <-timer.C:
			return false, false
		case <-c.signal:
			if !cancel {
				continue
			}

			c.mu.Lock()
			fresh := c.ring.Len() > 0 || len(c.pending) > 0
			c.mu.Unlock()

			if fresh {
				return false, true
			}
		}
	}
}
