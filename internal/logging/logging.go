// SPDX-License-Identifier: EPL-2.0

// Package logging builds the process logger. Records go through a diode
// buffer so that a slow sink never blocks the playback goroutine; when the
// buffer overflows the oldest records are dropped and counted.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/audplay/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

const (
	bufferSize   = 1000
	pollInterval = 10 * time.Millisecond
)

// Logger is a zerolog.Logger with the resources behind it.
type Logger struct {
	zerolog.Logger

	closers []io.Closer
}

// New opens the configured sink, stderr when cfg.File is empty.
func New(cfg config.Log) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var (
		out     io.Writer = os.Stderr
		closers []io.Closer
	)

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closers = append(closers, f)
	}

	return newLogger(out, level, closers), nil
}

// NewWriter logs to w at level.
func NewWriter(w io.Writer, level zerolog.Level) *Logger {
	return newLogger(w, level, nil)
}

func newLogger(w io.Writer, level zerolog.Level, closers []io.Closer) *Logger {
	var dropped *zerolog.Logger

	// the diode closes a writer that is an io.Closer, hide it
	wr := diode.NewWriter(struct{ io.Writer }{w}, bufferSize, pollInterval, func(missed int) {
		if dropped != nil {
			dropped.Warn().Int("missed", missed).Msg("log records dropped")
		}
	})

	log := zerolog.New(wr).Level(level).With().Timestamp().Logger()
	dropped = &log

	// the diode goes first so it flushes into a still open file
	return &Logger{
		Logger:  log,
		closers: append([]io.Closer{wr}, closers...),
	}
}

// Close flushes pending records and closes the sink.
func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil

	return first
}
