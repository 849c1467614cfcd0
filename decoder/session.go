// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/filter"
	"github.com/ik5/audplay/model"
)

// input is an opened file or HTTP resource.
type input interface {
	io.ReadSeekCloser
	Size() int64
}

type fileInput struct {
	*os.File
	size int64
}

func (f fileInput) Size() int64 { return f.size }

// session is one opened song: input, decoded source and filter graph. It is
// only touched by the goroutine running Open and Decode.
type session struct {
	location string
	headers  map[string]string
	format   string

	in    input
	src   audio.Source
	graph *filter.Graph

	tags     metadata
	rate     int
	duration int64

	// Position bookkeeping: base is the second the graph started from,
	// emitted counts output frames pulled since then.
	base    int64
	emitted int64
}

// reader hides Close from decoders, some close their input when they
// reject it. Seek is hidden too when the input cannot seek to its end, some
// decoders probe the length on any io.Seeker.
func (s *session) reader() io.Reader {
	if s.in.Size() < 0 {
		return struct{ io.Reader }{s.in}
	}

	return struct{ io.ReadSeeker }{s.in}
}

func (s *session) position() int64 {
	pos := s.base + s.emitted/filter.SampleRate
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}

	return pos
}

func (s *session) close() {
	if s.src != nil {
		_ = s.src.Close()
		s.src = nil
	}
	if s.in != nil {
		_ = s.in.Close()
		s.in = nil
	}
	s.graph = nil
}

func (e *Engine) openInput(ctx context.Context, location string, headers map[string]string) (input, error) {
	if isURL(location) {
		return openHTTP(ctx, e, location, headers)
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w", err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: is a directory: %w", location, ErrNoAudioStream)
	}

	return fileInput{File: f, size: st.Size()}, nil
}

// rewind readies the input for another decoder attempt.
func (e *Engine) rewind(ctx context.Context, s *session) error {
	if s.in.Size() >= 0 {
		_, err := s.in.Seek(0, io.SeekStart)
		return err
	}

	_ = s.in.Close()
	in, err := e.openInput(ctx, s.location, s.headers)
	if err != nil {
		return err
	}
	s.in = in

	return nil
}

// openSession opens the input and finds a decoder for it: the one matching
// the extension first, then every registered format in order.
func (e *Engine) openSession(ctx context.Context, location string, headers map[string]string) (*session, error) {
	in, err := e.openInput(ctx, location, headers)
	if err != nil {
		return nil, newError(model.FileNotSupported, "open input", err)
	}

	s := &session{location: location, headers: headers, in: in}
	if in.Size() >= 0 {
		s.tags = readTags(in)
	}

	if format := formatOf(location); format != "" {
		if d, ok := e.opts.Registry.Get(format); ok {
			if src, err := d.Decode(s.reader()); err == nil && validSource(src) {
				s.format, s.src = format, src
			} else {
				e.log.Debug().Err(err).Str("format", format).Str("location", location).Msg("extension decoder rejected input")
			}
		}
	}

	if s.src == nil {
		for _, format := range e.opts.Registry.Formats() {
			if err := e.rewind(ctx, s); err != nil {
				s.close()
				return nil, newError(model.FileNotSupported, "probe", err)
			}

			d, _ := e.opts.Registry.Get(format)
			src, err := d.Decode(s.reader())
			if err != nil || !validSource(src) {
				continue
			}

			s.format, s.src = format, src
			break
		}
	}

	if s.src == nil {
		s.close()
		return nil, newError(model.FileNotSupported, "probe", fmt.Errorf("%s: %w", location, ErrNoAudioStream))
	}

	s.rate = s.src.SampleRate()
	if l, ok := s.src.(audio.Lengther); ok && l.Frames() > 0 {
		s.duration = l.Frames() / int64(s.rate)
	}

	return s, nil
}

func validSource(src audio.Source) bool {
	if src == nil {
		return false
	}
	if src.Channels() <= 0 || src.SampleRate() <= 0 {
		_ = src.Close()
		return false
	}

	return true
}

// seek repositions the session at second target and resets the graph so no
// frame decoded before the seek reaches the output.
func (e *Engine) seek(ctx context.Context, s *session, target int64) error {
	if target < 0 {
		target = 0
	}
	if s.duration > 0 && target > s.duration {
		target = s.duration
	}

	frame := target * int64(s.rate)

	if sk, ok := s.src.(audio.Seeker); ok {
		err := sk.SeekFrame(frame)
		if err == nil {
			s.base, s.emitted = target, 0
			return e.rebuild(s)
		}
		e.log.Debug().Err(err).Msg("native seek failed, decoding from start")
	}

	if err := e.reopen(ctx, s); err != nil {
		return err
	}
	if err := skipFrames(s.src, frame); err != nil {
		return err
	}

	s.base, s.emitted = target, 0

	return e.rebuild(s)
}

// reopen restarts the input and decoder from the beginning.
func (e *Engine) reopen(ctx context.Context, s *session) error {
	d, ok := e.opts.Registry.Get(s.format)
	if !ok {
		return fmt.Errorf("%s: %w", s.format, audio.ErrNoDecoder)
	}

	_ = s.src.Close()
	if err := e.rewind(ctx, s); err != nil {
		return err
	}

	src, err := d.Decode(s.reader())
	if err != nil {
		return fmt.Errorf("reopen: %w", err)
	}
	s.src = src

	return nil
}

func skipFrames(src audio.Source, frames int64) error {
	ch := src.Channels()
	buf := make([]float32, 4096*ch)

	for frames > 0 {
		want := min(int64(len(buf)/ch), frames)
		n, err := src.ReadSamples(buf[:want*int64(ch)])
		frames -= int64(n / ch)

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("skip: %w", err)
		}
	}

	return nil
}
