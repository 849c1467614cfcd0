// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// httpStream is a seekable reader over an HTTP(S) resource. It uses Range
// requests when the server supports them and reconnects at the current
// offset when a read fails.
type httpStream struct {
	ctx     context.Context
	client  *http.Client
	url     string
	headers map[string]string
	agent   string
	limiter *rate.Limiter
	retries int
	log     zerolog.Logger

	body   io.ReadCloser
	offset int64
	size   int64 // -1 when unknown
	ranged bool
}

func openHTTP(ctx context.Context, e *Engine, url string, headers map[string]string) (*httpStream, error) {
	s := &httpStream{
		ctx:     ctx,
		client:  e.opts.HTTPClient,
		url:     url,
		headers: headers,
		agent:   e.opts.UserAgent,
		limiter: rate.NewLimiter(rate.Every(e.opts.ReconnectDelay), 1),
		retries: e.opts.Reconnect,
		log:     e.log.With().Str("url", url).Logger(),
		size:    -1,
	}

	if err := s.connect(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *httpStream) connect() error {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	if s.agent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", s.agent)
	}
	req.Header.Set("Range", "bytes="+strconv.FormatInt(s.offset, 10)+"-")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", s.url, err)
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		s.ranged = true
		if total := contentRangeTotal(resp.Header.Get("Content-Range")); total >= 0 {
			s.size = total
		}
	case http.StatusOK:
		s.ranged = false
		if resp.ContentLength >= 0 {
			s.size = resp.ContentLength
		}
		if s.offset > 0 {
			// Server ignored Range, skip to the offset.
			if _, err := io.CopyN(io.Discard, resp.Body, s.offset); err != nil {
				_ = resp.Body.Close()
				return fmt.Errorf("skip to %d: %w", s.offset, err)
			}
		}
	case http.StatusRequestedRangeNotSatisfiable:
		// Offset at or past the end.
		_ = resp.Body.Close()
		s.body = io.NopCloser(strings.NewReader(""))
		return nil
	default:
		_ = resp.Body.Close()
		return fmt.Errorf("%s: %d: %w", s.url, resp.StatusCode, ErrHTTPStatus)
	}

	s.body = resp.Body

	return nil
}

// contentRangeTotal parses the complete length of "bytes a-b/total".
func contentRangeTotal(v string) int64 {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return -1
	}

	total, err := strconv.ParseInt(v[i+1:], 10, 64)
	if err != nil {
		return -1
	}

	return total
}

func (s *httpStream) Size() int64 { return s.size }

func (s *httpStream) Read(p []byte) (int, error) {
	for attempt := 0; ; attempt++ {
		if s.body == nil {
			if err := s.connect(); err != nil {
				return 0, err
			}
		}

		n, err := s.body.Read(p)
		s.offset += int64(n)

		truncated := errors.Is(err, io.EOF) && s.size >= 0 && s.offset < s.size
		if err == nil || (errors.Is(err, io.EOF) && !truncated) {
			return n, err
		}
		if n > 0 {
			// Report the data now, the failure shows up on the next read.
			s.dropBody()
			return n, nil
		}
		if attempt >= s.retries {
			return 0, fmt.Errorf("read %s: %w", s.url, err)
		}

		s.log.Warn().Err(err).Int64("offset", s.offset).Int("attempt", attempt+1).Msg("reconnecting stream")
		s.dropBody()

		if err := s.limiter.Wait(s.ctx); err != nil {
			return 0, fmt.Errorf("%w", err)
		}
	}
}

func (s *httpStream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.offset + offset
	case io.SeekEnd:
		if s.size < 0 {
			return 0, ErrNotSeekable
		}
		abs = s.size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}

	if abs < 0 {
		return 0, fmt.Errorf("negative position %d", abs)
	}

	if abs != s.offset {
		s.dropBody()
		s.offset = abs
	}

	return abs, nil
}

func (s *httpStream) dropBody() {
	if s.body != nil {
		_ = s.body.Close()
		s.body = nil
	}
}

func (s *httpStream) Close() error {
	s.dropBody()
	return nil
}
