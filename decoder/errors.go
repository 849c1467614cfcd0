// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"errors"
	"fmt"

	"github.com/ik5/audplay/model"
)

var (
	ErrNoSession     = errors.New("no song is open")
	ErrNoAudioStream = errors.New("input has no decodable audio stream")
	ErrHTTPStatus    = errors.New("unexpected HTTP status")
	ErrNotSeekable   = errors.New("input is not seekable")
)

// Error carries the user-facing code of a decoder failure.
type Error struct {
	Code model.ErrorCode
	Op   string
	Err  error
}

func newError(code model.ErrorCode, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code.Message(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf maps err to an error code, UnknownError when it carries none.
func CodeOf(err error) model.ErrorCode {
	if err == nil {
		return model.Success
	}

	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}

	return model.UnknownError
}
