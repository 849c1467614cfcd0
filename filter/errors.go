// SPDX-License-Identifier: EPL-2.0

package filter

import "errors"

var (
	ErrUnknownTarget  = errors.New("no filter with that name in graph")
	ErrUnknownCommand = errors.New("filter does not support command")
	ErrInvalidArg     = errors.New("invalid command argument")
	ErrInvalidSource  = errors.New("source has no channels or sample rate")
	ErrInvalidDst     = errors.New("destination must hold whole stereo frames")
)
