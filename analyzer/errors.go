// SPDX-License-Identifier: EPL-2.0

package analyzer

import "errors"

var (
	ErrInvalidSize  = errors.New("output size must be positive")
	ErrNotReady     = errors.New("analyzer is not initialized")
	ErrSizeMismatch = errors.New("buffer size does not match analyzer")
)
