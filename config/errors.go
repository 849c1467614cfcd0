// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid value")
	// ErrRead is returned when the config file exists but cannot be parsed.
	ErrRead = errors.New("config: cannot read file")
)
