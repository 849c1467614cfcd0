// SPDX-License-Identifier: EPL-2.0

package audplay

import "errors"

// ErrUnknownDriver is returned by NewOutput for a driver it cannot build.
var ErrUnknownDriver = errors.New("unknown output driver")
