// SPDX-License-Identifier: EPL-2.0

package model

import "fmt"

// ErrorCode is the closed set of failures reported to the user.
type ErrorCode int

const (
	Success                ErrorCode = 0
	FileNotSupported       ErrorCode = 31
	SetupAudioParamsFailed ErrorCode = 50
	DecodeFileFailed       ErrorCode = 70
	SeekFrameFailed        ErrorCode = 71
	UnknownError           ErrorCode = 99
)

var errorMessages = map[ErrorCode]string{
	Success:                "Success",
	FileNotSupported:       "File not supported",
	SetupAudioParamsFailed: "Cannot set up audio parameters on the output device",
	DecodeFileFailed:       "Cannot decode song",
	SeekFrameFailed:        "Cannot seek frame in song",
	UnknownError:           "Unknown error",
}

// Message is the text shown to the user for the code.
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}

	return errorMessages[UnknownError]
}

func (c ErrorCode) String() string {
	return fmt.Sprintf("%s (%d)", c.Message(), int(c))
}
