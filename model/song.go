// SPDX-License-Identifier: EPL-2.0

package model

import (
	"fmt"
	"strings"
)

// StreamInfo describes a remote input.
type StreamInfo struct {
	URL     string
	Headers map[string]string
}

// Song describes a track. Only Filepath (or Stream.URL) is set by the caller,
// the rest is filled by the decoder when the song is opened.
type Song struct {
	Filepath string
	Stream   StreamInfo

	Artist string
	Title  string
	Album  string
	Format string

	NumChannels int
	SampleRate  int
	BitRate     int
	BitDepth    int
	// Duration in seconds.
	Duration int64
}

// Source returns the location the decoder should open.
func (s Song) Source() string {
	if s.Stream.URL != "" {
		return s.Stream.URL
	}

	return s.Filepath
}

// IsStream reports whether the song points to an HTTP(S) resource.
func (s Song) IsStream() bool {
	src := strings.ToLower(s.Source())
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func (s Song) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Filepath: %s\n", s.Source())
	fmt.Fprintf(&b, "Artist: %s\n", s.Artist)
	fmt.Fprintf(&b, "Title: %s\n", s.Title)
	fmt.Fprintf(&b, "Channels: %d\n", s.NumChannels)
	fmt.Fprintf(&b, "Sample rate: %d Hz\n", s.SampleRate)
	fmt.Fprintf(&b, "Bit rate: %d kbps\n", s.BitRate/1000)
	fmt.Fprintf(&b, "Bit depth: %d bits\n", s.BitDepth)
	fmt.Fprintf(&b, "Duration: %s", FormatTime(s.Duration))

	return b.String()
}

// MediaState is the playback state of the current song.
type MediaState int

const (
	Empty MediaState = iota
	Play
	Pause
	Stop
	Finished
)

func (m MediaState) String() string {
	switch m {
	case Empty:
		return "Empty"
	case Play:
		return "Play"
	case Pause:
		return "Pause"
	case Stop:
		return "Stop"
	case Finished:
		return "Finished"
	}

	return fmt.Sprintf("MediaState(%d)", int(m))
}

// SongState pairs a media state with the position, in seconds.
type SongState struct {
	State    MediaState
	Position int64
}

func (s SongState) String() string {
	return fmt.Sprintf("{%s %d}", s.State, s.Position)
}

// FormatTime renders seconds as mm:ss, or hh:mm:ss past the hour.
func FormatTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%02d:%02d", m, s)
}
