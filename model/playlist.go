// SPDX-License-Identifier: EPL-2.0

package model

// Playlist is an ordered list of songs. Index selects the song to start with.
type Playlist struct {
	Index int
	Name  string
	Songs []Song
}

func (p Playlist) Empty() bool { return len(p.Songs) == 0 }

// Current returns the selected song.
func (p Playlist) Current() (Song, bool) {
	if p.Index < 0 || p.Index >= len(p.Songs) {
		return Song{}, false
	}

	return p.Songs[p.Index], true
}

// Next returns the playlist advanced by one song, or false at the end.
func (p Playlist) Next() (Playlist, bool) {
	if p.Index+1 >= len(p.Songs) {
		return p, false
	}

	p.Index++
	return p, true
}
