// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"io"
	"path"
	"strings"

	"github.com/dhowden/tag"
)

type metadata struct {
	artist string
	title  string
	album  string
}

// readTags reads ID3, MP4, FLAC and Vorbis comment tags and rewinds the
// input. Missing tags are not an error.
func readTags(rs io.ReadSeeker) metadata {
	var md metadata

	if m, err := tag.ReadFrom(rs); err == nil {
		md = metadata{
			artist: strings.TrimSpace(m.Artist()),
			title:  strings.TrimSpace(m.Title()),
			album:  strings.TrimSpace(m.Album()),
		}
	}

	_, _ = rs.Seek(0, io.SeekStart)

	return md
}

// fallbackTitle names a song after its file when it has no title tag.
func fallbackTitle(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 && isURL(location) {
		location = location[:i]
	}

	base := path.Base(strings.ReplaceAll(location, "\\", "/"))

	return strings.TrimSuffix(base, path.Ext(base))
}
