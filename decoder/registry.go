// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"path"
	"strings"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/formats/aiff"
	"github.com/ik5/audplay/formats/flac"
	"github.com/ik5/audplay/formats/mp3"
	"github.com/ik5/audplay/formats/vorbis"
	"github.com/ik5/audplay/formats/wav"
)

// extensions maps file extensions to registry keys.
var extensions = map[string]string{
	".mp3":  "mp3",
	".ogg":  "ogg",
	".oga":  "ogg",
	".wav":  "wav",
	".wave": "wav",
	".flac": "flac",
	".aif":  "aiff",
	".aiff": "aiff",
	".aifc": "aiff",
}

// DefaultRegistry registers every built-in format. Probe order puts the
// formats with strict magic checks first and mp3, which syncs on almost any
// byte stream, last.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("mp3", mp3.Decoder{})

	return r
}

// formatOf guesses the registry key from a path or URL.
func formatOf(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 && isURL(location) {
		location = location[:i]
	}

	return extensions[strings.ToLower(path.Ext(location))]
}

func isURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
