// SPDX-License-Identifier: EPL-2.0

package audplay

import (
	"fmt"

	"github.com/ik5/audplay/decoder"
	"github.com/ik5/audplay/filter"
	"github.com/ik5/audplay/model"
	"github.com/rs/zerolog"
)

// RenderOptions tune RenderFile. The zero value renders at full volume
// with a flat equalizer.
type RenderOptions struct {
	// Volume defaults to full volume when nil.
	Volume *model.Volume
	// Preset defaults to the flat Custom preset when it has no filters.
	Preset model.EqualizerPreset
	// ChunkFrames is the decode chunk size in stereo frames.
	ChunkFrames int
	Log         zerolog.Logger
}

// RenderFile decodes path through the filter graph without any output
// device. It returns the interleaved s16 stereo samples at 44100 Hz and the
// song with its metadata filled.
func RenderFile(path string, opts RenderOptions) ([]int16, model.Song, error) {
	dec := decoder.New(opts.Log, decoder.Options{})
	defer dec.Close()

	if opts.Volume != nil {
		if err := dec.SetVolume(*opts.Volume); err != nil {
			return nil, model.Song{}, fmt.Errorf("set volume: %w", err)
		}
	}
	if len(opts.Preset.Filters) > 0 {
		if err := dec.UpdateFilters(opts.Preset); err != nil {
			return nil, model.Song{}, fmt.Errorf("apply filters: %w", err)
		}
	}

	song := model.Song{Filepath: path}
	if err := dec.Open(&song); err != nil {
		return nil, song, err
	}

	// Start from the announced duration and grow if it was short.
	estimated := int(song.Duration+1) * filter.SampleRate * filter.Channels
	pcm16 := make([]int16, 0, estimated)

	err := dec.Decode(opts.ChunkFrames, func(samples []int16, _ int64) bool {
		pcm16 = append(pcm16, samples...)
		return true
	})
	if err != nil {
		return nil, song, err
	}

	return pcm16, song, nil
}
