// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audplay/event"
	"github.com/ik5/audplay/model"
	"github.com/rs/zerolog"
)

var errNothingToPlay = errors.New("nothing to play")

// playHeadless plays the playlist once, printing each song as it starts,
// and returns when the last song ends, playback stops or fails.
func playHeadless(ctx context.Context, log zerolog.Logger, events *event.Queue, dispatch func(event.Event) bool,
	playlist model.Playlist, stdout io.Writer,
) error {
	dispatch(event.PlaylistSelection(playlist))

	remaining := len(playlist.Songs) - playlist.Index

	for {
		evs, err := events.Wait(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		for _, ev := range evs {
			switch ev.ID {
			case event.UpdateSongInfo:
				song := ev.Song()
				fmt.Fprintf(stdout, "%s [%s %s]\n", display(song), song.Format, model.FormatTime(song.Duration))

			case event.UpdateSongState:
				state := ev.SongState()
				log.Debug().Stringer("state", state).Msg("song state")

				switch state.State {
				case model.Finished:
					remaining--
					if remaining <= 0 {
						return nil
					}
				case model.Stop:
					return nil
				}

			case event.NotifyError:
				return fmt.Errorf("playback: %s", ev.ErrorCode().Message())
			}
		}
	}
}

func display(song model.Song) string {
	if song.Artist == "" {
		return song.Title
	}

	return song.Artist + " - " + song.Title
}
