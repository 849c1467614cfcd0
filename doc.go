// SPDX-License-Identifier: EPL-2.0

// Package audplay wires the pieces of a terminal music player into one
// value a host process can drive.
//
// The building blocks live in their own packages:
//   - decoder turns files and HTTP(S) streams into 44100 Hz stereo s16
//     chunks through the filter graph (volume and a 10 band equalizer)
//   - player owns the playback goroutine and its command queue
//   - controller turns raw audio into spectrum frames and animations
//   - event carries every UI-bound notification through a bounded queue
//   - playback and its drivers write the chunks to a device or a file
//
// # Quick Start
//
//	cfg, _ := config.Load("", nil)
//	core, err := audplay.New(zerolog.Nop(), cfg)
//	if err != nil {
//	    return err
//	}
//	defer core.Close()
//
//	core.Controller.NotifyFileSelection("song.mp3")
//
//	for {
//	    events, err := core.Events.Wait(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    for _, ev := range events {
//	        // draw ev
//	    }
//	}
//
// # Offline rendering
//
// RenderFile runs the decoder and the filter graph without any device and
// returns the whole song as interleaved s16 stereo samples:
//
//	samples, err := audplay.RenderFile("song.ogg", audplay.RenderOptions{
//	    Preset: model.RockPreset(),
//	})
package audplay
