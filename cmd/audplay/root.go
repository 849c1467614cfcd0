// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ik5/audplay"
	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/event"
	"github.com/ik5/audplay/internal/logging"
	"github.com/ik5/audplay/model"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	headless   bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "audplay [file|url]...",
		Short: "Terminal music player",
		Long: `audplay plays local audio files (mp3, ogg, flac, wav, aiff) and
HTTP(S) streams with a live spectrum analyzer.

Settings are read from the optional --config file, then from AUDPLAY_*
environment variables (AUDPLAY_OUTPUT_DRIVER=null), then from flags.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, cmd.Flags())
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (yaml, toml or json)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "play the arguments without the terminal UI and exit")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func newLogger(cfg config.Log, headless bool) (*logging.Logger, error) {
	// stderr would draw over the terminal UI
	if cfg.File == "" && !headless {
		level, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		return logging.NewWriter(io.Discard, level), nil
	}

	return logging.New(cfg)
}

func run(ctx context.Context, cfg *config.Config, opts options, args []string, stdout io.Writer) error {
	log, err := newLogger(cfg.Log, opts.headless)
	if err != nil {
		return err
	}
	defer log.Close()

	core, err := audplay.New(log.Logger, cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	playlist := playlistFromArgs(args)

	if opts.headless {
		if playlist.Empty() {
			return errNothingToPlay
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		return playHeadless(ctx, log.Logger, core.Events, core.HandleEvent, playlist, stdout)
	}

	if !playlist.Empty() {
		core.HandleEvent(event.PlaylistSelection(playlist))
	}

	prog := tea.NewProgram(newUI(core.Events, core.HandleEvent, cfg, playlist), tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	return nil
}

func playlistFromArgs(args []string) model.Playlist {
	var pl model.Playlist

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			pl.Songs = append(pl.Songs, model.Song{Filepath: arg})
			continue
		}
		for _, m := range matches {
			pl.Songs = append(pl.Songs, model.Song{Filepath: m})
		}
	}

	if len(pl.Songs) > 0 {
		pl.Name = "command line"
	}

	return pl
}
