// SPDX-License-Identifier: EPL-2.0

// Package config loads the player settings from defaults, an optional
// config file, AUDPLAY_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ik5/audplay/model"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, with dots turned
// into underscores: AUDPLAY_OUTPUT_DRIVER sets output.driver.
const EnvPrefix = "AUDPLAY"

// Output drivers.
const (
	DriverSpeaker = "speaker"
	DriverWAV     = "wav"
	DriverNull    = "null"
)

var drivers = []string{DriverSpeaker, DriverWAV, DriverNull}

type Config struct {
	Output    Output    `mapstructure:"output"`
	Player    Player    `mapstructure:"player"`
	Analysis  Analysis  `mapstructure:"analysis"`
	Animation Animation `mapstructure:"animation"`
	Stream    Stream    `mapstructure:"stream"`
	Events    Events    `mapstructure:"events"`
	Log       Log       `mapstructure:"log"`
}

type Output struct {
	Driver string        `mapstructure:"driver"`
	File   string        `mapstructure:"file"`
	Buffer time.Duration `mapstructure:"buffer"`
}

type Player struct {
	ChunkFrames int     `mapstructure:"chunk_frames"`
	SeekStep    int     `mapstructure:"seek_step"`
	Volume      float64 `mapstructure:"volume"`
	Preset      string  `mapstructure:"preset"`
}

type Analysis struct {
	Bars   int `mapstructure:"bars"`
	Window int `mapstructure:"window"`
}

type Animation struct {
	ClearSteps      int           `mapstructure:"clear_steps"`
	ClearMultiplier float64       `mapstructure:"clear_multiplier"`
	StepDelay       time.Duration `mapstructure:"step_delay"`
	Regain          bool          `mapstructure:"regain"`
}

type Stream struct {
	Reconnect      int           `mapstructure:"reconnect"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

type Events struct {
	Capacity int `mapstructure:"capacity"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

var defaults = map[string]any{
	"output.driver":              DriverSpeaker,
	"output.file":                "out.wav",
	"output.buffer":              100 * time.Millisecond,
	"player.chunk_frames":        1024,
	"player.seek_step":           5,
	"player.volume":              1.0,
	"player.preset":              "Custom",
	"analysis.bars":              32,
	"analysis.window":            2048,
	"animation.clear_steps":      10,
	"animation.clear_multiplier": 0.45,
	"animation.step_delay":       40 * time.Millisecond,
	"animation.regain":           true,
	"stream.reconnect":           5,
	"stream.reconnect_delay":     500 * time.Millisecond,
	"stream.timeout":             10 * time.Second,
	"stream.user_agent":          "audplay",
	"events.capacity":            256,
	"log.level":                  "info",
	"log.file":                   "",
}

// flagKeys maps the command line flags declared by RegisterFlags to their
// config keys.
var flagKeys = map[string]string{
	"driver":    "output.driver",
	"output":    "output.file",
	"volume":    "player.volume",
	"preset":    "player.preset",
	"seek-step": "player.seek_step",
	"bars":      "analysis.bars",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// RegisterFlags declares the flags that Load knows how to bind.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("driver", DriverSpeaker, "output driver: speaker, wav or null")
	flags.String("output", "out.wav", "target file of the wav driver")
	flags.Float64("volume", 1.0, "initial volume, 0 to 1")
	flags.String("preset", "Custom", "initial equalizer preset")
	flags.Int("seek-step", 5, "seconds per seek")
	flags.Int("bars", 32, "spectrum bars")
	flags.String("log-level", "info", "log level")
	flags.String("log-file", "", "log file, stderr when empty")
}

// Default returns the configuration with no file, environment or flag
// applied.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load builds the configuration. path may be empty, and a missing file is
// not an error. Only the flags of flags that were changed override the
// other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every value that the components cannot correct on their
// own.
func (c *Config) Validate() error {
	c.Output.Driver = strings.ToLower(c.Output.Driver)
	if !lo.Contains(drivers, c.Output.Driver) {
		return fmt.Errorf("%w: output.driver %q", ErrInvalid, c.Output.Driver)
	}
	if c.Output.Driver == DriverWAV && c.Output.File == "" {
		return fmt.Errorf("%w: output.file is empty", ErrInvalid)
	}
	if c.Output.Buffer <= 0 {
		return fmt.Errorf("%w: output.buffer %v", ErrInvalid, c.Output.Buffer)
	}

	if c.Player.ChunkFrames <= 0 {
		return fmt.Errorf("%w: player.chunk_frames %d", ErrInvalid, c.Player.ChunkFrames)
	}
	if c.Player.SeekStep <= 0 {
		return fmt.Errorf("%w: player.seek_step %d", ErrInvalid, c.Player.SeekStep)
	}
	if c.Player.Volume < 0 || c.Player.Volume > 1 {
		return fmt.Errorf("%w: player.volume %v", ErrInvalid, c.Player.Volume)
	}
	if _, err := model.PresetByName(c.Player.Preset); err != nil {
		return fmt.Errorf("%w: player.preset: %w", ErrInvalid, err)
	}

	if c.Analysis.Bars <= 0 {
		return fmt.Errorf("%w: analysis.bars %d", ErrInvalid, c.Analysis.Bars)
	}
	if c.Analysis.Window <= 0 {
		return fmt.Errorf("%w: analysis.window %d", ErrInvalid, c.Analysis.Window)
	}

	if c.Animation.ClearSteps <= 0 {
		return fmt.Errorf("%w: animation.clear_steps %d", ErrInvalid, c.Animation.ClearSteps)
	}
	if c.Animation.ClearMultiplier <= 0 || c.Animation.ClearMultiplier >= 1 {
		return fmt.Errorf("%w: animation.clear_multiplier %v", ErrInvalid, c.Animation.ClearMultiplier)
	}
	if c.Animation.StepDelay < 0 {
		return fmt.Errorf("%w: animation.step_delay %v", ErrInvalid, c.Animation.StepDelay)
	}

	if c.Stream.Reconnect < 0 {
		return fmt.Errorf("%w: stream.reconnect %d", ErrInvalid, c.Stream.Reconnect)
	}
	if c.Stream.Timeout <= 0 {
		return fmt.Errorf("%w: stream.timeout %v", ErrInvalid, c.Stream.Timeout)
	}

	if c.Events.Capacity <= 0 {
		return fmt.Errorf("%w: events.capacity %d", ErrInvalid, c.Events.Capacity)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}

	return nil
}

// Preset returns the configured initial equalizer preset.
func (c *Config) Preset() model.EqualizerPreset {
	p, err := model.PresetByName(c.Player.Preset)
	if err != nil {
		return model.CustomPreset()
	}

	return p
}
