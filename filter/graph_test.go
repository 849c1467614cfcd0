// SPDX-License-Identifier: EPL-2.0

package filter

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audplay/internal/audiotest"
	"github.com/ik5/audplay/model"
)

func pullAll(t *testing.T, g *Graph) []int16 {
	t.Helper()

	var out []int16
	buf := make([]int16, 2*512)
	for {
		n, err := g.Pull(buf)
		out = append(out, buf[:n*2]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Pull() error = %v", err)
		}
	}
}

func rms(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}

	return math.Sqrt(sum / float64(len(samples)))
}

func TestGraphNodeOrder(t *testing.T) {
	t.Parallel()

	preset := model.ElectronicPreset()
	g, err := New(audiotest.NewSilentSource(44100, 2, 100), Options{Volume: 1, Filters: preset.Filters})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := []string{
		"abuffer", "volume",
		"freq_32", "freq_64", "freq_125", "freq_250", "freq_500",
		"freq_1000", "freq_2000", "freq_4000", "freq_8000", "freq_16000",
		"aformat", "abuffersink",
	}

	got := g.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	bands := g.Equalizers()
	for i, b := range bands {
		if b != preset.Filters[i] {
			t.Errorf("band %d = %+v, want %+v", i, b, preset.Filters[i])
		}
	}
}

func TestGraphOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
	}{
		{"mono 22050", 22050, 1},
		{"stereo 48000", 48000, 2},
		{"stereo 44100", 44100, 2},
		{"quad 32000", 32000, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// One second of input.
			src := audiotest.NewSineSource(tt.rate, tt.channels, tt.rate, 440)
			g, err := New(src, Options{Volume: 1, Filters: model.CustomPreset().Filters})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			out := pullAll(t, g)
			frames := len(out) / 2

			if math.Abs(float64(frames-SampleRate)) > SampleRate/100 {
				t.Errorf("got %d frames, want about %d", frames, SampleRate)
			}

			for i := 0; i < len(out); i += 2 {
				if out[i] != out[i+1] {
					t.Fatalf("frame %d: left %d != right %d", i/2, out[i], out[i+1])
				}
			}
		})
	}
}

func TestGraphSendCommand(t *testing.T) {
	t.Parallel()

	g, err := New(audiotest.NewSilentSource(44100, 2, 10), Options{Volume: 1, Filters: model.CustomPreset().Filters})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := g.SendCommand("volume", "volume", "0.25"); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if g.Volume() != 0.25 {
		t.Errorf("Volume() = %v, want 0.25", g.Volume())
	}

	if err := g.SetVolume(0.5); err != nil || g.Volume() != 0.5 {
		t.Errorf("SetVolume(0.5) = %v, Volume() = %v", err, g.Volume())
	}

	tests := []struct {
		name   string
		target string
		cmd    string
		arg    string
		want   error
	}{
		{"unknown target", "reverb", "volume", "1", ErrUnknownTarget},
		{"unknown command", "volume", "gain", "1", ErrUnknownCommand},
		{"not a number", "volume", "volume", "loud", ErrInvalidArg},
		{"negative", "volume", "volume", "-1", ErrInvalidArg},
		{"equalizer has no commands", "freq_64", "gain", "3", ErrUnknownCommand},
	}

	for _, tt := range tests {
		if err := g.SendCommand(tt.target, tt.cmd, tt.arg); !errors.Is(err, tt.want) {
			t.Errorf("%s: SendCommand() error = %v, want %v", tt.name, err, tt.want)
		}
	}

	if g.Volume() != 0.5 {
		t.Errorf("rejected commands changed volume to %v", g.Volume())
	}
}

func TestGraphVolumeLowersRMS(t *testing.T) {
	t.Parallel()

	render := func(volume float64) []int16 {
		src := audiotest.NewSineSource(44100, 2, 44100/2, 440)
		g, err := New(src, Options{Volume: volume, Filters: model.RockPreset().Filters})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		return pullAll(t, g)
	}

	silent := rms(render(0))
	full := rms(render(1))

	if silent != 0 {
		t.Errorf("rms at volume 0 = %v, want 0", silent)
	}
	if full <= silent {
		t.Errorf("rms at volume 1 = %v, not above %v", full, silent)
	}
}

func TestGraphEqualizerBoost(t *testing.T) {
	t.Parallel()

	render := func(gain float64) float64 {
		band := model.NewAudioFilter(1000, model.DefaultQ, gain, true)
		src := audiotest.NewSineSource(44100, 1, 44100/2, 1000)

		g, err := New(src, Options{Volume: 0.1, Filters: []model.AudioFilter{band}})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		// Skip the filter transient.
		return rms(pullAll(t, g)[4410:])
	}

	flat := render(0)
	boosted := render(12)

	// +12 dB is a factor of about 3.98 at the center frequency.
	ratio := boosted / flat
	if ratio < 3.5 || ratio > 4.5 {
		t.Errorf("boost ratio = %v, want about 3.98", ratio)
	}
}

func TestGraphRejectsInvalidBand(t *testing.T) {
	t.Parallel()

	preset := model.CustomPreset()
	preset.Filters[2].Q = 0

	_, err := New(audiotest.NewSilentSource(44100, 2, 10), Options{Volume: 1, Filters: preset.Filters})
	if !errors.Is(err, model.ErrZeroQ) {
		t.Errorf("New() error = %v, want %v", err, model.ErrZeroQ)
	}
}

func TestGraphInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := New(audiotest.NewSilentSource(44100, 0, 10), Options{}); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("New() error = %v, want %v", err, ErrInvalidSource)
	}

	g, _ := New(audiotest.NewSilentSource(44100, 2, 10), Options{Volume: 1})
	if _, err := g.Pull(make([]int16, 3)); !errors.Is(err, ErrInvalidDst) {
		t.Errorf("Pull() error = %v, want %v", err, ErrInvalidDst)
	}
}

func TestPeakingCoefficientsBypass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		band model.AudioFilter
	}{
		{"flat", model.NewAudioFilter(1000, 1.41, 0, true)},
		{"above nyquist", model.NewAudioFilter(16000, 1.41, 6, true)},
	}

	for _, tt := range tests {
		b0, b1, b2, a1, a2 := peakingCoefficients(tt.band, 22050)
		if b0 != 1 || b1 != 0 || b2 != 0 || a1 != 0 || a2 != 0 {
			t.Errorf("%s: coefficients = %v %v %v %v %v, want identity", tt.name, b0, b1, b2, a1, a2)
		}
	}
}
