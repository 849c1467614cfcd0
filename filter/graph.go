// SPDX-License-Identifier: EPL-2.0

package filter

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/model"
	"github.com/ik5/audplay/utils"
)

// Output format of every graph.
const (
	SampleRate = 44100
	Channels   = 2
)

// Options configure a new graph.
type Options struct {
	Volume  float64
	Filters []model.AudioFilter
}

// Graph is a built chain of nodes ending in an s16 sink.
type Graph struct {
	nodes  []Node
	byName map[string]Node
	tail   audio.Source
	tmp    []float32
}

// New builds abuffer -> volume -> eq... -> aformat -> abuffersink on top of src.
func New(src audio.Source, opts Options) (*Graph, error) {
	in, err := newBufferSource(src)
	if err != nil {
		return nil, err
	}

	g := &Graph{byName: make(map[string]Node)}
	g.add(in)

	vol := newVolume(in, opts.Volume)
	g.add(vol)

	var prev audio.Source = vol
	for _, band := range opts.Filters {
		if err := band.Validate(); err != nil {
			return nil, fmt.Errorf("graph: %w", err)
		}

		eq := newEqualizer(prev, band)
		g.add(eq)
		prev = eq
	}

	format, err := newFormat(prev, SampleRate)
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}
	g.add(format)
	g.tail = format

	return g, nil
}

func (g *Graph) add(n Node) {
	g.nodes = append(g.nodes, n)
	g.byName[n.Name()] = n
}

// Names lists the nodes in processing order, sink last.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.nodes)+1)
	for _, n := range g.nodes {
		names = append(names, n.Name())
	}

	return append(names, "abuffersink")
}

// Equalizers returns the band parameters in graph order.
func (g *Graph) Equalizers() []model.AudioFilter {
	var bands []model.AudioFilter
	for _, n := range g.nodes {
		if eq, ok := n.(*Equalizer); ok {
			bands = append(bands, eq.Band())
		}
	}

	return bands
}

// Volume returns the current gain of the volume node.
func (g *Graph) Volume() float64 {
	return g.byName["volume"].(*Volume).Gain()
}

// SendCommand delivers a named command to the node called target.
func (g *Graph) SendCommand(target, cmd, arg string) error {
	n, ok := g.byName[target]
	if !ok {
		return fmt.Errorf("%s: %w", target, ErrUnknownTarget)
	}

	c, ok := n.(Commander)
	if !ok {
		return fmt.Errorf("%s %q: %w", target, cmd, ErrUnknownCommand)
	}

	return c.Command(cmd, arg)
}

// SetVolume is SendCommand("volume", "volume", v) with v as a decimal string.
func (g *Graph) SetVolume(v float64) error {
	return g.SendCommand("volume", "volume", strconv.FormatFloat(v, 'f', -1, 64))
}

// Pull fills dst with interleaved s16 stereo frames and returns the number of
// frames written. It returns io.EOF once the source is drained and no frame
// was produced.
func (g *Graph) Pull(dst []int16) (int, error) {
	if len(dst) < Channels || len(dst)%Channels != 0 {
		return 0, ErrInvalidDst
	}

	if cap(g.tmp) < len(dst) {
		g.tmp = make([]float32, len(dst))
	}
	tmp := g.tmp[:len(dst)]

	got := 0
	for got < len(dst) {
		n, err := g.tail.ReadSamples(tmp[got:])
		got += n

		if errors.Is(err, io.EOF) {
			if got == 0 {
				return 0, io.EOF
			}
			break
		}
		if err != nil {
			if got == 0 {
				return 0, err
			}
			utils.Float32sToInt16s(dst, tmp[:got-got%Channels])
			return got / Channels, err
		}
		if n == 0 && got > 0 {
			break
		}
	}

	got -= got % Channels
	utils.Float32sToInt16s(dst, tmp[:got])

	return got / Channels, nil
}
