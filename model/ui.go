// SPDX-License-Identifier: EPL-2.0

package model

// BarAnimation selects how the spectrum is drawn by the front end.
type BarAnimation int

const (
	HorizontalMirror BarAnimation = iota
	VerticalMirror
	MonoVertical
)

func (b BarAnimation) Next() BarAnimation {
	return (b + 1) % (MonoVertical + 1)
}

func (b BarAnimation) String() string {
	switch b {
	case HorizontalMirror:
		return "horizontal mirror"
	case VerticalMirror:
		return "vertical mirror"
	case MonoVertical:
		return "mono vertical"
	}

	return "unknown"
}

// BlockIdentifier names a front-end block that can receive focus.
type BlockIdentifier int

const (
	ListDirectory BlockIdentifier = iota
	FileInfo
	MediaPlayer
	AudioVisualizer
	TabViewer
)
