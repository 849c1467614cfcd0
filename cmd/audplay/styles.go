// SPDX-License-Identifier: EPL-2.0

package main

import "github.com/charmbracelet/lipgloss"

var (
	colorBorder = lipgloss.ANSIColor(8)
	colorTitle  = lipgloss.ANSIColor(10)
	colorText   = lipgloss.ANSIColor(7)
	colorDim    = lipgloss.ANSIColor(8)
	colorAccent = lipgloss.ANSIColor(11)
	colorError  = lipgloss.ANSIColor(9)
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	focusedFrameStyle = frameStyle.BorderForeground(colorAccent)

	titleStyle  = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	trackStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	textStyle   = lipgloss.NewStyle().Foreground(colorText)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)

	seekFillStyle = lipgloss.NewStyle().Foreground(colorAccent)
	volBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2))

	specLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(10))
	specMidStyle  = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(11))
	specHighStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(9))
)
