// Package ui renders terminal output for the rui commands: colored
// status markers and the interactive forms behind pull selection and
// sync conflict resolution.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette holds the semantic colors used across command output.
type Palette struct {
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Failure lipgloss.Color
	Muted   lipgloss.Color
}

// DefaultPalette picks colors that read on both light and dark
// backgrounds, adjusted via termenv background detection.
func DefaultPalette() Palette {
	p := Palette{
		Accent:  lipgloss.Color("#7D56F4"),
		Success: lipgloss.Color("#04B575"),
		Warning: lipgloss.Color("#FFB454"),
		Failure: lipgloss.Color("#E5484D"),
		Muted:   lipgloss.Color("#6C6C6C"),
	}
	if !termenv.HasDarkBackground() {
		p.Accent = lipgloss.Color("#5B3DB8")
		p.Muted = lipgloss.Color("#8A8A8A")
	}
	return p
}

// Styles bundles the lipgloss styles the commands print with.
type Styles struct {
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Failure lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}

// NewStyles builds the command styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Accent:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Failure: lipgloss.NewStyle().Foreground(p.Failure).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

// DefaultStyles returns styles for the detected terminal background.
func DefaultStyles() Styles {
	return NewStyles(DefaultPalette())
}

var defaultStyles = DefaultStyles()

// RenderPass styles a success marker.
func RenderPass(s string) string {
	return defaultStyles.Success.Render(s)
}

// RenderWarn styles a warning marker.
func RenderWarn(s string) string {
	return defaultStyles.Warning.Render(s)
}

// RenderFail styles a failure marker.
func RenderFail(s string) string {
	return defaultStyles.Failure.Render(s)
}

// RenderAccent highlights an inline value such as a component name.
func RenderAccent(s string) string {
	return defaultStyles.Accent.Render(s)
}

// RenderMuted dims secondary detail such as paths and timestamps.
func RenderMuted(s string) string {
	return defaultStyles.Muted.Render(s)
}
