package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Emerald
	colorAccent  = lipgloss.Color("#F59E0B") // Amber
	colorMuted   = lipgloss.Color("#6B7280") // Gray
)

type styles struct {
	err    lipgloss.Style
	ok     lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
}

// newStyles returns styles rendering for w. Without color every style
// renders its input unchanged.
func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{err: plain, ok: plain, accent: plain, muted: plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		err:    r.NewStyle().Foreground(colorError).Bold(true),
		ok:     r.NewStyle().Foreground(colorSuccess).Bold(true),
		accent: r.NewStyle().Foreground(colorAccent),
		muted:  r.NewStyle().Foreground(colorMuted),
	}
}

// report writes err to w. Program diagnostics are written verbatim.
func (s styles) report(w io.Writer, err error) {
	if isCompileError(err) {
		fmt.Fprintln(w, s.err.Render(err.Error()))
		return
	}
	fmt.Fprintln(w, s.muted.Render("pascalc:"), s.err.Render(err.Error()))
}
