// Package overlay draws a foreground block centred over a rendered
// background, leaving the background visible around it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Compose overlays the foreground view atop the background, centred within a
// width x height canvas.
func Compose(background string, width, height int, foreground string) string {
	bgLines := normalizeBackground(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bgLines, "\n")
	}

	fgLines := strings.Split(foreground, "\n")
	fgWidth := 0
	for _, line := range fgLines {
		if w := lipgloss.Width(line); w > fgWidth {
			fgWidth = w
		}
	}
	if fgWidth > width {
		fgWidth = width
	}
	if len(fgLines) > height {
		fgLines = fgLines[:height]
	}

	offsetX := (width - fgWidth) / 2
	offsetY := (height - len(fgLines)) / 2

	for row, fgLine := range fgLines {
		y := offsetY + row
		base := bgLines[y]
		prefix := truncate.String(base, uint(offsetX))
		suffix := skipWidth(base, offsetX+fgWidth)
		bgLines[y] = prefix + "\x1b[0m" + padToWidth(fgLine, fgWidth) + suffix
	}
	return strings.Join(bgLines, "\n")
}

func normalizeBackground(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padToWidth(lines[i], width)
	}
	return lines
}

func padToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		return truncate.String(s, uint(width))
	}
	return s + strings.Repeat(" ", width-w)
}

// skipWidth drops the first n printable cells of s. Escape sequences are
// kept so styling that began before the cut still applies after it.
func skipWidth(s string, n int) string {
	var out strings.Builder
	seen := 0
	inSeq := false
	cutting := n > 0
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			inSeq = true
			out.WriteRune(r)
		case inSeq:
			out.WriteRune(r)
			if ansi.IsTerminator(r) {
				inSeq = false
			}
		case cutting:
			seen += ansi.PrintableRuneWidth(string(r))
			if seen >= n {
				cutting = false
			}
		default:
			out.WriteRune(r)
		}
	}
	if cutting && n > 0 {
		return ""
	}
	return out.String()
}
