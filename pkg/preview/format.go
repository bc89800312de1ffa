// Package preview provides an interactive rotation preview using Bubble Tea TUI.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 70

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("244"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// wrapText wraps text to the specified width, breaking long words that do not fit
func wrapText(text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var lines []string
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			lines = append(lines, word[:width])
			word = word[width:]
		}

		last := len(lines) - 1
		if last >= 0 && len(lines[last])+1+len(word) <= width {
			lines[last] += " " + word
			continue
		}
		lines = append(lines, word)
	}

	return strings.Join(lines, "\n")
}

// formatField renders a labelled value, wrapping the value to width
func formatField(label, value string, width int) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s\n%s\n", labelStyle.Render(label), wrapText(value, width))
}

// FormatLineNumber describes where the marker was found in the document
func FormatLineNumber(line int) string {
	if line <= 0 {
		return "marker not found"
	}
	return fmt.Sprintf("line %d", line)
}
