// Package render renders run summaries for the terminal.
package render

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// wrap bounds; the summary table of a full suite needs about 100 columns.
const (
	minWrap     = 60
	defaultWrap = 100
	maxWrap     = 140
)

// terminalWidth reports the stdout width, replaced in tests.
var terminalWidth = func() (int, bool) {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec // fd fits int
	return w, err == nil
}

// Markdown renders markdown for the terminal with glamour's auto style, wrapped to the terminal width.
// noColor returns content as is.
func Markdown(content string, noColor bool) (string, error) {
	if noColor {
		return content, nil
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrapWidth()))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func wrapWidth() int {
	w, ok := terminalWidth()
	switch {
	case !ok || w <= 0:
		return defaultWrap
	case w < minWrap:
		return minWrap
	case w > maxWrap:
		return maxWrap
	default:
		return w
	}
}
