// Package diff computes line-level unified diffs between an original and a
// proposed text, and renders them with terminal colors for the interactive
// session.
package diff

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	addColor    = color.New(color.FgGreen)
	removeColor = color.New(color.FgRed)
	hunkColor   = color.New(color.FgCyan)
)

// Unified returns the unified diff between original and proposed with three
// lines of context. An empty string means the two texts are identical.
func Unified(original, proposed string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:       difflib.SplitLines(original),
		B:       difflib.SplitLines(proposed),
		Context: 3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// Colorize renders a unified diff for the terminal: additions green,
// removals red, hunk headers cyan. Context lines pass through unchanged.
func Colorize(unified string) string {
	if unified == "" {
		return ""
	}

	lines := strings.Split(unified, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkColor.Sprint(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addColor.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removeColor.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}
