package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var prefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// HighlightID returns an ID with its unique prefix highlighted.
func HighlightID(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) {
		return id
	}
	if !colorEnabled() {
		return id
	}
	return prefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}

// PrefixLength looks up id in a map produced by ids.UniquePrefixLengths.
func PrefixLength(lengths map[string]int, id string) int {
	if id == "" {
		return 0
	}
	return lengths[strings.ToLower(id)]
}

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
