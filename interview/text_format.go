package interview

import (
	"strings"

	"github.com/amonks/interview/internal/markdown"
	internalstrings "github.com/amonks/interview/internal/strings"
	"github.com/muesli/reflow/wordwrap"
)

const (
	lineWidth      = 80
	documentIndent = 4
)

// RenderMarkdown formats model output for terminal display.
func RenderMarkdown(value string, width int) string {
	return string(markdown.SafeRender(max(width, 1), 0, []byte(value)))
}

// ReflowParagraphs wraps each blank-line separated paragraph to width.
func ReflowParagraphs(value string, width int) string {
	var wrapped []string
	for _, paragraph := range splitParagraphs(internalstrings.NormalizeNewlines(value)) {
		normalized := internalstrings.NormalizeWhitespace(paragraph)
		if normalized != "" {
			wrapped = append(wrapped, wordwrap.String(normalized, max(width, 1)))
		}
	}
	return strings.Join(wrapped, "\n\n")
}

func splitParagraphs(value string) []string {
	var paragraphs []string
	var current []string
	for _, line := range strings.Split(value, "\n") {
		if internalstrings.IsBlank(line) {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}

// IndentBlock prefixes each non-empty line with spaces.
func IndentBlock(value string, spaces int) string {
	value = internalstrings.TrimTrailingNewlines(value)
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
